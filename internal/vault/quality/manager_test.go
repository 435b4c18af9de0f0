package quality

import (
	"testing"

	"github.com/dmitrijs2005/passvault/internal/vault/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_Score(t *testing.T) {
	m := NewManager()

	tests := []struct {
		name     string
		password string
		passed   int
	}{
		{"strong", "Aa1!longenough", 5},
		{"no specials", "Aa1longenough", 4},
		{"short lowercase", "abc", 1},
		{"empty", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			passed, total := m.Score(tt.password)
			assert.Equal(t, 5, total)
			assert.Equal(t, tt.passed, passed)
		})
	}
}

func TestManager_DisabledGatesExcluded(t *testing.T) {
	m := NewManager()
	gates := m.All()
	gates[0].Enabled = false
	m.ReplaceAll(gates)

	_, total := m.Score("anything")
	assert.Equal(t, 4, total)
}

func TestManager_ReplaceAllIsolation(t *testing.T) {
	m := NewManager()
	custom := []models.QualityGate{models.NewQualityGate("^x", "starts with x")}
	m.ReplaceAll(custom)

	custom[0].Description = "mutated"
	all := m.All()
	require.Len(t, all, 1)
	assert.Equal(t, "starts with x", all[0].Description)
}

func TestRowsRoundTrip(t *testing.T) {
	m := NewManager()
	m.Add(models.NewQualityGate("[0-9]{4}", "Four digits, e.g. \"1234\""))

	parsed, dropped := ParseRows(m.ToRows())
	assert.Zero(t, dropped)
	assert.Len(t, parsed, 6)
	assert.Equal(t, "[0-9]{4}", parsed[5].Regex)
}

func TestParseRows_DropsBadRows(t *testing.T) {
	blob := "[0-9],Has a digit,true,user\n,missing pattern,true,user"
	parsed, dropped := ParseRows(blob)
	assert.Equal(t, 1, dropped)
	require.Len(t, parsed, 1)
	assert.Equal(t, "[0-9]", parsed[0].Regex)
}
