package tags

import (
	"testing"

	"github.com/dmitrijs2005/passvault/internal/vault/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_AddGetRemove(t *testing.T) {
	m := NewManager()
	tag := models.NewTag("work")
	m.Add(tag)

	got, ok := m.Get(tag.UUID)
	require.True(t, ok)
	assert.Equal(t, tag, got)

	byName, ok := m.ByName("work")
	require.True(t, ok)
	assert.Equal(t, tag.UUID, byName.UUID)

	assert.True(t, m.Remove(tag.UUID))
	assert.False(t, m.Remove(tag.UUID))
	_, ok = m.Get(tag.UUID)
	assert.False(t, ok)
}

func TestManager_AllSorted(t *testing.T) {
	m := NewManager()
	m.Add(models.Tag{UUID: "b", Name: "zeta"})
	m.Add(models.Tag{UUID: "a", Name: "alpha"})
	m.Add(models.Tag{UUID: "c", Name: "mid"})

	all := m.All()
	require.Len(t, all, 3)
	assert.Equal(t, "alpha", all[0].Name)
	assert.Equal(t, "mid", all[1].Name)
	assert.Equal(t, "zeta", all[2].Name)
}

func TestManager_ReplaceAllAndMerge(t *testing.T) {
	m := NewManager()
	m.Add(models.Tag{UUID: "old", Name: "old"})

	m.ReplaceAll([]models.Tag{{UUID: "a", Name: "alpha"}})
	assert.Equal(t, 1, m.Len())
	_, ok := m.Get("old")
	assert.False(t, ok)

	m.Merge([]models.Tag{
		{UUID: "a", Name: "renamed"}, // existing, must not be overwritten
		{UUID: "b", Name: "beta"},
	})
	assert.Equal(t, 2, m.Len())
	got, _ := m.Get("a")
	assert.Equal(t, "alpha", got.Name)
}

func TestManager_RowsRoundTrip(t *testing.T) {
	m := NewManager()
	m.Add(models.Tag{UUID: "a", Name: "alpha"})
	m.Add(models.Tag{UUID: "b", Name: "with, comma"})

	parsed, dropped := ParseRows(m.ToRows(), false)
	assert.Zero(t, dropped)
	require.Len(t, parsed, 2)
	assert.Equal(t, "alpha", parsed[0].Name)
	assert.Equal(t, "with, comma", parsed[1].Name)
}

func TestParseRows_DropsBadRows(t *testing.T) {
	blob := "a,alpha\nonly-one-column\nb,beta,extra\nc,gamma"
	parsed, dropped := ParseRows(blob, false)
	assert.Equal(t, 2, dropped)
	require.Len(t, parsed, 2)
	assert.Equal(t, "alpha", parsed[0].Name)
	assert.Equal(t, "gamma", parsed[1].Name)
}

func TestParseRows_LegacyIndentation(t *testing.T) {
	blob := "    a,alpha\n    b,beta"
	parsed, dropped := ParseRows(blob, true)
	assert.Zero(t, dropped)
	require.Len(t, parsed, 2)
	assert.Equal(t, "beta", parsed[1].Name)
}
