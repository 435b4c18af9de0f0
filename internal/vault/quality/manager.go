// Package quality evaluates passwords against configurable rules.
package quality

import (
	"sync"

	"github.com/dmitrijs2005/passvault/internal/csvx"
	"github.com/dmitrijs2005/passvault/internal/vault/models"
)

// DefaultGates are the built-in rules shipped with the application.
func DefaultGates() []models.QualityGate {
	return []models.QualityGate{
		{Regex: ".{10,}", Description: "Contains at least 10 characters", Enabled: true, Author: models.QualityGateAuthorSystem},
		{Regex: "[0-9]", Description: "Contains a number", Enabled: true, Author: models.QualityGateAuthorSystem},
		{Regex: "[a-z]", Description: "Contains a lowercase letter", Enabled: true, Author: models.QualityGateAuthorSystem},
		{Regex: "[A-Z]", Description: "Contains an uppercase letter", Enabled: true, Author: models.QualityGateAuthorSystem},
		{Regex: "[^a-zA-Z0-9]", Description: "Contains a special character", Enabled: true, Author: models.QualityGateAuthorSystem},
	}
}

// Manager holds the active set of quality gates. Safe for concurrent use.
type Manager struct {
	mu    sync.RWMutex
	gates []models.QualityGate
}

// NewManager returns a manager populated with the built-in gates.
func NewManager() *Manager {
	return &Manager{gates: DefaultGates()}
}

// All returns a snapshot of the gates in their stored order.
func (m *Manager) All() []models.QualityGate {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.QualityGate, len(m.gates))
	copy(out, m.gates)
	return out
}

// Add appends a gate.
func (m *Manager) Add(g models.QualityGate) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gates = append(m.gates, g)
}

// ReplaceAll installs the given gates, discarding the current set.
func (m *Manager) ReplaceAll(gates []models.QualityGate) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gates = make([]models.QualityGate, len(gates))
	copy(m.gates, gates)
}

// Score returns how many enabled gates the password passes and the total
// number of enabled gates.
func (m *Manager) Score(password string) (passed, total int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, g := range m.gates {
		if !g.Enabled {
			continue
		}
		total++
		if g.Matches(password) {
			passed++
		}
	}
	return passed, total
}

// ToRows serializes the gates as one row per gate.
func (m *Manager) ToRows() string {
	gates := m.All()
	rows := make([]string, 0, len(gates))
	for _, g := range gates {
		rows = append(rows, g.ToStorable())
	}
	return csvx.JoinRows(rows)
}

// ParseRows decodes a multi-row gate blob, dropping rows that fail to
// decode and reporting how many were skipped.
func ParseRows(blob string) ([]models.QualityGate, int) {
	var out []models.QualityGate
	dropped := 0
	for _, row := range csvx.SplitRows(blob, false) {
		var g models.QualityGate
		if err := g.FromStorable(row); err != nil {
			dropped++
			continue
		}
		out = append(out, g)
	}
	return out, dropped
}
