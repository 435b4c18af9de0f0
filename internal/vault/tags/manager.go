// Package tags keeps the registry of user-defined labels and their
// multi-row text codec used by backups and the database.
package tags

import (
	"sort"
	"sync"

	"github.com/dmitrijs2005/passvault/internal/csvx"
	"github.com/dmitrijs2005/passvault/internal/vault/models"
)

// Manager is a uuid-keyed tag registry. All methods are safe for
// concurrent use.
type Manager struct {
	mu   sync.RWMutex
	tags map[string]models.Tag
}

func NewManager() *Manager {
	return &Manager{tags: make(map[string]models.Tag)}
}

// Add inserts or updates a tag.
func (m *Manager) Add(t models.Tag) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tags[t.UUID] = t
}

// Get returns the tag with the given identifier.
func (m *Manager) Get(id string) (models.Tag, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tags[id]
	return t, ok
}

// ByName returns the first tag with the given name.
func (m *Manager) ByName(name string) (models.Tag, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.tags {
		if t.Name == name {
			return t, true
		}
	}
	return models.Tag{}, false
}

// Remove deletes the tag and reports whether it existed. Callers that
// track tag references on entries must strip the identifier themselves;
// see the entry store's StripTag.
func (m *Manager) Remove(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.tags[id]
	delete(m.tags, id)
	return ok
}

// ReplaceAll discards the registry and installs the given tags.
func (m *Manager) ReplaceAll(tags []models.Tag) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tags = make(map[string]models.Tag, len(tags))
	for _, t := range tags {
		m.tags[t.UUID] = t
	}
}

// Merge inserts tags that are not present yet and leaves existing ones
// untouched.
func (m *Manager) Merge(tags []models.Tag) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range tags {
		if _, ok := m.tags[t.UUID]; !ok {
			m.tags[t.UUID] = t
		}
	}
}

// All returns a snapshot of the registry sorted by name.
func (m *Manager) All() []models.Tag {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Tag, 0, len(m.tags))
	for _, t := range m.tags {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].UUID < out[j].UUID
	})
	return out
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tags)
}

// ToRows serializes the registry as one row per tag, sorted by name so the
// output is deterministic.
func (m *Manager) ToRows() string {
	tags := m.All()
	rows := make([]string, 0, len(tags))
	for _, t := range tags {
		rows = append(rows, t.ToStorable())
	}
	return csvx.JoinRows(rows)
}

// ParseRows decodes a multi-row tag blob. Rows that fail to decode are
// dropped; the returned count reports how many were skipped. The trim flag
// enables the legacy splitter for indented blocks.
func ParseRows(blob string, trim bool) ([]models.Tag, int) {
	var out []models.Tag
	dropped := 0
	for _, row := range csvx.SplitRows(blob, trim) {
		var t models.Tag
		if err := t.FromStorable(row); err != nil {
			dropped++
			continue
		}
		out = append(out, t)
	}
	return out, dropped
}
