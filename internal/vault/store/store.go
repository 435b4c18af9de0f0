// Package store keeps the live set of vault entries: an always-resident
// index of lightweight records plus a lazily-loaded cache of per-entry
// details. Mutations accumulate in memory and reach the persistence
// delegate only on Persist.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/logging"
	"github.com/dmitrijs2005/passvault/internal/vault/models"
)

// change records what Persist must do for one entry.
type change int8

const (
	changeSave change = iota
	changeDelete
)

// Store is the two-tier entry cache. A single mutex guards all state;
// reads of the index are served from snapshot copies.
type Store struct {
	mu       sync.Mutex
	delegate Delegate
	log      logging.Logger

	index   map[string]models.EntryRecord
	details map[string][]models.EntryDetail

	changes    map[string]change
	indexDirty bool

	subscribers []func()
}

func New(delegate Delegate, log logging.Logger) *Store {
	return &Store{
		delegate: delegate,
		log:      log.With("component", "store"),
		index:    make(map[string]models.EntryRecord),
		details:  make(map[string][]models.EntryDetail),
		changes:  make(map[string]change),
	}
}

// Load replaces the index with the persisted one. Any unpersisted changes
// are discarded.
func (s *Store) Load(ctx context.Context) error {
	index, err := s.delegate.LoadIndex(ctx)
	if err != nil {
		return fmt.Errorf("failed to load index: %w", err)
	}

	s.mu.Lock()
	s.index = make(map[string]models.EntryRecord, len(index))
	for id, rec := range index {
		s.index[id] = rec.Clone()
	}
	s.details = make(map[string][]models.EntryDetail)
	s.changes = make(map[string]change)
	s.indexDirty = false
	s.mu.Unlock()

	s.log.Info(ctx, "index loaded", "entries", len(index))
	return nil
}

// Contains reports whether an entry with the given identifier exists.
func (s *Store) Contains(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.index[id]
	return ok
}

// Len returns the number of entries in the index.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.index)
}

// Get returns the entry with its details. Details come from the cache when
// present, otherwise from the delegate; when cache is true the loaded
// details are retained for later calls. Returns common.ErrNotFound for an
// unknown identifier.
func (s *Store) Get(ctx context.Context, id string, cache bool) (models.Entry, error) {
	s.mu.Lock()
	rec, ok := s.index[id]
	if !ok {
		s.mu.Unlock()
		return models.Entry{}, fmt.Errorf("%w: entry %s", common.ErrNotFound, id)
	}
	if details, ok := s.details[id]; ok {
		e := models.Entry{Record: rec.Clone(), Details: append([]models.EntryDetail(nil), details...)}
		s.mu.Unlock()
		return e, nil
	}
	s.mu.Unlock()

	details, err := s.delegate.LoadDetails(ctx, rec)
	if err != nil {
		return models.Entry{}, fmt.Errorf("failed to load details: %w", err)
	}

	if cache {
		s.mu.Lock()
		// Drop the loaded details if the entry was mutated while unlocked.
		if _, dirty := s.changes[id]; !dirty {
			if _, exists := s.index[id]; exists {
				s.details[id] = append([]models.EntryDetail(nil), details...)
			}
		}
		s.mu.Unlock()
	}

	return models.Entry{Record: rec.Clone(), Details: details}, nil
}

// Add inserts or replaces an entry together with its details and marks it
// for persistence.
func (s *Store) Add(e models.Entry) {
	c := e.Clone()
	s.mu.Lock()
	s.index[c.Record.UUID] = c.Record
	s.details[c.Record.UUID] = c.Details
	s.changes[c.Record.UUID] = changeSave
	s.indexDirty = true
	s.mu.Unlock()
	s.notify()
}

// Replace is Add restricted to existing entries. It reports whether the
// entry was present.
func (s *Store) Replace(e models.Entry) bool {
	s.mu.Lock()
	if _, ok := s.index[e.Record.UUID]; !ok {
		s.mu.Unlock()
		return false
	}
	c := e.Clone()
	s.index[c.Record.UUID] = c.Record
	s.details[c.Record.UUID] = c.Details
	s.changes[c.Record.UUID] = changeSave
	s.indexDirty = true
	s.mu.Unlock()
	s.notify()
	return true
}

// Remove deletes an entry and reports whether it was present.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	if _, ok := s.index[id]; !ok {
		s.mu.Unlock()
		return false
	}
	delete(s.index, id)
	delete(s.details, id)
	s.changes[id] = changeDelete
	s.indexDirty = true
	s.mu.Unlock()
	s.notify()
	return true
}

// Clear empties the store, marking every removed entry for deletion.
func (s *Store) Clear() {
	s.mu.Lock()
	for id := range s.index {
		s.changes[id] = changeDelete
	}
	s.index = make(map[string]models.EntryRecord)
	s.details = make(map[string][]models.EntryDetail)
	s.indexDirty = true
	s.mu.Unlock()
	s.notify()
}

// StripTag removes a tag reference from every entry carrying it and
// returns the number of affected entries.
func (s *Store) StripTag(tagID string) int {
	affected := 0
	s.mu.Lock()
	for id, rec := range s.index {
		kept := rec.Tags[:0:0]
		for _, t := range rec.Tags {
			if t != tagID {
				kept = append(kept, t)
			}
		}
		if len(kept) == len(rec.Tags) {
			continue
		}
		rec.Tags = kept
		rec.Touch()
		s.index[id] = rec
		s.changes[id] = changeSave
		s.indexDirty = true
		affected++
	}
	s.mu.Unlock()
	if affected > 0 {
		s.notify()
	}
	return affected
}

// List returns a snapshot of the index sorted by name, then identifier.
func (s *Store) List() []models.EntryRecord {
	out := s.snapshot()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].UUID < out[j].UUID
	})
	return out
}

// ListByChanged returns a snapshot of the index, most recently modified
// first.
func (s *Store) ListByChanged() []models.EntryRecord {
	out := s.snapshot()
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Changed.Equal(out[j].Changed) {
			return out[i].Changed.After(out[j].Changed)
		}
		return out[i].UUID < out[j].UUID
	})
	return out
}

// MostRecentlyEdited returns up to n records, most recently modified first.
func (s *Store) MostRecentlyEdited(n int) []models.EntryRecord {
	out := s.ListByChanged()
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Filter returns index records matching the query, sorted by name.
func (s *Store) Filter(query string) []models.EntryRecord {
	all := s.List()
	out := all[:0:0]
	for _, rec := range all {
		if rec.Matches(query) {
			out = append(out, rec)
		}
	}
	return out
}

func (s *Store) snapshot() []models.EntryRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.EntryRecord, 0, len(s.index))
	for _, rec := range s.index {
		out = append(out, rec.Clone())
	}
	return out
}

// Dirty reports whether there are unpersisted changes.
func (s *Store) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexDirty || len(s.changes) > 0
}

// Persist flushes all accumulated changes: the index in one batch, then
// the details of each changed entry. Markers are kept on failure so a
// retry covers the remaining work.
func (s *Store) Persist(ctx context.Context) error {
	s.mu.Lock()
	if !s.indexDirty && len(s.changes) == 0 {
		s.mu.Unlock()
		return nil
	}
	records := make([]models.EntryRecord, 0, len(s.index))
	for _, rec := range s.index {
		records = append(records, rec.Clone())
	}
	changes := make(map[string]change, len(s.changes))
	for id, c := range s.changes {
		changes[id] = c
	}
	detailsByID := make(map[string][]models.EntryDetail, len(changes))
	for id, c := range changes {
		// Record-only changes (e.g. a stripped tag) leave the persisted
		// details alone; only cached detail sets are written back.
		if c == changeSave {
			if details, ok := s.details[id]; ok {
				detailsByID[id] = append([]models.EntryDetail(nil), details...)
			}
		}
	}
	s.mu.Unlock()

	if err := s.delegate.SaveIndex(ctx, records); err != nil {
		return fmt.Errorf("failed to save index: %w", err)
	}

	saved := 0
	deleted := 0
	for id, c := range changes {
		var err error
		switch c {
		case changeSave:
			if details, ok := detailsByID[id]; ok {
				err = s.delegate.SaveDetails(ctx, id, details)
			}
			saved++
		case changeDelete:
			err = s.delegate.DeleteDetails(ctx, id)
			deleted++
		}
		if err != nil {
			return fmt.Errorf("failed to persist entry %s: %w", id, err)
		}
		s.mu.Lock()
		// A concurrent mutation since the snapshot keeps its own marker.
		if cur, ok := s.changes[id]; ok && cur == c {
			delete(s.changes, id)
		}
		s.mu.Unlock()
	}

	s.mu.Lock()
	if len(s.changes) == 0 {
		s.indexDirty = false
	}
	s.mu.Unlock()

	s.log.Info(ctx, "store persisted", "entries", len(records), "saved", saved, "deleted", deleted)
	return nil
}

// Subscribe registers a callback invoked after every mutation. Callbacks
// run synchronously on the mutating goroutine and must not call back into
// the store.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	s.subscribers = append(s.subscribers, fn)
	s.mu.Unlock()
}

func (s *Store) notify() {
	s.mu.Lock()
	subs := append(make([]func(), 0, len(s.subscribers)), s.subscribers...)
	s.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}
