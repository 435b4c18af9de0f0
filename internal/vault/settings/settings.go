// Package settings holds application preferences as string key/value
// pairs. Only a fixed set of keys travels through backups; unknown keys
// arriving from a backup are ignored.
package settings

import (
	"sync"
)

// Keys carried in backups. These are persistent identifiers; renaming one
// would orphan the value in existing backups.
const (
	KeyAutofillCaching           = "autofill_caching"
	KeyAutofillAuthentication    = "autofill_authentication"
	KeyDarkmode                  = "darkmode"
	KeyRecentlyEdited            = "recently_edited"
	KeyDetailSwipeLeft           = "detail_swipe_left"
	KeyDetailSwipeRight          = "detail_swipe_right"
	KeyBackupIncludeSettings     = "backup_include_settings"
	KeyBackupIncludeQualityGates = "backup_include_quality_gates"
	KeyBackupEncrypt             = "backup_encrypt"
	KeyPreventScreenshot         = "prevent_screenshot"
)

var exportableKeys = map[string]struct{}{
	KeyAutofillCaching:           {},
	KeyAutofillAuthentication:    {},
	KeyDarkmode:                  {},
	KeyRecentlyEdited:            {},
	KeyDetailSwipeLeft:           {},
	KeyDetailSwipeRight:          {},
	KeyBackupIncludeSettings:     {},
	KeyBackupIncludeQualityGates: {},
	KeyBackupEncrypt:             {},
	KeyPreventScreenshot:         {},
}

// IsExportable reports whether the key is part of the backup contract.
func IsExportable(key string) bool {
	_, ok := exportableKeys[key]
	return ok
}

// Store is an in-memory settings map. Safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewStore() *Store {
	return &Store{values: make(map[string]string)}
}

// Get returns the value and whether the key is set.
func (s *Store) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// GetDefault returns the value, or def when the key is not set.
func (s *Store) GetDefault(key, def string) string {
	if v, ok := s.Get(key); ok {
		return v
	}
	return def
}

// Set stores a value under any key, exportable or not.
func (s *Store) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

// Delete removes a key.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
}

// All returns a copy of every stored setting.
func (s *Store) All() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Exportable returns a copy of the settings that belong in a backup.
func (s *Store) Exportable() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string)
	for k, v := range s.values {
		if IsExportable(k) {
			out[k] = v
		}
	}
	return out
}

// Import applies incoming key/value pairs, silently dropping keys that are
// not exportable. It returns the number of applied pairs.
func (s *Store) Import(values map[string]string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	applied := 0
	for k, v := range values {
		if !IsExportable(k) {
			continue
		}
		s.values[k] = v
		applied++
	}
	return applied
}
