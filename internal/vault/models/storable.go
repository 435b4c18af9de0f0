// Package models defines the vault's domain entities (entries, details,
// tags, quality gates) and their storable codecs. Every entity serializes to
// one delimited record with a fixed, versioned column order; decoding is
// positional and defensive, so a corrupt row poisons only its own entity and
// unknown trailing columns from future format additions are ignored.
package models

import "strings"

// Storable is the symmetric encode/decode contract every entity implements.
// FromStorable must accept any output of ToStorable and reject anything it
// cannot safely interpret with an error matching common.ErrCorrupt.
type Storable interface {
	ToStorable() string
	FromStorable(s string) error
}

// parseBool mirrors the lenient boolean parsing of persisted rows: anything
// other than "true" (case-insensitive) reads as false.
func parseBool(cell string) bool {
	return strings.EqualFold(cell, "true")
}
