// Package common defines shared sentinel errors used across the PassVault
// engine. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Delimited-record codec errors.
	ErrFormat = errors.New("malformed record")

	// Entity codec errors (a single row failed to parse).
	ErrCorrupt = errors.New("storage corrupt")

	// Backup document errors.
	ErrXml        = errors.New("invalid xml")
	ErrBackup     = errors.New("backup error")
	ErrNilSeed    = errors.New("backup is encrypted but no seed is provided")
	ErrEncryption = errors.New("data could not be decrypted")

	// Store errors.
	ErrNotFound = errors.New("not found")
)
