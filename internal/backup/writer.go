package backup

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/passvault/internal/cryptox"
	"github.com/dmitrijs2005/passvault/internal/filex"
	"github.com/dmitrijs2005/passvault/internal/logging"
	"github.com/dmitrijs2005/passvault/internal/vault/quality"
	"github.com/dmitrijs2005/passvault/internal/vault/settings"
	"github.com/dmitrijs2005/passvault/internal/vault/store"
	"github.com/dmitrijs2005/passvault/internal/vault/tags"
)

// Stores bundles the live state the writer reads from and the restorer
// merges into.
type Stores struct {
	Entries  *store.Store
	Tags     *tags.Manager
	Settings *settings.Store
	Quality  *quality.Manager
}

// WriteConfig controls one backup run.
type WriteConfig struct {
	// Seed enables per-row encryption when non-empty.
	Seed string
	// AppVersion is recorded in the metadata block.
	AppVersion string
	// AutoCreated marks backups produced without direct user action.
	AutoCreated bool

	IncludeSettings     bool
	IncludeQualityGates bool
}

// Writer serializes the live stores into backup documents.
type Writer struct {
	log logging.Logger
}

func NewWriter(log logging.Logger) *Writer {
	return &Writer{log: log.With("component", "backup_writer")}
}

// Write builds a document of the current format version from the live
// stores. Every row is encoded independently and, when a seed is
// configured, encrypted independently. Any cipher failure aborts the
// whole write.
func (w *Writer) Write(ctx context.Context, src Stores, cfg WriteConfig) (*Document, error) {
	doc := &Document{
		Version:     VersionCurrent,
		AppVersion:  cfg.AppVersion,
		Created:     time.Now(),
		AutoCreated: cfg.AutoCreated,
		HasData:     true,
	}

	var cipher *cryptox.Cipher
	if cfg.Seed != "" {
		var err error
		cipher, err = cryptox.New(cfg.Seed)
		if err != nil {
			return nil, fmt.Errorf("failed to build cipher: %w", err)
		}
		doc.Checksum, err = cipher.SealSeed()
		if err != nil {
			return nil, fmt.Errorf("failed to seal seed: %w", err)
		}
	}

	sealRow := func(row string) (string, error) {
		if cipher == nil {
			return row, nil
		}
		return cipher.Encrypt(row)
	}

	// Tags travel as one blob, encrypted as a single unit.
	if rows := src.Tags.ToRows(); rows != "" {
		blob, err := sealRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to encrypt tag block: %w", err)
		}
		doc.TagsBlob = blob
	}

	for _, rec := range src.Entries.List() {
		entry, err := src.Entries.Get(ctx, rec.UUID, false)
		if err != nil {
			return nil, fmt.Errorf("failed to read entry %s: %w", rec.UUID, err)
		}
		row, err := sealRow(entry.Record.ToStorable())
		if err != nil {
			return nil, fmt.Errorf("failed to encrypt entry row: %w", err)
		}
		doc.EntryRows = append(doc.EntryRows, row)

		for _, detail := range entry.Details {
			row, err := sealRow(detail.ToStorable())
			if err != nil {
				return nil, fmt.Errorf("failed to encrypt detail row: %w", err)
			}
			doc.DetailRows = append(doc.DetailRows, row)
		}
	}

	if cfg.IncludeSettings || cfg.IncludeQualityGates {
		doc.HasSettings = true
		doc.Settings = map[string]string{}
		if cfg.IncludeSettings {
			doc.Settings = src.Settings.Exportable()
		}
		if cfg.IncludeQualityGates {
			// Built-in gates stay with the app; only user-defined ones
			// travel in a backup.
			for _, gate := range src.Quality.All() {
				if !gate.Editable() {
					continue
				}
				doc.QualityGateRows = append(doc.QualityGateRows, gate.ToStorable())
			}
			if doc.QualityGateRows == nil {
				doc.QualityGateRows = []string{}
			}
		}
	}

	w.log.Info(ctx, "backup document built",
		"entries", len(doc.EntryRows),
		"details", len(doc.DetailRows),
		"tags", src.Tags.Len(),
		"encrypted", doc.Encrypted())
	return doc, nil
}

// WriteFile builds a document and writes it to path atomically, so a
// failed run never leaves a truncated backup behind.
func (w *Writer) WriteFile(ctx context.Context, src Stores, cfg WriteConfig, path string) error {
	doc, err := w.Write(ctx, src, cfg)
	if err != nil {
		return err
	}
	data, err := doc.Marshal()
	if err != nil {
		return err
	}
	if err := filex.WriteAtomic(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}
	w.log.Info(ctx, "backup written", "path", path, "bytes", len(data))
	return nil
}
