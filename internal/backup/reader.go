package backup

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/cryptox"
	"github.com/dmitrijs2005/passvault/internal/logging"
	"github.com/dmitrijs2005/passvault/internal/vault/models"
	"github.com/dmitrijs2005/passvault/internal/vault/quality"
	"github.com/dmitrijs2005/passvault/internal/vault/tags"
)

// RestorePolicy decides how decoded entries merge into the live store.
type RestorePolicy int8

const (
	// PolicyReplaceAll clears the store, then inserts every decoded entry.
	PolicyReplaceAll RestorePolicy = iota
	// PolicyOverwriteExisting replaces entries that exist and inserts the
	// rest.
	PolicyOverwriteExisting
	// PolicySkipExisting inserts only entries whose identifier is new.
	PolicySkipExisting
)

func (p RestorePolicy) String() string {
	switch p {
	case PolicyReplaceAll:
		return "replace_all"
	case PolicyOverwriteExisting:
		return "overwrite_existing"
	case PolicySkipExisting:
		return "skip_existing"
	}
	return "unknown"
}

// RestoreConfig controls one restore run. Settings and quality gates are
// restored only when both requested here and present in the document; tags
// are merged whenever the document carries any.
type RestoreConfig struct {
	Policy RestorePolicy
	// Seed decrypts the row blocks of an encrypted document.
	Seed string

	RestoreSettings     bool
	RestoreQualityGates bool
}

// Summary reports what one restore actually did.
type Summary struct {
	EntriesRestored int
	EntriesSkipped  int
	DetailsRestored int
	TagsMerged      int

	// CorruptRows counts rows dropped because they failed to decode or
	// decrypt.
	CorruptRows int
	// OrphanedDetails counts decoded details whose owning entry was not
	// part of the restored set.
	OrphanedDetails int

	SettingsApplied      int
	QualityGatesRestored int
}

// Backup wraps a parsed document for inspection and restore.
type Backup struct {
	doc *Document
	log logging.Logger
}

// Open parses raw backup bytes without decrypting anything, so callers can
// inspect the metadata and decide whether a seed prompt is needed.
func Open(data []byte, log logging.Logger) (*Backup, error) {
	doc, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return &Backup{doc: doc, log: log.With("component", "backup_reader")}, nil
}

func (b *Backup) Version() string    { return b.doc.Version }
func (b *Backup) AppVersion() string { return b.doc.AppVersion }
func (b *Backup) Created() time.Time { return b.doc.Created }
func (b *Backup) AutoCreated() bool  { return b.doc.AutoCreated }
func (b *Backup) Encrypted() bool    { return b.doc.Encrypted() }
func (b *Backup) HasSettings() bool  { return b.doc.HasSettings }

// VerifySeed reports whether the candidate seed matches the document's
// checksum. Always false for a plaintext document.
func (b *Backup) VerifySeed(seed string) bool {
	if !b.doc.Encrypted() {
		return false
	}
	return cryptox.VerifySeed(seed, b.doc.Checksum)
}

// Restore merges the document into the live stores under the given
// policy. Structural problems (missing data, missing or wrong seed) abort
// before any mutation; individual rows that fail to decode or decrypt are
// dropped and counted. The entry store is persisted once at the end.
func (b *Backup) Restore(ctx context.Context, dst Stores, cfg RestoreConfig) (*Summary, error) {
	var cipher *cryptox.Cipher
	if b.doc.Encrypted() {
		if cfg.Seed == "" {
			return nil, common.ErrNilSeed
		}
		if !cryptox.VerifySeed(cfg.Seed, b.doc.Checksum) {
			return nil, fmt.Errorf("%w: seed does not match checksum", common.ErrEncryption)
		}
		var err error
		cipher, err = cryptox.New(cfg.Seed)
		if err != nil {
			return nil, fmt.Errorf("failed to build cipher: %w", err)
		}
	}

	if !b.doc.HasData {
		return nil, fmt.Errorf("%w: no data to restore", common.ErrBackup)
	}

	summary := &Summary{}
	openRow := func(row string) (string, bool) {
		if cipher == nil {
			return row, true
		}
		plain, err := cipher.Decrypt(row)
		if err != nil {
			summary.CorruptRows++
			return "", false
		}
		return plain, true
	}

	// Decode everything before touching the store, so a fatal error can
	// never leave a half-restored state behind.
	var records []models.EntryRecord
	for _, row := range b.doc.EntryRows {
		plain, ok := openRow(row)
		if !ok {
			continue
		}
		var rec models.EntryRecord
		if err := rec.FromStorable(plain); err != nil {
			summary.CorruptRows++
			continue
		}
		records = append(records, rec)
	}

	detailsByEntry := make(map[string][]models.EntryDetail)
	for _, row := range b.doc.DetailRows {
		plain, ok := openRow(row)
		if !ok {
			continue
		}
		var detail models.EntryDetail
		if err := detail.FromStorable(plain); err != nil {
			summary.CorruptRows++
			continue
		}
		detailsByEntry[detail.EntryUUID] = append(detailsByEntry[detail.EntryUUID], detail)
	}

	// The tag block is one unit: decrypted once, then split into rows.
	var restoredTags []models.Tag
	if b.doc.TagsBlob != "" {
		if blob, ok := openRow(b.doc.TagsBlob); ok {
			parsed, dropped := tags.ParseRows(blob, b.doc.Version == VersionLegacy)
			summary.CorruptRows += dropped
			restoredTags = parsed
		}
	}

	entries := make([]models.Entry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, models.Entry{
			Record:  rec,
			Details: detailsByEntry[rec.UUID],
		})
		delete(detailsByEntry, rec.UUID)
	}
	for _, orphans := range detailsByEntry {
		summary.OrphanedDetails += len(orphans)
	}

	b.applyPolicy(dst, entries, cfg.Policy, summary)

	if len(restoredTags) > 0 {
		dst.Tags.Merge(restoredTags)
		summary.TagsMerged = len(restoredTags)
	}

	if cfg.RestoreSettings && b.doc.HasSettings {
		summary.SettingsApplied = dst.Settings.Import(b.doc.Settings)
	}
	if cfg.RestoreQualityGates && b.doc.HasSettings && b.doc.QualityGateRows != nil {
		var gates []models.QualityGate
		for _, row := range b.doc.QualityGateRows {
			var gate models.QualityGate
			if err := gate.FromStorable(row); err != nil {
				summary.CorruptRows++
				continue
			}
			gates = append(gates, gate)
		}
		// Backups carry only user gates; the built-in set is re-seeded.
		dst.Quality.ReplaceAll(append(quality.DefaultGates(), gates...))
		summary.QualityGatesRestored = len(gates)
	}

	if err := dst.Entries.Persist(ctx); err != nil {
		return summary, fmt.Errorf("failed to persist restored store: %w", err)
	}

	b.log.Info(ctx, "restore finished",
		"policy", cfg.Policy.String(),
		"restored", summary.EntriesRestored,
		"skipped", summary.EntriesSkipped,
		"corrupt_rows", summary.CorruptRows,
		"orphaned_details", summary.OrphanedDetails)
	return summary, nil
}

func (b *Backup) applyPolicy(dst Stores, entries []models.Entry, policy RestorePolicy, summary *Summary) {
	if policy == PolicyReplaceAll {
		dst.Entries.Clear()
	}
	for _, entry := range entries {
		if policy == PolicySkipExisting && dst.Entries.Contains(entry.Record.UUID) {
			summary.EntriesSkipped++
			continue
		}
		dst.Entries.Add(entry)
		summary.EntriesRestored++
		summary.DetailsRestored += len(entry.Details)
	}
}
