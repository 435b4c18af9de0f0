package store

import (
	"context"

	"github.com/dmitrijs2005/passvault/internal/vault/models"
)

// Delegate is the persistence boundary of the store. The index is written
// as one batch, details per entry. Implementations do not need to be safe
// for concurrent use; the store serializes all calls.
type Delegate interface {
	// LoadIndex returns every persisted record keyed by identifier.
	LoadIndex(ctx context.Context) (map[string]models.EntryRecord, error)
	// LoadDetails returns the details of one entry in stored order.
	LoadDetails(ctx context.Context, rec models.EntryRecord) ([]models.EntryDetail, error)
	// SaveIndex replaces the persisted index with the given records.
	SaveIndex(ctx context.Context, records []models.EntryRecord) error
	// SaveDetails replaces the persisted details of one entry.
	SaveDetails(ctx context.Context, entryID string, details []models.EntryDetail) error
	// DeleteDetails removes the persisted details of one entry.
	DeleteDetails(ctx context.Context, entryID string) error
}
