package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/passvault/internal/dbx"
	"github.com/dmitrijs2005/passvault/internal/vault/models"
)

// SQLiteDelegate persists the store in the local database. Records and
// details are kept in their storable row form, so the database schema does
// not need to change when a codec gains trailing columns.
type SQLiteDelegate struct {
	db *sql.DB
}

func NewSQLiteDelegate(db *sql.DB) *SQLiteDelegate {
	return &SQLiteDelegate{db: db}
}

func (d *SQLiteDelegate) LoadIndex(ctx context.Context) (map[string]models.EntryRecord, error) {
	query := `select row from entries`
	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select entries: %w", err)
	}
	defer rows.Close()

	result := make(map[string]models.EntryRecord)
	for rows.Next() {
		var row string
		if err := rows.Scan(&row); err != nil {
			return nil, err
		}
		var rec models.EntryRecord
		if err := rec.FromStorable(row); err != nil {
			return nil, fmt.Errorf("failed to decode entry row: %w", err)
		}
		result[rec.UUID] = rec
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (d *SQLiteDelegate) LoadDetails(ctx context.Context, rec models.EntryRecord) ([]models.EntryDetail, error) {
	query := `select row from details where entry_uuid=? order by pos`
	rows, err := d.db.QueryContext(ctx, query, rec.UUID)
	if err != nil {
		return nil, fmt.Errorf("failed to select details: %w", err)
	}
	defer rows.Close()

	var result []models.EntryDetail
	for rows.Next() {
		var row string
		if err := rows.Scan(&row); err != nil {
			return nil, err
		}
		var detail models.EntryDetail
		if err := detail.FromStorable(row); err != nil {
			return nil, fmt.Errorf("failed to decode detail row: %w", err)
		}
		result = append(result, detail)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (d *SQLiteDelegate) SaveIndex(ctx context.Context, records []models.EntryRecord) error {
	return dbx.WithTx(ctx, d.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `delete from entries`); err != nil {
			return fmt.Errorf("failed to clear entries: %w", err)
		}
		query := `insert into entries (uuid, row) values (?, ?)`
		for _, rec := range records {
			if _, err := tx.ExecContext(ctx, query, rec.UUID, rec.ToStorable()); err != nil {
				return fmt.Errorf("failed to insert entry: %w", err)
			}
		}
		return nil
	})
}

func (d *SQLiteDelegate) SaveDetails(ctx context.Context, entryID string, details []models.EntryDetail) error {
	return dbx.WithTx(ctx, d.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `delete from details where entry_uuid=?`, entryID); err != nil {
			return fmt.Errorf("failed to clear details: %w", err)
		}
		query := `insert into details (uuid, entry_uuid, pos, row) values (?, ?, ?, ?)`
		for pos, detail := range details {
			if _, err := tx.ExecContext(ctx, query, detail.UUID, entryID, pos, detail.ToStorable()); err != nil {
				return fmt.Errorf("failed to insert detail: %w", err)
			}
		}
		return nil
	})
}

func (d *SQLiteDelegate) DeleteDetails(ctx context.Context, entryID string) error {
	if _, err := d.db.ExecContext(ctx, `delete from details where entry_uuid=?`, entryID); err != nil {
		return fmt.Errorf("failed to delete details: %w", err)
	}
	return nil
}
