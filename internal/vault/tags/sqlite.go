package tags

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/passvault/internal/dbx"
	"github.com/dmitrijs2005/passvault/internal/vault/models"
)

// SQLiteRepository persists tags in the local database.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Tag, error) {
	query := `select uuid, name from tags order by name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select tags: %w", err)
	}
	defer rows.Close()

	var result []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.UUID, &t.Name); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ReplaceAll rewrites the tags table to match the given set.
func (r *SQLiteRepository) ReplaceAll(ctx context.Context, tags []models.Tag) error {
	if _, err := r.db.ExecContext(ctx, `delete from tags`); err != nil {
		return fmt.Errorf("failed to clear tags: %w", err)
	}
	query := `insert into tags (uuid, name) values (?, ?)`
	for _, t := range tags {
		if _, err := r.db.ExecContext(ctx, query, t.UUID, t.Name); err != nil {
			return fmt.Errorf("failed to insert tag: %w", err)
		}
	}
	return nil
}
