package settings

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/passvault/internal/dbx"
)

// SQLiteRepository persists settings in the local database.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) GetAll(ctx context.Context) (map[string]string, error) {
	query := `select key, value from settings`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select settings: %w", err)
	}
	defer rows.Close()

	result := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		result[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) Set(ctx context.Context, key, value string) error {
	query := `insert into settings (key, value) values (?, ?)
		on conflict(key) do update set value=excluded.value`
	if _, err := r.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to save setting: %w", err)
	}
	return nil
}

// SaveAll writes every pair from the map.
func (r *SQLiteRepository) SaveAll(ctx context.Context, values map[string]string) error {
	for k, v := range values {
		if err := r.Set(ctx, k, v); err != nil {
			return err
		}
	}
	return nil
}
