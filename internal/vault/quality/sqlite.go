package quality

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/passvault/internal/dbx"
	"github.com/dmitrijs2005/passvault/internal/vault/models"
)

// SQLiteRepository persists quality gates in the local database.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.QualityGate, error) {
	query := `select regex, descr, enabled, author from quality_gates order by pos`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select quality gates: %w", err)
	}
	defer rows.Close()

	var result []models.QualityGate
	for rows.Next() {
		var g models.QualityGate
		if err := rows.Scan(&g.Regex, &g.Description, &g.Enabled, &g.Author); err != nil {
			return nil, err
		}
		result = append(result, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ReplaceAll rewrites the quality_gates table to match the given set,
// preserving order.
func (r *SQLiteRepository) ReplaceAll(ctx context.Context, gates []models.QualityGate) error {
	if _, err := r.db.ExecContext(ctx, `delete from quality_gates`); err != nil {
		return fmt.Errorf("failed to clear quality gates: %w", err)
	}
	query := `insert into quality_gates (regex, descr, enabled, author) values (?, ?, ?, ?)`
	for _, g := range gates {
		if _, err := r.db.ExecContext(ctx, query, g.Regex, g.Description, g.Enabled, g.Author); err != nil {
			return fmt.Errorf("failed to insert quality gate: %w", err)
		}
	}
	return nil
}
