package repository

import (
	"context"
	"fmt"

	"github.com/modline/modtrack/internal/db"
	"github.com/modline/modtrack/internal/domain"
)

// SQLiteItemSequenceRepo hands out per-project, per-kind item numbers from
// the item_sequences table.
type SQLiteItemSequenceRepo struct {
	db db.DBTX
}

func NewSQLiteItemSequenceRepo(conn db.DBTX) *SQLiteItemSequenceRepo {
	return &SQLiteItemSequenceRepo{db: conn}
}

// NextNumber allocates the next number for kind within the project. The
// first allocation seeds the counter from any rows already present.
func (r *SQLiteItemSequenceRepo) NextNumber(ctx context.Context, projectID string, kind domain.ItemKind) (int, error) {
	table, err := itemTable(kind)
	if err != nil {
		return 0, err
	}

	seed := `INSERT OR IGNORE INTO item_sequences (project_id, kind, next_number)
		SELECT ?, ?, COALESCE(MAX(number), 0) + 1 FROM ` + table + ` WHERE project_id = ?`
	if _, err := r.db.ExecContext(ctx, seed, projectID, string(kind), projectID); err != nil {
		return 0, fmt.Errorf("seeding %s sequence for %s: %w", kind, projectID, err)
	}

	var next int
	alloc := `UPDATE item_sequences
		SET next_number = next_number + 1
		WHERE project_id = ? AND kind = ?
		RETURNING next_number - 1`
	if err := r.db.QueryRowContext(ctx, alloc, projectID, string(kind)).Scan(&next); err != nil {
		return 0, fmt.Errorf("allocating %s number for %s: %w", kind, projectID, err)
	}
	return next, nil
}
