package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/modline/modtrack/internal/db"
	"github.com/modline/modtrack/internal/domain"
)

const floorPlanColumns = `id, project_id, name, level, storage_path, public_url, file_type,
		is_active, created_at, updated_at`

const markerColumns = `id, floor_plan_id, x, y, label, item_kind, item_id, created_at`

type SQLiteFloorPlanRepo struct {
	db db.DBTX
}

func NewSQLiteFloorPlanRepo(conn db.DBTX) *SQLiteFloorPlanRepo {
	return &SQLiteFloorPlanRepo{db: conn}
}

func (r *SQLiteFloorPlanRepo) Create(ctx context.Context, f *domain.FloorPlan) error {
	query := `INSERT INTO floor_plans (` + floorPlanColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		f.ID, f.ProjectID, f.Name, f.Level, f.StoragePath, f.PublicURL, f.FileType,
		boolToInt(f.IsActive), formatTime(f.CreatedAt), formatTime(f.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting floor plan: %w", err)
	}
	return nil
}

func (r *SQLiteFloorPlanRepo) GetByID(ctx context.Context, id string) (*domain.FloorPlan, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+floorPlanColumns+` FROM floor_plans WHERE id = ?`, id)
	f, err := scanFloorPlan(row)
	if err != nil {
		return nil, notFound(err, "floor plan", id)
	}
	return f, nil
}

// ListActive returns the project's active plans ordered by level then name.
func (r *SQLiteFloorPlanRepo) ListActive(ctx context.Context, projectID string) ([]*domain.FloorPlan, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+floorPlanColumns+` FROM floor_plans
		WHERE project_id = ? AND is_active = 1 ORDER BY level, name`, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing floor plans: %w", err)
	}
	defer rows.Close()

	var out []*domain.FloorPlan
	for rows.Next() {
		f, err := scanFloorPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning floor plan row: %w", err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating floor plans: %w", err)
	}
	return out, nil
}

func (r *SQLiteFloorPlanRepo) Deactivate(ctx context.Context, id string, now time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE floor_plans SET is_active = 0, updated_at = ? WHERE id = ?`,
		formatTime(now), id)
	if err != nil {
		return fmt.Errorf("deactivating floor plan: %w", err)
	}
	return requireAffected(res, "floor plan", id)
}

func (r *SQLiteFloorPlanRepo) CreateMarker(ctx context.Context, m *domain.Marker) error {
	query := `INSERT INTO floor_plan_markers (` + markerColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		m.ID, m.FloorPlanID, m.X, m.Y, m.Label, string(m.ItemKind), m.ItemID, formatTime(m.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting marker: %w", err)
	}
	return nil
}

func (r *SQLiteFloorPlanRepo) ListMarkers(ctx context.Context, floorPlanID string) ([]*domain.Marker, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+markerColumns+` FROM floor_plan_markers
		WHERE floor_plan_id = ? ORDER BY created_at, id`, floorPlanID)
	if err != nil {
		return nil, fmt.Errorf("listing markers: %w", err)
	}
	defer rows.Close()

	var out []*domain.Marker
	for rows.Next() {
		var m domain.Marker
		var kind, createdAt string
		if err := rows.Scan(&m.ID, &m.FloorPlanID, &m.X, &m.Y, &m.Label, &kind, &m.ItemID, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning marker row: %w", err)
		}
		m.ItemKind = domain.ItemKind(kind)
		if m.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating markers: %w", err)
	}
	return out, nil
}

func (r *SQLiteFloorPlanRepo) DeleteMarker(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM floor_plan_markers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting marker: %w", err)
	}
	return requireAffected(res, "marker", id)
}

func scanFloorPlan(s rowScanner) (*domain.FloorPlan, error) {
	var f domain.FloorPlan
	var active int
	var createdAt, updatedAt string
	if err := s.Scan(
		&f.ID, &f.ProjectID, &f.Name, &f.Level, &f.StoragePath, &f.PublicURL, &f.FileType,
		&active, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}
	f.IsActive = active != 0

	var err error
	if f.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return nil, err
	}
	if f.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return nil, err
	}
	return &f, nil
}
