package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/modline/modtrack/internal/db"
	"github.com/modline/modtrack/internal/domain"
)

const moduleColumns = `id, project_id, tag, type, status, station, created_at, updated_at`

const qcColumns = `id, project_id, module_id, inspection, result, inspector, notes, inspected_at, created_at`

type SQLiteModuleRepo struct {
	db db.DBTX
}

func NewSQLiteModuleRepo(conn db.DBTX) *SQLiteModuleRepo {
	return &SQLiteModuleRepo{db: conn}
}

func (r *SQLiteModuleRepo) Create(ctx context.Context, m *domain.Module) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO modules (`+moduleColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.ProjectID, m.Tag, m.Type, string(m.Status), m.Station,
		formatTime(m.CreatedAt), formatTime(m.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting module: %w", err)
	}
	return nil
}

func (r *SQLiteModuleRepo) GetByID(ctx context.Context, id string) (*domain.Module, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+moduleColumns+` FROM modules WHERE id = ?`, id)
	m, err := scanModule(row)
	if err != nil {
		return nil, notFound(err, "module", id)
	}
	return m, nil
}

func (r *SQLiteModuleRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Module, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+moduleColumns+` FROM modules WHERE project_id = ? ORDER BY tag`, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing modules: %w", err)
	}
	defer rows.Close()

	var out []*domain.Module
	for rows.Next() {
		m, err := scanModule(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning module row: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating modules: %w", err)
	}
	return out, nil
}

func (r *SQLiteModuleRepo) UpdateStatus(ctx context.Context, id string, status domain.ModuleStatus, now time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE modules SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), formatTime(now), id)
	if err != nil {
		return fmt.Errorf("updating module status: %w", err)
	}
	return requireAffected(res, "module", id)
}

// CountByStatus returns how many of the project's modules sit in each
// status. Statuses with no modules are absent.
func (r *SQLiteModuleRepo) CountByStatus(ctx context.Context, projectID string) (map[domain.ModuleStatus]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM modules WHERE project_id = ? GROUP BY status`, projectID)
	if err != nil {
		return nil, fmt.Errorf("counting modules: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.ModuleStatus]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scanning module count: %w", err)
		}
		counts[domain.ModuleStatus(status)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating module counts: %w", err)
	}
	return counts, nil
}

func scanModule(s rowScanner) (*domain.Module, error) {
	var m domain.Module
	var status, createdAt, updatedAt string
	if err := s.Scan(&m.ID, &m.ProjectID, &m.Tag, &m.Type, &status, &m.Station, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	m.Status = domain.ModuleStatus(status)

	var err error
	if m.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return nil, err
	}
	if m.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

type SQLiteQCRepo struct {
	db db.DBTX
}

func NewSQLiteQCRepo(conn db.DBTX) *SQLiteQCRepo {
	return &SQLiteQCRepo{db: conn}
}

func (r *SQLiteQCRepo) Create(ctx context.Context, q *domain.QCRecord) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO qc_records (`+qcColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		q.ID, q.ProjectID, q.ModuleID, q.Inspection, string(q.Result), q.Inspector, q.Notes,
		formatTime(q.InspectedAt), formatTime(q.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting qc record: %w", err)
	}
	return nil
}

func (r *SQLiteQCRepo) ListByModule(ctx context.Context, moduleID string) ([]*domain.QCRecord, error) {
	return r.list(ctx, `module_id = ?`, moduleID)
}

func (r *SQLiteQCRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.QCRecord, error) {
	return r.list(ctx, `project_id = ?`, projectID)
}

func (r *SQLiteQCRepo) list(ctx context.Context, where string, arg any) ([]*domain.QCRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+qcColumns+` FROM qc_records WHERE `+where+
		` ORDER BY inspected_at DESC, id`, arg)
	if err != nil {
		return nil, fmt.Errorf("listing qc records: %w", err)
	}
	defer rows.Close()

	var out []*domain.QCRecord
	for rows.Next() {
		var q domain.QCRecord
		var result, inspectedAt, createdAt string
		if err := rows.Scan(&q.ID, &q.ProjectID, &q.ModuleID, &q.Inspection, &result, &q.Inspector, &q.Notes,
			&inspectedAt, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning qc row: %w", err)
		}
		q.Result = domain.QCResult(result)
		if q.InspectedAt, err = parseTime("inspected_at", inspectedAt); err != nil {
			return nil, err
		}
		if q.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
			return nil, err
		}
		out = append(out, &q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating qc records: %w", err)
	}
	return out, nil
}
