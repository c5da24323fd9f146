package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/modline/modtrack/internal/db"
	"github.com/modline/modtrack/internal/domain"
	"github.com/shopspring/decimal"
)

const projectColumns = `id, number, name, client, factory, address, status,
		start_date, target_offline_date, delivery_date, target_online_date,
		contract_value, module_count, project_manager_id, created_at, updated_at`

type SQLiteProjectRepo struct {
	db db.DBTX
}

func NewSQLiteProjectRepo(conn db.DBTX) *SQLiteProjectRepo {
	return &SQLiteProjectRepo{db: conn}
}

func (r *SQLiteProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	query := `INSERT INTO projects (` + projectColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.Number,
		p.Name,
		p.Client,
		p.Factory,
		p.Address,
		string(p.Status),
		nullableTimeToString(p.StartDate, dateLayout),
		nullableTimeToString(p.TargetOfflineDate, dateLayout),
		nullableTimeToString(p.DeliveryDate, dateLayout),
		nullableTimeToString(p.TargetOnlineDate, dateLayout),
		p.ContractValue.String(),
		p.ModuleCount,
		p.ProjectManagerID,
		formatTime(p.CreatedAt),
		formatTime(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}
	return nil
}

func (r *SQLiteProjectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	p, err := scanProject(row)
	if err != nil {
		return nil, notFound(err, "project", id)
	}
	return p, nil
}

func (r *SQLiteProjectRepo) GetByNumber(ctx context.Context, number string) (*domain.Project, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE UPPER(number) = UPPER(?)`, number)
	p, err := scanProject(row)
	if err != nil {
		return nil, notFound(err, "project", number)
	}
	return p, nil
}

func (r *SQLiteProjectRepo) List(ctx context.Context, status domain.ProjectStatus) ([]*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects`
	var args []any
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY number`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var projects []*domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning project row: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating projects: %w", err)
	}
	return projects, nil
}

func (r *SQLiteProjectRepo) Update(ctx context.Context, p *domain.Project) error {
	query := `UPDATE projects SET number = ?, name = ?, client = ?, factory = ?, address = ?, status = ?,
		start_date = ?, target_offline_date = ?, delivery_date = ?, target_online_date = ?,
		contract_value = ?, module_count = ?, project_manager_id = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		p.Number,
		p.Name,
		p.Client,
		p.Factory,
		p.Address,
		string(p.Status),
		nullableTimeToString(p.StartDate, dateLayout),
		nullableTimeToString(p.TargetOfflineDate, dateLayout),
		nullableTimeToString(p.DeliveryDate, dateLayout),
		nullableTimeToString(p.TargetOnlineDate, dateLayout),
		p.ContractValue.String(),
		p.ModuleCount,
		p.ProjectManagerID,
		formatTime(p.UpdatedAt),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating project: %w", err)
	}
	return requireAffected(res, "project", p.ID)
}

func (r *SQLiteProjectRepo) SetStatus(ctx context.Context, id string, status domain.ProjectStatus, now time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE projects SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), formatTime(now), id)
	if err != nil {
		return fmt.Errorf("setting project status: %w", err)
	}
	return requireAffected(res, "project", id)
}

func scanProject(s rowScanner) (*domain.Project, error) {
	var p domain.Project
	var status, contractValue, createdAt, updatedAt string
	var start, offline, delivery, online sql.NullString

	err := s.Scan(
		&p.ID, &p.Number, &p.Name, &p.Client, &p.Factory, &p.Address, &status,
		&start, &offline, &delivery, &online,
		&contractValue, &p.ModuleCount, &p.ProjectManagerID, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Status = domain.ProjectStatus(status)
	p.StartDate = parseNullableTime(start, dateLayout)
	p.TargetOfflineDate = parseNullableTime(offline, dateLayout)
	p.DeliveryDate = parseNullableTime(delivery, dateLayout)
	p.TargetOnlineDate = parseNullableTime(online, dateLayout)

	if p.ContractValue, err = decimal.NewFromString(contractValue); err != nil {
		return nil, fmt.Errorf("parsing contract_value: %w", err)
	}
	if p.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
