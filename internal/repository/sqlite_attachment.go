package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/modline/modtrack/internal/db"
	"github.com/modline/modtrack/internal/domain"
)

const attachmentColumns = `id, project_id, task_id, rfi_id, submittal_id, file_name,
		storage_path, public_url, file_size, file_type, uploaded_by, created_at`

// targetColumn is the attachments column holding an item of the given kind.
var targetColumn = map[domain.ItemKind]string{
	domain.KindTask:      "task_id",
	domain.KindRFI:       "rfi_id",
	domain.KindSubmittal: "submittal_id",
}

type SQLiteAttachmentRepo struct {
	db db.DBTX
}

func NewSQLiteAttachmentRepo(conn db.DBTX) *SQLiteAttachmentRepo {
	return &SQLiteAttachmentRepo{db: conn}
}

func (r *SQLiteAttachmentRepo) Create(ctx context.Context, a *domain.Attachment) error {
	if err := a.Target.Validate(); err != nil {
		return err
	}
	var taskID, rfiID, submittalID any
	switch a.Target.Kind {
	case domain.KindTask:
		taskID = a.Target.ID
	case domain.KindRFI:
		rfiID = a.Target.ID
	case domain.KindSubmittal:
		submittalID = a.Target.ID
	}

	query := `INSERT INTO attachments (` + attachmentColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.ProjectID, taskID, rfiID, submittalID, a.FileName,
		a.StoragePath, a.PublicURL, a.FileSize, a.FileType, a.UploadedBy,
		formatTime(a.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting attachment: %w", err)
	}
	return nil
}

func (r *SQLiteAttachmentRepo) GetByID(ctx context.Context, id string) (*domain.Attachment, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+attachmentColumns+` FROM attachments WHERE id = ?`, id)
	a, err := scanAttachment(row)
	if err != nil {
		return nil, notFound(err, "attachment", id)
	}
	return a, nil
}

func (r *SQLiteAttachmentRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Attachment, error) {
	return r.list(ctx, `SELECT `+attachmentColumns+` FROM attachments
		WHERE project_id = ? ORDER BY created_at DESC, file_name`, projectID)
}

// ListByTarget lists the attachments of one item, or the project-level ones
// when target is empty.
func (r *SQLiteAttachmentRepo) ListByTarget(ctx context.Context, projectID string, target domain.AttachmentTarget) ([]*domain.Attachment, error) {
	if err := target.Validate(); err != nil {
		return nil, err
	}
	if target.ProjectLevel() {
		return r.list(ctx, `SELECT `+attachmentColumns+` FROM attachments
			WHERE project_id = ? AND task_id IS NULL AND rfi_id IS NULL AND submittal_id IS NULL
			ORDER BY created_at DESC, file_name`, projectID)
	}
	return r.list(ctx, `SELECT `+attachmentColumns+` FROM attachments
		WHERE project_id = ? AND `+targetColumn[target.Kind]+` = ?
		ORDER BY created_at DESC, file_name`, projectID, target.ID)
}

func (r *SQLiteAttachmentRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM attachments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting attachment: %w", err)
	}
	return requireAffected(res, "attachment", id)
}

func (r *SQLiteAttachmentRepo) list(ctx context.Context, query string, args ...any) ([]*domain.Attachment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing attachments: %w", err)
	}
	defer rows.Close()

	var out []*domain.Attachment
	for rows.Next() {
		a, err := scanAttachment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning attachment row: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating attachments: %w", err)
	}
	return out, nil
}

func scanAttachment(s rowScanner) (*domain.Attachment, error) {
	var a domain.Attachment
	var taskID, rfiID, submittalID sql.NullString
	var createdAt string

	if err := s.Scan(
		&a.ID, &a.ProjectID, &taskID, &rfiID, &submittalID, &a.FileName,
		&a.StoragePath, &a.PublicURL, &a.FileSize, &a.FileType, &a.UploadedBy, &createdAt,
	); err != nil {
		return nil, err
	}

	switch {
	case taskID.Valid:
		a.Target = domain.AttachmentTarget{Kind: domain.KindTask, ID: taskID.String}
	case rfiID.Valid:
		a.Target = domain.AttachmentTarget{Kind: domain.KindRFI, ID: rfiID.String}
	case submittalID.Valid:
		a.Target = domain.AttachmentTarget{Kind: domain.KindSubmittal, ID: submittalID.String}
	}

	var err error
	if a.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return nil, err
	}
	return &a, nil
}
