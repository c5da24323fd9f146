package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/modline/modtrack/internal/db"
	"github.com/modline/modtrack/internal/domain"
)

// baseItemColumns are present on every work-item table, in scan order.
var baseItemColumns = []string{
	"id", "project_id", "number", "title", "description", "status", "priority",
	"due_date", "assignee_id", "created_at", "updated_at", "completed_at",
}

var recipientItemColumns = []string{"recipient_kind", "recipient_email", "recipient_name", "recipient_owner_id"}

var extraItemColumns = map[domain.ItemKind][]string{
	domain.KindRFI:       append([]string{"question", "answer"}, recipientItemColumns...),
	domain.KindSubmittal: append([]string{"spec_section", "revision"}, recipientItemColumns...),
}

func itemTable(kind domain.ItemKind) (string, error) {
	t, ok := db.ItemTables[string(kind)]
	if !ok {
		return "", &domain.ValidationError{Field: "kind", Message: fmt.Sprintf("unknown item kind %q", kind)}
	}
	return t, nil
}

func itemColumns(kind domain.ItemKind) []string {
	cols := append([]string(nil), baseItemColumns...)
	return append(cols, extraItemColumns[kind]...)
}

// SQLiteWorkItemRepo stores tasks, RFIs, submittals and milestones, one
// table per kind.
type SQLiteWorkItemRepo struct {
	db db.DBTX
}

func NewSQLiteWorkItemRepo(conn db.DBTX) *SQLiteWorkItemRepo {
	return &SQLiteWorkItemRepo{db: conn}
}

func (r *SQLiteWorkItemRepo) Create(ctx context.Context, w *domain.WorkItem) error {
	table, err := itemTable(w.Kind)
	if err != nil {
		return err
	}
	cols := itemColumns(w.Kind)
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	query := `INSERT INTO ` + table + ` (` + strings.Join(cols, ", ") + `) VALUES (` + placeholders + `)`

	if _, err := r.db.ExecContext(ctx, query, itemValues(w)...); err != nil {
		return fmt.Errorf("inserting %s: %w", w.Kind, err)
	}
	return nil
}

func (r *SQLiteWorkItemRepo) GetByID(ctx context.Context, kind domain.ItemKind, id string) (*domain.WorkItem, error) {
	table, err := itemTable(kind)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + strings.Join(itemColumns(kind), ", ") + ` FROM ` + table + ` WHERE id = ?`
	w, err := scanWorkItem(r.db.QueryRowContext(ctx, query, id), kind)
	if err != nil {
		return nil, notFound(err, kind.Label(), id)
	}
	return w, nil
}

func (r *SQLiteWorkItemRepo) ListByProject(ctx context.Context, projectID string, kind domain.ItemKind) ([]*domain.WorkItem, error) {
	return r.list(ctx, kind, `project_id = ?`, projectID)
}

func (r *SQLiteWorkItemRepo) ListByAssignee(ctx context.Context, kind domain.ItemKind, assigneeID string) ([]*domain.WorkItem, error) {
	return r.list(ctx, kind, `assignee_id = ?`, assigneeID)
}

func (r *SQLiteWorkItemRepo) list(ctx context.Context, kind domain.ItemKind, where string, arg any) ([]*domain.WorkItem, error) {
	table, err := itemTable(kind)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + strings.Join(itemColumns(kind), ", ") + ` FROM ` + table +
		` WHERE ` + where + ` ORDER BY number`
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("listing %s items: %w", kind, err)
	}
	defer rows.Close()

	var items []*domain.WorkItem
	for rows.Next() {
		w, err := scanWorkItem(rows, kind)
		if err != nil {
			return nil, fmt.Errorf("scanning %s row: %w", kind, err)
		}
		items = append(items, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s items: %w", kind, err)
	}
	return items, nil
}

// Update rewrites every mutable column. Number and project never change.
func (r *SQLiteWorkItemRepo) Update(ctx context.Context, w *domain.WorkItem) error {
	table, err := itemTable(w.Kind)
	if err != nil {
		return err
	}
	cols := itemColumns(w.Kind)
	vals := itemValues(w)

	var sets []string
	var args []any
	for i, c := range cols {
		switch c {
		case "id", "project_id", "number", "created_at":
			continue
		}
		sets = append(sets, c+" = ?")
		args = append(args, vals[i])
	}
	args = append(args, w.ID)

	res, err := r.db.ExecContext(ctx, `UPDATE `+table+` SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("updating %s: %w", w.Kind, err)
	}
	return requireAffected(res, w.Kind.Label(), w.ID)
}

// UpdateStatus writes only the status columns.
func (r *SQLiteWorkItemRepo) UpdateStatus(ctx context.Context, w *domain.WorkItem) error {
	table, err := itemTable(w.Kind)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE `+table+` SET status = ?, completed_at = ?, updated_at = ? WHERE id = ?`,
		string(w.Status),
		nullableTimeToString(w.CompletedAt, time.RFC3339),
		formatTime(w.UpdatedAt),
		w.ID,
	)
	if err != nil {
		return fmt.Errorf("updating %s status: %w", w.Kind, err)
	}
	return requireAffected(res, w.Kind.Label(), w.ID)
}

func (r *SQLiteWorkItemRepo) Delete(ctx context.Context, kind domain.ItemKind, id string) error {
	table, err := itemTable(kind)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting %s: %w", kind, err)
	}
	return requireAffected(res, kind.Label(), id)
}

// itemValues returns column values in itemColumns(w.Kind) order.
func itemValues(w *domain.WorkItem) []any {
	vals := []any{
		w.ID,
		w.ProjectID,
		w.Number,
		w.Title,
		w.Description,
		string(w.Status),
		string(w.Priority),
		nullableTimeToString(w.DueDate, dateLayout),
		w.AssigneeID,
		formatTime(w.CreatedAt),
		formatTime(w.UpdatedAt),
		nullableTimeToString(w.CompletedAt, time.RFC3339),
	}
	rf := domain.Flatten(w.Recipient)
	recipient := []any{rf.Kind, rf.Email, rf.Name, rf.OwnerID}
	switch w.Kind {
	case domain.KindRFI:
		vals = append(vals, w.Question, w.Answer)
		vals = append(vals, recipient...)
	case domain.KindSubmittal:
		vals = append(vals, w.SpecSection, w.Revision)
		vals = append(vals, recipient...)
	}
	return vals
}

func scanWorkItem(s rowScanner, kind domain.ItemKind) (*domain.WorkItem, error) {
	w := domain.WorkItem{Kind: kind}
	var status, priority, createdAt, updatedAt string
	var due, completed sql.NullString
	var rf domain.RecipientFields

	dest := []any{
		&w.ID, &w.ProjectID, &w.Number, &w.Title, &w.Description, &status, &priority,
		&due, &w.AssigneeID, &createdAt, &updatedAt, &completed,
	}
	recipient := []any{&rf.Kind, &rf.Email, &rf.Name, &rf.OwnerID}
	switch kind {
	case domain.KindRFI:
		dest = append(dest, &w.Question, &w.Answer)
		dest = append(dest, recipient...)
	case domain.KindSubmittal:
		dest = append(dest, &w.SpecSection, &w.Revision)
		dest = append(dest, recipient...)
	}
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}

	w.Status = domain.WorkItemStatus(status)
	w.Priority = domain.Priority(priority)
	w.DueDate = parseNullableTime(due, dateLayout)
	w.CompletedAt = parseNullableTime(completed, time.RFC3339)
	w.Recipient = rf.Unflatten()

	var err error
	if w.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return nil, err
	}
	if w.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return nil, err
	}
	return &w, nil
}
