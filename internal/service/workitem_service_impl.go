package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/modline/modtrack/internal/app"
	"github.com/modline/modtrack/internal/db"
	"github.com/modline/modtrack/internal/domain"
	"github.com/modline/modtrack/internal/insight"
	"github.com/modline/modtrack/internal/metrics"
	"github.com/modline/modtrack/internal/repository"
	"github.com/modline/modtrack/internal/storage"
	"go.uber.org/zap"
)

type workItemService struct {
	workItems   repository.WorkItemRepo
	attachments repository.AttachmentRepo
	files       AttachmentService
	store       storage.ObjectStore
	uow         db.UnitOfWork
	log         *zap.Logger
	observer    UseCaseObserver
}

func NewWorkItemService(
	workItems repository.WorkItemRepo,
	attachments repository.AttachmentRepo,
	files AttachmentService,
	store storage.ObjectStore,
	uow db.UnitOfWork,
	log *zap.Logger,
	observers ...UseCaseObserver,
) WorkItemService {
	if log == nil {
		log = zap.NewNop()
	}
	return &workItemService{
		workItems:   workItems,
		attachments: attachments,
		files:       files,
		store:       store,
		uow:         uow,
		log:         log,
		observer:    useCaseObserverOrNoop(observers),
	}
}

// Create validates w, allocates its per-project number and stores it in one
// transaction. An empty status becomes the kind's first column.
func (s *workItemService) Create(ctx context.Context, w *domain.WorkItem) (err error) {
	defer observe(ctx, s.observer, "item.create", time.Now(), &err, map[string]any{"kind": string(w.Kind), "project_id": w.ProjectID})

	if err := prepareNewItem(w); err != nil {
		return err
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		txSeq := repository.NewSQLiteItemSequenceRepo(tx)
		txItems := repository.NewSQLiteWorkItemRepo(tx)

		if _, err := txProjects.GetByID(ctx, w.ProjectID); err != nil {
			return err
		}
		n, err := txSeq.NextNumber(ctx, w.ProjectID, w.Kind)
		if err != nil {
			return err
		}
		w.Number = n
		return txItems.Create(ctx, w)
	})
}

// CreateWithAttachments stores the item first, then uploads the files one
// at a time. File failures are reported in the result and never undo the
// item.
func (s *workItemService) CreateWithAttachments(ctx context.Context, w *domain.WorkItem, files []app.FileUpload, uploadedBy string) (*app.CreateItemResult, error) {
	if len(files) > 0 && w.Kind == domain.KindMilestone {
		return nil, &domain.ValidationError{Field: "files", Message: "milestones do not take attachments"}
	}
	if err := s.Create(ctx, w); err != nil {
		return nil, err
	}
	result := &app.CreateItemResult{Item: w}
	if len(files) == 0 {
		return result, nil
	}

	uploads, err := s.files.UploadMany(ctx, w.ProjectID, domain.AttachmentTarget{Kind: w.Kind, ID: w.ID}, files, uploadedBy)
	if err != nil {
		// The item is already stored; report every file as failed.
		s.log.Warn("attachments skipped after item create",
			zap.String("item_id", w.ID), zap.Error(err))
		for _, f := range files {
			result.Uploads.Failed = append(result.Uploads.Failed, app.FailedUpload{Name: f.Name, Reason: err.Error()})
		}
		return result, nil
	}
	result.Uploads = *uploads
	return result, nil
}

func (s *workItemService) GetByID(ctx context.Context, kind domain.ItemKind, id string) (*domain.WorkItem, error) {
	return s.workItems.GetByID(ctx, kind, id)
}

func (s *workItemService) List(ctx context.Context, projectID string, kind domain.ItemKind, filter insight.ItemFilter, sort insight.SortKey) ([]*domain.WorkItem, error) {
	items, err := s.workItems.ListByProject(ctx, projectID, kind)
	if err != nil {
		return nil, err
	}
	if filter.Status != "" {
		status, err := domain.NormalizeStatus(kind, filter.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = status
	}
	items = insight.FilterItems(items, filter, time.Now())
	if sort != "" {
		insight.SortItems(items, sort)
	}
	return items, nil
}

func (s *workItemService) ListByAssignee(ctx context.Context, kind domain.ItemKind, assigneeID string) ([]*domain.WorkItem, error) {
	return s.workItems.ListByAssignee(ctx, kind, assigneeID)
}

// Update rewrites the item's editable fields. Status changes go through the
// same completion bookkeeping as UpdateStatus.
func (s *workItemService) Update(ctx context.Context, w *domain.WorkItem) (err error) {
	defer observe(ctx, s.observer, "item.update", time.Now(), &err, map[string]any{"kind": string(w.Kind), "item_id": w.ID})

	status, err := domain.NormalizeStatus(w.Kind, w.Status)
	if err != nil {
		return err
	}
	w.Status = status
	if w.Priority, err = domain.ParsePriority(string(w.Priority)); err != nil {
		return err
	}
	w.Title = strings.TrimSpace(w.Title)
	if err := w.Validate(); err != nil {
		return err
	}

	current, err := s.workItems.GetByID(ctx, w.Kind, w.ID)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	w.CompletedAt = current.CompletedAt
	w.SetStatus(status, now)
	if current.Status != status {
		metrics.IncrementStatusTransition(string(w.Kind), string(status))
	}
	return s.workItems.Update(ctx, w)
}

// UpdateStatus moves an item to status and returns the stored item.
func (s *workItemService) UpdateStatus(ctx context.Context, kind domain.ItemKind, id string, status domain.WorkItemStatus) (w *domain.WorkItem, err error) {
	defer observe(ctx, s.observer, "item.status", time.Now(), &err, map[string]any{"kind": string(kind), "item_id": id, "status": string(status)})

	normalized, err := domain.NormalizeStatus(kind, status)
	if err != nil {
		return nil, err
	}
	w, err = s.workItems.GetByID(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if w.Status == normalized {
		return w, nil
	}
	w.SetStatus(normalized, time.Now().UTC())
	if err := s.workItems.UpdateStatus(ctx, w); err != nil {
		return nil, err
	}
	metrics.IncrementStatusTransition(string(kind), string(normalized))
	return w, nil
}

// Delete hard-deletes the item. Stored files are removed first; the rows
// cascade with the item.
func (s *workItemService) Delete(ctx context.Context, kind domain.ItemKind, id string) (err error) {
	defer observe(ctx, s.observer, "item.delete", time.Now(), &err, map[string]any{"kind": string(kind), "item_id": id})

	w, err := s.workItems.GetByID(ctx, kind, id)
	if err != nil {
		return err
	}
	if kind != domain.KindMilestone {
		attached, err := s.attachments.ListByTarget(ctx, w.ProjectID, domain.AttachmentTarget{Kind: kind, ID: id})
		if err != nil {
			return fmt.Errorf("listing attachments of %s: %w", w.DisplayNumber(), err)
		}
		for _, a := range attached {
			if err := s.store.Delete(ctx, a.StoragePath); err != nil {
				s.log.Warn("removing stored file",
					zap.String("attachment_id", a.ID),
					zap.String("key", a.StoragePath),
					zap.Error(err))
			}
		}
	}
	return s.workItems.Delete(ctx, kind, id)
}

func prepareNewItem(w *domain.WorkItem) error {
	kind, err := domain.ParseItemKind(string(w.Kind))
	if err != nil {
		return err
	}
	w.Kind = kind
	w.Title = strings.TrimSpace(w.Title)
	if w.Status == "" {
		w.Status = domain.DefaultStatus(kind)
	}
	status, err := domain.NormalizeStatus(kind, w.Status)
	if err != nil {
		return err
	}
	w.Status = status
	if w.Priority == "" {
		w.Priority = domain.PriorityMedium
	}
	priority, err := domain.ParsePriority(string(w.Priority))
	if err != nil {
		return err
	}
	w.Priority = priority
	if err := w.Validate(); err != nil {
		return err
	}

	if w.ID == "" {
		w.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	w.CreatedAt = now
	w.UpdatedAt = now
	w.CompletedAt = nil
	if w.IsTerminal() {
		w.CompletedAt = &now
	}
	return nil
}
