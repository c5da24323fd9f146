package service

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/modline/modtrack/internal/app"
	"github.com/modline/modtrack/internal/domain"
	"github.com/modline/modtrack/internal/metrics"
	"github.com/modline/modtrack/internal/repository"
	"github.com/modline/modtrack/internal/storage"
	"go.uber.org/zap"
)

type attachmentService struct {
	attachments repository.AttachmentRepo
	projects    repository.ProjectRepo
	workItems   repository.WorkItemRepo
	store       storage.ObjectStore
	log         *zap.Logger
}

func NewAttachmentService(
	attachments repository.AttachmentRepo,
	projects repository.ProjectRepo,
	workItems repository.WorkItemRepo,
	store storage.ObjectStore,
	log *zap.Logger,
) AttachmentService {
	if log == nil {
		log = zap.NewNop()
	}
	return &attachmentService{
		attachments: attachments,
		projects:    projects,
		workItems:   workItems,
		store:       store,
		log:         log,
	}
}

// Upload stores one file and records it. When the row cannot be written
// the stored object is removed again.
func (s *attachmentService) Upload(ctx context.Context, projectID string, target domain.AttachmentTarget, file app.FileUpload, uploadedBy string) (*domain.Attachment, error) {
	if err := s.checkTarget(ctx, projectID, target); err != nil {
		return nil, err
	}
	return s.put(ctx, projectID, target, file, uploadedBy)
}

// UploadMany uploads files one after another. A file that fails is logged,
// listed in the result and skipped; the call itself only fails when the
// project or target is invalid.
func (s *attachmentService) UploadMany(ctx context.Context, projectID string, target domain.AttachmentTarget, files []app.FileUpload, uploadedBy string) (*app.UploadResult, error) {
	if err := s.checkTarget(ctx, projectID, target); err != nil {
		return nil, err
	}

	result := &app.UploadResult{}
	for _, f := range files {
		a, err := s.put(ctx, projectID, target, f, uploadedBy)
		if err != nil {
			s.log.Warn("attachment upload failed",
				zap.String("project_id", projectID),
				zap.String("target", target.PathSegment()),
				zap.String("file", f.Name),
				zap.Error(err))
			metrics.IncrementAttachmentUpload(false, 0)
			result.Failed = append(result.Failed, app.FailedUpload{Name: f.Name, Reason: err.Error()})
			continue
		}
		metrics.IncrementAttachmentUpload(true, a.FileSize)
		result.Created = append(result.Created, a)
	}
	return result, nil
}

func (s *attachmentService) ListByProject(ctx context.Context, projectID string) ([]*domain.Attachment, error) {
	return s.attachments.ListByProject(ctx, projectID)
}

func (s *attachmentService) ListByTarget(ctx context.Context, projectID string, target domain.AttachmentTarget) ([]*domain.Attachment, error) {
	return s.attachments.ListByTarget(ctx, projectID, target)
}

// Delete removes the stored object and then the row. An object that cannot
// be removed is logged and the row is deleted anyway.
func (s *attachmentService) Delete(ctx context.Context, id string) error {
	a, err := s.attachments.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, a.StoragePath); err != nil {
		s.log.Warn("removing stored file",
			zap.String("attachment_id", a.ID),
			zap.String("key", a.StoragePath),
			zap.Error(err))
	}
	return s.attachments.Delete(ctx, id)
}

func (s *attachmentService) checkTarget(ctx context.Context, projectID string, target domain.AttachmentTarget) error {
	if err := target.Validate(); err != nil {
		return err
	}
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return err
	}
	if target.ProjectLevel() {
		return nil
	}
	item, err := s.workItems.GetByID(ctx, target.Kind, target.ID)
	if err != nil {
		return err
	}
	if item.ProjectID != projectID {
		return &domain.ValidationError{Field: "target", Message: item.DisplayNumber() + " belongs to another project"}
	}
	return nil
}

func (s *attachmentService) put(ctx context.Context, projectID string, target domain.AttachmentTarget, file app.FileUpload, uploadedBy string) (*domain.Attachment, error) {
	if strings.TrimSpace(file.Name) == "" {
		return nil, &domain.ValidationError{Field: "file", Message: "name is required"}
	}
	if file.Reader == nil {
		return nil, &domain.ValidationError{Field: "file", Message: file.Name + " has no content"}
	}

	contentType := detectContentType(file)
	key := storage.Key(projectID, target.PathSegment(), file.Name)
	counter := &countingReader{r: file.Reader}
	if err := s.store.Put(ctx, key, counter, file.Size, contentType); err != nil {
		return nil, fmt.Errorf("storing %s: %w", file.Name, err)
	}

	a := &domain.Attachment{
		ID:          uuid.New().String(),
		ProjectID:   projectID,
		Target:      target,
		FileName:    file.Name,
		StoragePath: key,
		PublicURL:   s.store.URL(key),
		FileSize:    counter.n,
		FileType:    contentType,
		UploadedBy:  uploadedBy,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.attachments.Create(ctx, a); err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			s.log.Warn("removing orphaned object", zap.String("key", key), zap.Error(delErr))
		}
		return nil, err
	}
	return a, nil
}

func detectContentType(file app.FileUpload) string {
	if ct := strings.TrimSpace(file.ContentType); ct != "" {
		return ct
	}
	if ct := mime.TypeByExtension(strings.ToLower(path.Ext(file.Name))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
