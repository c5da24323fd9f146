package repository

import (
	"context"
	"time"

	"github.com/modline/modtrack/internal/domain"
)

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	GetByNumber(ctx context.Context, number string) (*domain.Project, error)
	// List returns every project, or only those in status when it is set.
	List(ctx context.Context, status domain.ProjectStatus) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	SetStatus(ctx context.Context, id string, status domain.ProjectStatus, now time.Time) error
}

type ItemSequenceRepo interface {
	NextNumber(ctx context.Context, projectID string, kind domain.ItemKind) (int, error)
}

type WorkItemRepo interface {
	Create(ctx context.Context, w *domain.WorkItem) error
	GetByID(ctx context.Context, kind domain.ItemKind, id string) (*domain.WorkItem, error)
	ListByProject(ctx context.Context, projectID string, kind domain.ItemKind) ([]*domain.WorkItem, error)
	ListByAssignee(ctx context.Context, kind domain.ItemKind, assigneeID string) ([]*domain.WorkItem, error)
	Update(ctx context.Context, w *domain.WorkItem) error
	UpdateStatus(ctx context.Context, w *domain.WorkItem) error
	Delete(ctx context.Context, kind domain.ItemKind, id string) error
}

type AttachmentRepo interface {
	Create(ctx context.Context, a *domain.Attachment) error
	GetByID(ctx context.Context, id string) (*domain.Attachment, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Attachment, error)
	ListByTarget(ctx context.Context, projectID string, target domain.AttachmentTarget) ([]*domain.Attachment, error)
	Delete(ctx context.Context, id string) error
}

type FloorPlanRepo interface {
	Create(ctx context.Context, f *domain.FloorPlan) error
	GetByID(ctx context.Context, id string) (*domain.FloorPlan, error)
	ListActive(ctx context.Context, projectID string) ([]*domain.FloorPlan, error)
	Deactivate(ctx context.Context, id string, now time.Time) error
	CreateMarker(ctx context.Context, m *domain.Marker) error
	ListMarkers(ctx context.Context, floorPlanID string) ([]*domain.Marker, error)
	DeleteMarker(ctx context.Context, id string) error
}

type ModuleRepo interface {
	Create(ctx context.Context, m *domain.Module) error
	GetByID(ctx context.Context, id string) (*domain.Module, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Module, error)
	UpdateStatus(ctx context.Context, id string, status domain.ModuleStatus, now time.Time) error
	CountByStatus(ctx context.Context, projectID string) (map[domain.ModuleStatus]int, error)
}

type QCRepo interface {
	Create(ctx context.Context, r *domain.QCRecord) error
	ListByModule(ctx context.Context, moduleID string) ([]*domain.QCRecord, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.QCRecord, error)
}
