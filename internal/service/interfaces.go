package service

import (
	"context"

	"github.com/modline/modtrack/internal/app"
	"github.com/modline/modtrack/internal/domain"
	"github.com/modline/modtrack/internal/insight"
)

type ProjectService interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	GetByNumber(ctx context.Context, number string) (*domain.Project, error)
	// Resolve accepts either a project id or its job number.
	Resolve(ctx context.Context, ref string) (*domain.Project, error)
	List(ctx context.Context, status domain.ProjectStatus) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Cancel(ctx context.Context, id string) error
}

type WorkItemService interface {
	Create(ctx context.Context, w *domain.WorkItem) error
	CreateWithAttachments(ctx context.Context, w *domain.WorkItem, files []app.FileUpload, uploadedBy string) (*app.CreateItemResult, error)
	GetByID(ctx context.Context, kind domain.ItemKind, id string) (*domain.WorkItem, error)
	List(ctx context.Context, projectID string, kind domain.ItemKind, filter insight.ItemFilter, sort insight.SortKey) ([]*domain.WorkItem, error)
	ListByAssignee(ctx context.Context, kind domain.ItemKind, assigneeID string) ([]*domain.WorkItem, error)
	Update(ctx context.Context, w *domain.WorkItem) error
	UpdateStatus(ctx context.Context, kind domain.ItemKind, id string, status domain.WorkItemStatus) (*domain.WorkItem, error)
	Delete(ctx context.Context, kind domain.ItemKind, id string) error
}

type AttachmentService interface {
	Upload(ctx context.Context, projectID string, target domain.AttachmentTarget, file app.FileUpload, uploadedBy string) (*domain.Attachment, error)
	UploadMany(ctx context.Context, projectID string, target domain.AttachmentTarget, files []app.FileUpload, uploadedBy string) (*app.UploadResult, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Attachment, error)
	ListByTarget(ctx context.Context, projectID string, target domain.AttachmentTarget) ([]*domain.Attachment, error)
	Delete(ctx context.Context, id string) error
}

type FloorPlanService interface {
	Upload(ctx context.Context, projectID, name, level string, file app.FileUpload) (*domain.FloorPlan, error)
	List(ctx context.Context, projectID string) ([]*domain.FloorPlan, error)
	Deactivate(ctx context.Context, id string) error
	AddMarker(ctx context.Context, m *domain.Marker) error
	ListMarkers(ctx context.Context, floorPlanID string) ([]*domain.Marker, error)
	RemoveMarker(ctx context.Context, id string) error
}

type ModuleService interface {
	Create(ctx context.Context, m *domain.Module) error
	GetByID(ctx context.Context, id string) (*domain.Module, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Module, error)
	UpdateStatus(ctx context.Context, id string, status domain.ModuleStatus) (*domain.Module, error)
	Progress(ctx context.Context, projectID string) (map[domain.ModuleStatus]int, error)
}

type QCService interface {
	Record(ctx context.Context, r *domain.QCRecord) error
	ListByModule(ctx context.Context, moduleID string) ([]*domain.QCRecord, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.QCRecord, error)
}

type DashboardService interface {
	app.DashboardUseCase
	app.PortfolioUseCase
	app.CalendarUseCase
	app.MyWorkUseCase
}
