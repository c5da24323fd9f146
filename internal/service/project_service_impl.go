package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/modline/modtrack/internal/domain"
	"github.com/modline/modtrack/internal/repository"
	"go.uber.org/zap"
)

type projectService struct {
	projects  repository.ProjectRepo
	factories []string
	log       *zap.Logger
	observer  UseCaseObserver
}

// NewProjectService builds the project service. factories is the configured
// list of factory names; when empty any factory is accepted.
func NewProjectService(projects repository.ProjectRepo, factories []string, log *zap.Logger, observers ...UseCaseObserver) ProjectService {
	if log == nil {
		log = zap.NewNop()
	}
	return &projectService{
		projects:  projects,
		factories: factories,
		log:       log,
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *projectService) Create(ctx context.Context, p *domain.Project) (err error) {
	defer observe(ctx, s.observer, "project.create", time.Now(), &err, map[string]any{"number": p.Number})

	if err := s.normalize(p); err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	if existing, err := s.projects.GetByNumber(ctx, p.Number); err == nil {
		return &domain.ValidationError{Field: "number", Message: existing.Number + " is already used by " + existing.Name}
	} else if !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return s.projects.Create(ctx, p)
}

func (s *projectService) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	return s.projects.GetByID(ctx, id)
}

func (s *projectService) GetByNumber(ctx context.Context, number string) (*domain.Project, error) {
	return s.projects.GetByNumber(ctx, number)
}

func (s *projectService) Resolve(ctx context.Context, ref string) (*domain.Project, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, &domain.ValidationError{Field: "project", Message: "is required"}
	}
	if _, err := uuid.Parse(ref); err == nil {
		return s.projects.GetByID(ctx, ref)
	}
	return s.projects.GetByNumber(ctx, ref)
}

func (s *projectService) List(ctx context.Context, status domain.ProjectStatus) ([]*domain.Project, error) {
	return s.projects.List(ctx, status)
}

func (s *projectService) Update(ctx context.Context, p *domain.Project) (err error) {
	defer observe(ctx, s.observer, "project.update", time.Now(), &err, map[string]any{"project_id": p.ID})

	if err := s.normalize(p); err != nil {
		return err
	}
	if existing, err := s.projects.GetByNumber(ctx, p.Number); err == nil && existing.ID != p.ID {
		return &domain.ValidationError{Field: "number", Message: existing.Number + " is already used by " + existing.Name}
	}
	p.UpdatedAt = time.Now().UTC()
	return s.projects.Update(ctx, p)
}

// Cancel is the client-facing delete. Projects are never removed.
func (s *projectService) Cancel(ctx context.Context, id string) (err error) {
	defer observe(ctx, s.observer, "project.cancel", time.Now(), &err, map[string]any{"project_id": id})
	return s.projects.SetStatus(ctx, id, domain.ProjectCancelled, time.Now().UTC())
}

func (s *projectService) normalize(p *domain.Project) error {
	p.Name = strings.TrimSpace(p.Name)
	p.Number = strings.ToUpper(strings.TrimSpace(p.Number))
	if p.Name == "" {
		return &domain.ValidationError{Field: "name", Message: "is required"}
	}
	if err := p.ValidateNumber(); err != nil {
		return err
	}
	status, err := domain.ParseProjectStatus(string(p.Status))
	if err != nil {
		return err
	}
	p.Status = status
	if p.ModuleCount < 0 {
		return &domain.ValidationError{Field: "module_count", Message: "must not be negative"}
	}
	if p.ContractValue.IsNegative() {
		return &domain.ValidationError{Field: "contract_value", Message: "must not be negative"}
	}
	if err := p.ValidateFactory(s.factories); err != nil {
		return err
	}
	return p.ValidateSchedule()
}
