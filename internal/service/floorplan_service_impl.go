package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/modline/modtrack/internal/app"
	"github.com/modline/modtrack/internal/domain"
	"github.com/modline/modtrack/internal/repository"
	"github.com/modline/modtrack/internal/storage"
	"go.uber.org/zap"
)

type floorPlanService struct {
	plans    repository.FloorPlanRepo
	projects repository.ProjectRepo
	store    storage.ObjectStore
	log      *zap.Logger
	observer UseCaseObserver
}

func NewFloorPlanService(plans repository.FloorPlanRepo, projects repository.ProjectRepo, store storage.ObjectStore, log *zap.Logger, observers ...UseCaseObserver) FloorPlanService {
	if log == nil {
		log = zap.NewNop()
	}
	return &floorPlanService{
		plans:    plans,
		projects: projects,
		store:    store,
		log:      log,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *floorPlanService) Upload(ctx context.Context, projectID, name, level string, file app.FileUpload) (_ *domain.FloorPlan, err error) {
	defer observe(ctx, s.observer, "floor_plan.upload", time.Now(), &err, map[string]any{"project_id": projectID})

	name = strings.TrimSpace(name)
	if name == "" {
		name = strings.TrimSpace(file.Name)
	}
	if name == "" {
		return nil, &domain.ValidationError{Field: "name", Message: "is required"}
	}
	if file.Reader == nil {
		return nil, &domain.ValidationError{Field: "file", Message: "is required"}
	}
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return nil, err
	}

	contentType := detectContentType(file)
	key := storage.Key(projectID, "floor-plans", file.Name)
	if err := s.store.Put(ctx, key, file.Reader, file.Size, contentType); err != nil {
		return nil, fmt.Errorf("storing floor plan %s: %w", file.Name, err)
	}

	now := time.Now().UTC()
	plan := &domain.FloorPlan{
		ID:          uuid.New().String(),
		ProjectID:   projectID,
		Name:        name,
		Level:       strings.TrimSpace(level),
		StoragePath: key,
		PublicURL:   s.store.URL(key),
		FileType:    contentType,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.plans.Create(ctx, plan); err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			s.log.Warn("removing orphaned object", zap.String("key", key), zap.Error(delErr))
		}
		return nil, err
	}
	return plan, nil
}

func (s *floorPlanService) List(ctx context.Context, projectID string) ([]*domain.FloorPlan, error) {
	return s.plans.ListActive(ctx, projectID)
}

// Deactivate hides the plan. Its object and markers are kept.
func (s *floorPlanService) Deactivate(ctx context.Context, id string) (err error) {
	defer observe(ctx, s.observer, "floor_plan.deactivate", time.Now(), &err, map[string]any{"floor_plan_id": id})
	return s.plans.Deactivate(ctx, id, time.Now().UTC())
}

func (s *floorPlanService) AddMarker(ctx context.Context, m *domain.Marker) (err error) {
	defer observe(ctx, s.observer, "floor_plan.add_marker", time.Now(), &err, map[string]any{"floor_plan_id": m.FloorPlanID})

	if err := m.Validate(); err != nil {
		return err
	}
	plan, err := s.plans.GetByID(ctx, m.FloorPlanID)
	if err != nil {
		return err
	}
	if !plan.IsActive {
		return &domain.ValidationError{Field: "floor_plan_id", Message: "floor plan " + plan.Name + " is inactive"}
	}
	if m.ItemKind != "" {
		kind, err := domain.ParseItemKind(string(m.ItemKind))
		if err != nil {
			return err
		}
		m.ItemKind = kind
	}
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	m.Label = strings.TrimSpace(m.Label)
	m.CreatedAt = time.Now().UTC()
	return s.plans.CreateMarker(ctx, m)
}

func (s *floorPlanService) ListMarkers(ctx context.Context, floorPlanID string) ([]*domain.Marker, error) {
	if _, err := s.plans.GetByID(ctx, floorPlanID); err != nil {
		return nil, err
	}
	return s.plans.ListMarkers(ctx, floorPlanID)
}

func (s *floorPlanService) RemoveMarker(ctx context.Context, id string) (err error) {
	defer observe(ctx, s.observer, "floor_plan.remove_marker", time.Now(), &err, map[string]any{"marker_id": id})
	return s.plans.DeleteMarker(ctx, id)
}
