package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/modline/modtrack/internal/db"
	"github.com/modline/modtrack/internal/domain"
	"github.com/modline/modtrack/internal/repository"
	"go.uber.org/zap"
)

type moduleService struct {
	modules  repository.ModuleRepo
	projects repository.ProjectRepo
	observer UseCaseObserver
}

func NewModuleService(modules repository.ModuleRepo, projects repository.ProjectRepo, observers ...UseCaseObserver) ModuleService {
	return &moduleService{modules: modules, projects: projects, observer: useCaseObserverOrNoop(observers)}
}

func (s *moduleService) Create(ctx context.Context, m *domain.Module) (err error) {
	defer observe(ctx, s.observer, "module.create", time.Now(), &err, map[string]any{"project_id": m.ProjectID})

	m.Tag = strings.ToUpper(strings.TrimSpace(m.Tag))
	if m.Tag == "" {
		return &domain.ValidationError{Field: "tag", Message: "is required"}
	}
	status, err := domain.ParseModuleStatus(string(m.Status))
	if err != nil {
		return err
	}
	m.Status = status
	if _, err := s.projects.GetByID(ctx, m.ProjectID); err != nil {
		return err
	}
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now
	return s.modules.Create(ctx, m)
}

func (s *moduleService) GetByID(ctx context.Context, id string) (*domain.Module, error) {
	return s.modules.GetByID(ctx, id)
}

func (s *moduleService) ListByProject(ctx context.Context, projectID string) ([]*domain.Module, error) {
	return s.modules.ListByProject(ctx, projectID)
}

func (s *moduleService) UpdateStatus(ctx context.Context, id string, status domain.ModuleStatus) (_ *domain.Module, err error) {
	defer observe(ctx, s.observer, "module.status", time.Now(), &err, map[string]any{"module_id": id, "status": string(status)})

	parsed, err := domain.ParseModuleStatus(string(status))
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if err := s.modules.UpdateStatus(ctx, id, parsed, now); err != nil {
		return nil, err
	}
	return s.modules.GetByID(ctx, id)
}

// Progress counts the project's modules per status. Every status is
// present, zero when no module sits in it.
func (s *moduleService) Progress(ctx context.Context, projectID string) (map[domain.ModuleStatus]int, error) {
	counts, err := s.modules.CountByStatus(ctx, projectID)
	if err != nil {
		return nil, err
	}
	for _, st := range domain.ModuleStatuses {
		if _, ok := counts[st]; !ok {
			counts[st] = 0
		}
	}
	return counts, nil
}

type qcService struct {
	records  repository.QCRepo
	uow      db.UnitOfWork
	log      *zap.Logger
	observer UseCaseObserver
}

func NewQCService(records repository.QCRepo, uow db.UnitOfWork, log *zap.Logger, observers ...UseCaseObserver) QCService {
	if log == nil {
		log = zap.NewNop()
	}
	return &qcService{records: records, uow: uow, log: log, observer: useCaseObserverOrNoop(observers)}
}

// Record stores an inspection. A failed inspection puts the module on QC
// hold in the same transaction.
func (s *qcService) Record(ctx context.Context, r *domain.QCRecord) (err error) {
	defer observe(ctx, s.observer, "qc.record", time.Now(), &err, map[string]any{"module_id": r.ModuleID, "result": string(r.Result)})

	result, err := domain.ParseQCResult(string(r.Result))
	if err != nil {
		return err
	}
	r.Result = result
	r.Inspection = strings.TrimSpace(r.Inspection)
	if r.Inspection == "" {
		return &domain.ValidationError{Field: "inspection", Message: "is required"}
	}
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	r.CreatedAt = now
	if r.InspectedAt.IsZero() {
		r.InspectedAt = now
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txModules := repository.NewSQLiteModuleRepo(tx)
		txRecords := repository.NewSQLiteQCRepo(tx)

		mod, err := txModules.GetByID(ctx, r.ModuleID)
		if err != nil {
			return err
		}
		r.ProjectID = mod.ProjectID
		if err := txRecords.Create(ctx, r); err != nil {
			return err
		}
		if r.Result == domain.QCFail && mod.Status != domain.ModuleQCHold {
			s.log.Info("module placed on qc hold",
				zap.String("module_id", mod.ID),
				zap.String("tag", mod.Tag),
				zap.String("inspection", r.Inspection))
			return txModules.UpdateStatus(ctx, mod.ID, domain.ModuleQCHold, now)
		}
		return nil
	})
}

func (s *qcService) ListByModule(ctx context.Context, moduleID string) ([]*domain.QCRecord, error) {
	return s.records.ListByModule(ctx, moduleID)
}

func (s *qcService) ListByProject(ctx context.Context, projectID string) ([]*domain.QCRecord, error) {
	return s.records.ListByProject(ctx, projectID)
}
