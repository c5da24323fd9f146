package main

import (
	"fmt"
	"os"

	"github.com/modline/modtrack/internal/cli"
	"github.com/modline/modtrack/internal/config"
	"github.com/modline/modtrack/internal/db"
	"github.com/modline/modtrack/internal/logger"
	"github.com/modline/modtrack/internal/repository"
	"github.com/modline/modtrack/internal/service"
	"github.com/modline/modtrack/internal/storage"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// MODTRACK_CONFIG points at a YAML file; otherwise config.yaml in
	// ~/.config/modtrack is read when present.
	cfg, err := config.Load(os.Getenv("MODTRACK_CONFIG"))
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer func() { _ = log.Sync() }()
	log = log.With(zap.String("app", cfg.App.Name), zap.String("env", cfg.App.Env))

	database, err := db.OpenDB(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	store, err := storage.New(cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("opening file storage: %w", err)
	}

	// Wire repositories
	projectRepo := repository.NewSQLiteProjectRepo(database)
	workItemRepo := repository.NewSQLiteWorkItemRepo(database)
	attachmentRepo := repository.NewSQLiteAttachmentRepo(database)
	floorPlanRepo := repository.NewSQLiteFloorPlanRepo(database)
	moduleRepo := repository.NewSQLiteModuleRepo(database)
	qcRepo := repository.NewSQLiteQCRepo(database)

	uow := db.NewSQLiteUnitOfWork(database)
	observer := service.NewLogUseCaseObserver(log)

	// Wire services
	attachmentSvc := service.NewAttachmentService(attachmentRepo, projectRepo, workItemRepo, store, log)

	app := &cli.App{
		Projects:    service.NewProjectService(projectRepo, cfg.Factories, log, observer),
		WorkItems:   service.NewWorkItemService(workItemRepo, attachmentRepo, attachmentSvc, store, uow, log, observer),
		Attachments: attachmentSvc,
		FloorPlans:  service.NewFloorPlanService(floorPlanRepo, projectRepo, store, log, observer),
		Modules:     service.NewModuleService(moduleRepo, projectRepo, observer),
		QC:          service.NewQCService(qcRepo, uow, log, observer),
		Dashboard:   service.NewDashboardService(projectRepo, workItemRepo, moduleRepo, observer),

		Store:  store,
		Config: cfg,
		Logger: log,
	}

	app.IsInteractive = cli.TerminalCheck(os.Stdin, os.Stdout)

	return cli.NewRootCmd(app).Execute()
}
