package service

import (
	"context"
	"strings"
	"testing"

	"github.com/modline/modtrack/internal/app"
	"github.com/modline/modtrack/internal/db"
	"github.com/modline/modtrack/internal/domain"
	"github.com/modline/modtrack/internal/repository"
	"github.com/modline/modtrack/internal/storage"
	"github.com/modline/modtrack/internal/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type testEnv struct {
	projects    *repository.SQLiteProjectRepo
	workItems   *repository.SQLiteWorkItemRepo
	attachments *repository.SQLiteAttachmentRepo
	plans       *repository.SQLiteFloorPlanRepo
	modules     *repository.SQLiteModuleRepo
	qc          *repository.SQLiteQCRepo
	uow         db.UnitOfWork

	store *testutil.MemoryStore
	logs  *observer.ObservedLogs
	log   *zap.Logger
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	core, logs := observer.New(zap.DebugLevel)
	return &testEnv{
		projects:    repository.NewSQLiteProjectRepo(database),
		workItems:   repository.NewSQLiteWorkItemRepo(database),
		attachments: repository.NewSQLiteAttachmentRepo(database),
		plans:       repository.NewSQLiteFloorPlanRepo(database),
		modules:     repository.NewSQLiteModuleRepo(database),
		qc:          repository.NewSQLiteQCRepo(database),
		uow:         testutil.NewTestUoW(database),
		store:       testutil.NewMemoryStore(),
		logs:        logs,
		log:         zap.New(core),
	}
}

func (e *testEnv) attachmentService(store storage.ObjectStore) AttachmentService {
	return NewAttachmentService(e.attachments, e.projects, e.workItems, store, e.log)
}

func (e *testEnv) workItemService(store storage.ObjectStore) WorkItemService {
	return NewWorkItemService(e.workItems, e.attachments, e.attachmentService(store), store, e.uow, e.log)
}

func (e *testEnv) project(t *testing.T, opts ...testutil.ProjectOption) *domain.Project {
	t.Helper()
	p := testutil.NewTestProject("Harbor Flats", opts...)
	require.NoError(t, e.projects.Create(context.Background(), p))
	return p
}

type recordingObserver struct {
	events []UseCaseEvent
}

func (r *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	r.events = append(r.events, e)
}

func (r *recordingObserver) names() []string {
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Name)
	}
	return out
}

func textFile(name, body string) app.FileUpload {
	return app.FileUpload{
		Name:   name,
		Size:   int64(len(body)),
		Reader: strings.NewReader(body),
	}
}
