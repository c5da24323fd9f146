package httpapi

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/modline/modtrack/internal/repository"
	"github.com/modline/modtrack/internal/service"
	"github.com/modline/modtrack/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var apiNow = time.Date(2026, 1, 14, 15, 30, 0, 0, time.UTC)

type testServer struct {
	router *gin.Engine
	store  *testutil.MemoryStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)
	store := testutil.NewMemoryStore()
	log := zap.NewNop()

	projects := repository.NewSQLiteProjectRepo(database)
	items := repository.NewSQLiteWorkItemRepo(database)
	attachments := repository.NewSQLiteAttachmentRepo(database)
	modules := repository.NewSQLiteModuleRepo(database)

	files := service.NewAttachmentService(attachments, projects, items, store, log)
	svc := Services{
		Projects:    service.NewProjectService(projects, nil, log),
		WorkItems:   service.NewWorkItemService(items, attachments, files, store, uow, log),
		Attachments: files,
		FloorPlans:  service.NewFloorPlanService(repository.NewSQLiteFloorPlanRepo(database), projects, store, log),
		Modules:     service.NewModuleService(modules, projects),
		QC:          service.NewQCService(repository.NewSQLiteQCRepo(database), uow, log),
		Dashboard:   service.NewDashboardService(projects, items, modules),
	}
	r := NewRouter(svc, Options{Logger: log, MaxUploadSize: 1 << 20, Now: func() time.Time { return apiNow }})
	return &testServer{router: r, store: store}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (s *testServer) createProject(t *testing.T, number, name string) projectDTO {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/projects", gin.H{"number": number, "name": name, "status": "Active"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[projectDTO](t, w)
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProjects_CreateGetUpdateCancel(t *testing.T) {
	s := newTestServer(t)
	p := s.createProject(t, "mb-2041", "Harbor Flats")
	assert.Equal(t, "MB-2041", p.Number)
	assert.Equal(t, "Active", p.Status)

	w := s.do(t, http.MethodGet, "/api/projects/MB-2041", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, p.ID, decode[projectDTO](t, w).ID)

	w = s.do(t, http.MethodPatch, "/api/projects/"+p.ID, gin.H{"client": "Bayside Living", "delivery_date": "2026-03-01"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[projectDTO](t, w)
	assert.Equal(t, "Bayside Living", updated.Client)
	require.NotNil(t, updated.DeliveryDate)
	assert.Equal(t, "2026-03-01", *updated.DeliveryDate)

	w = s.do(t, http.MethodDelete, "/api/projects/"+p.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(t, http.MethodGet, "/api/projects?status=cancelled", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]projectDTO](t, w), 1)
}

func TestProjects_ValidationAndNotFound(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/projects", gin.H{"number": "MB-2041"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "name", decode[errorResponse](t, w).Field)

	w = s.do(t, http.MethodPost, "/api/projects", gin.H{"number": "nope", "name": "X"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "number", decode[errorResponse](t, w).Field)

	w = s.do(t, http.MethodGet, "/api/projects/ZZ-9999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NotEmpty(t, decode[errorResponse](t, w).Error)
}

func TestItems_CreateListMove(t *testing.T) {
	s := newTestServer(t)
	p := s.createProject(t, "MB-2041", "Harbor Flats")

	w := s.do(t, http.MethodPost, "/api/projects/"+p.ID+"/items/tasks", gin.H{"title": "Set roof trusses", "due_date": "2026-01-20", "priority": "high"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[createItemResponse](t, w)
	assert.Equal(t, "T-1", created.Item.DisplayNumber)
	assert.Equal(t, "Not Started", created.Item.Status)
	assert.Equal(t, "High", created.Item.Priority)

	w = s.do(t, http.MethodPost, "/api/items/task/"+created.Item.ID+"/move", gin.H{"status": "completed"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	moved := decode[itemDTO](t, w)
	assert.Equal(t, "Completed", moved.Status)
	assert.NotNil(t, moved.CompletedAt)

	w = s.do(t, http.MethodPost, "/api/items/task/"+created.Item.ID+"/move", gin.H{"status": "Approved"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/projects/MB-2041/items/task?open=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]itemDTO](t, w))

	w = s.do(t, http.MethodGet, "/api/projects/MB-2041/items/task?sort=sideways", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/items/widget/"+created.Item.ID, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestItems_RFIRecipient(t *testing.T) {
	s := newTestServer(t)
	p := s.createProject(t, "MB-2041", "Harbor Flats")

	w := s.do(t, http.MethodPost, "/api/projects/"+p.ID+"/items/rfi", gin.H{
		"title":           "Window header detail",
		"recipient_email": "not-an-email",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/projects/"+p.ID+"/items/rfi", gin.H{
		"title":           "Window header detail",
		"recipient_email": "architect@example.com",
		"recipient_name":  "Dana",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	item := decode[createItemResponse](t, w).Item
	assert.Equal(t, "RFI-001", item.DisplayNumber)
	assert.Equal(t, "external", item.RecipientKind)
	assert.Equal(t, "architect@example.com", item.RecipientEmail)

	w = s.do(t, http.MethodPatch, "/api/items/rfi/"+item.ID, gin.H{"answer": "Use detail 4/A501", "status": "Answered"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	patched := decode[itemDTO](t, w)
	assert.Equal(t, "Answered", patched.Status)
	assert.Equal(t, "external", patched.RecipientKind)
}

func TestItems_MultipartCreateAttachesFiles(t *testing.T) {
	s := newTestServer(t)
	p := s.createProject(t, "MB-2041", "Harbor Flats")

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("title", "Crane pad inspection"))
	for _, name := range []string{"pad.jpg", "report.pdf"} {
		part, err := mw.CreateFormFile("files[]", name)
		require.NoError(t, err)
		_, err = part.Write([]byte("content of " + name))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/projects/"+p.ID+"/items/task", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := decode[createItemResponse](t, w)
	assert.Equal(t, "Crane pad inspection", resp.Item.Title)
	assert.Len(t, resp.Uploads.Created, 2)
	assert.Empty(t, resp.Uploads.Failed)
	assert.Len(t, s.store.Keys(), 2)

	w = s.do(t, http.MethodGet, "/api/projects/"+p.ID+"/attachments?kind=task&item="+resp.Item.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]attachmentDTO](t, w), 2)

	w = s.do(t, http.MethodDelete, "/api/items/task/"+resp.Item.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, s.store.Keys())
}

func TestModules_QCFailPlacesHold(t *testing.T) {
	s := newTestServer(t)
	p := s.createProject(t, "MB-2041", "Harbor Flats")

	w := s.do(t, http.MethodPost, "/api/projects/"+p.ID+"/modules", gin.H{"tag": "m-01", "status": "In Production"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	mod := decode[moduleDTO](t, w)
	assert.Equal(t, "M-01", mod.Tag)

	w = s.do(t, http.MethodPost, "/api/modules/"+mod.ID+"/qc", gin.H{"inspection": "Framing", "result": "Fail"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/projects/"+p.ID+"/modules", nil)
	require.Equal(t, http.StatusOK, w.Code)
	mods := decode[[]moduleDTO](t, w)
	require.Len(t, mods, 1)
	assert.Equal(t, "QC Hold", mods[0].Status)

	w = s.do(t, http.MethodPost, "/api/modules/"+mod.ID+"/qc", gin.H{"inspection": "Framing", "result": "Maybe"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/modules/"+mod.ID+"/qc", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]qcDTO](t, w), 1)
}

func TestFloorPlans_MarkerBounds(t *testing.T) {
	s := newTestServer(t)
	p := s.createProject(t, "MB-2041", "Harbor Flats")

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("level", "L1"))
	part, err := mw.CreateFormFile("file", "level1.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("png"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/projects/"+p.ID+"/floor-plans", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	plan := decode[floorPlanDTO](t, w)
	assert.Equal(t, "level1.png", plan.Name)

	w = s.do(t, http.MethodPost, "/api/floor-plans/"+plan.ID+"/markers", gin.H{"x": 1.5, "y": 0.2})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "x", decode[errorResponse](t, w).Field)

	w = s.do(t, http.MethodPost, "/api/floor-plans/"+plan.ID+"/markers", gin.H{"x": 0, "y": 0.2, "label": "Crack"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/floor-plans/"+plan.ID+"/markers", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]markerDTO](t, w), 1)
}

func TestDashboardRoutes(t *testing.T) {
	s := newTestServer(t)
	p := s.createProject(t, "MB-2041", "Harbor Flats")

	w := s.do(t, http.MethodGet, "/api/projects/"+p.ID+"/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	health := decode[healthDTO](t, w)
	assert.Equal(t, 100, health.Score)
	assert.Equal(t, "On Track", health.Status)

	w = s.do(t, http.MethodGet, "/api/projects/"+p.ID+"/attention", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]attentionDTO](t, w))

	w = s.do(t, http.MethodGet, "/api/projects/"+p.ID+"/calendar?date=2026-01-14", nil)
	require.Equal(t, http.StatusOK, w.Code)
	cal := decode[calendarDTO](t, w)
	assert.Equal(t, "week", cal.View)
	assert.Equal(t, "2026-01-12", cal.From)
	assert.Len(t, cal.Days, 5)

	w = s.do(t, http.MethodGet, "/api/projects/"+p.ID+"/calendar?view=year", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/portfolio", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[portfolioDTO](t, w).Entries, 1)

	w = s.do(t, http.MethodGet, "/api/my-work", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/my-work?assignee=u-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[myWorkDTO](t, w).Entries)
}
