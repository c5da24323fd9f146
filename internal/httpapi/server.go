// Package httpapi serves the JSON API used by the web dashboard and the
// field PWA.
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/modline/modtrack/internal/config"
	"github.com/modline/modtrack/internal/logger"
	"github.com/modline/modtrack/internal/service"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Services are the use cases the API exposes.
type Services struct {
	Projects    service.ProjectService
	WorkItems   service.WorkItemService
	Attachments service.AttachmentService
	FloorPlans  service.FloorPlanService
	Modules     service.ModuleService
	QC          service.QCService
	Dashboard   service.DashboardService
}

type Options struct {
	Logger *zap.Logger
	// MaxUploadSize caps a multipart request body in bytes. Zero means
	// no limit beyond gin's defaults.
	MaxUploadSize int64
	// FilesDir, when set, is served read-only under /files. Used with the
	// local object store.
	FilesDir string
	// Now overrides the clock used for derived views.
	Now func() time.Time
}

type api struct {
	svc     Services
	log     *zap.Logger
	maxBody int64
	now     func() time.Time
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(svc Services, opts Options) *gin.Engine {
	log := logger.OrNop(opts.Logger)
	SetupValidator()

	r := gin.New()
	r.Use(logger.Recovery(log), logger.GinMiddleware(log), metricsMiddleware())
	if opts.MaxUploadSize > 0 {
		r.MaxMultipartMemory = opts.MaxUploadSize
	}

	a := &api{svc: svc, log: log, maxBody: opts.MaxUploadSize, now: opts.Now}
	if a.now == nil {
		a.now = time.Now
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if opts.FilesDir != "" {
		r.Static("/files", opts.FilesDir)
	}

	g := r.Group("/api")
	a.registerProjects(g)
	a.registerItems(g)
	a.registerAttachments(g)
	a.registerFloorPlans(g)
	a.registerModules(g)
	a.registerDashboard(g)
	return r
}

// NewServer wraps handler with the configured address and timeouts.
func NewServer(cfg config.HTTPConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
}
