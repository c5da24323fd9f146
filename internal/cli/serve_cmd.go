package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/modline/modtrack/internal/config"
	"github.com/modline/modtrack/internal/httpapi"
	"github.com/modline/modtrack/internal/logger"
	"github.com/modline/modtrack/internal/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Config == nil {
				return fmt.Errorf("serve needs a loaded configuration")
			}
			cfg := app.Config.HTTP
			if addr != "" {
				cfg.Addr = addr
			}
			if app.Config.IsProduction() {
				gin.SetMode(gin.ReleaseMode)
			}
			log := logger.OrNop(app.Logger)

			if s3, ok := app.Store.(*storage.S3Store); ok {
				bctx, cancel := context.WithTimeout(cmdContext(cmd), 15*time.Second)
				err := s3.EnsureBucket(bctx)
				cancel()
				if err != nil {
					return fmt.Errorf("preparing bucket: %w", err)
				}
			}

			router := httpapi.NewRouter(app.services(), httpapi.Options{
				Logger:        log,
				MaxUploadSize: cfg.MaxUploadSize,
				FilesDir:      localFilesDir(app.Config.Storage),
				Now:           app.Now,
			})
			srv := httpapi.NewServer(cfg, router)

			ctx, stop := signal.NotifyContext(cmdContext(cmd), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, srv, log)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides http.addr)")
	return cmd
}

// runServer serves until ctx is done, then drains in-flight requests.
func runServer(ctx context.Context, srv *http.Server, log *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serving http: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	return nil
}

// localFilesDir is served under /files when the local store hands out
// relative URLs.
func localFilesDir(cfg config.StorageConfig) string {
	if cfg.Driver != "local" && cfg.Driver != "" {
		return ""
	}
	if cfg.PublicBaseURL != "/files" {
		return ""
	}
	return cfg.Dir
}
