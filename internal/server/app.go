// Package server wires the application together: configuration, logging,
// database, object storage gateway, services and the HTTP server, with
// signal-driven graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/roomreel/roomreel/internal/logging"
	"github.com/roomreel/roomreel/internal/server/config"
	"github.com/roomreel/roomreel/internal/server/httpapi"
	"github.com/roomreel/roomreel/internal/server/repositories/repomanager"
	"github.com/roomreel/roomreel/internal/server/services"
	"github.com/roomreel/roomreel/internal/server/storage"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger
	rm     repomanager.RepositoryManager
	srv    *http.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	rm, err := repomanager.NewPostgresRepositoryManager(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	store, err := storage.NewS3Gateway(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	uploadService := services.NewUploadService(rm.Conn(), rm, store, logger)
	videoService := services.NewVideoService(rm.Conn(), rm)

	handler := httpapi.NewHandler(uploadService, videoService, logger)

	srv := &http.Server{
		Addr:              cfg.EndpointAddr,
		Handler:           httpapi.NewRouter(handler, []byte(cfg.SecretKey)),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &App{config: cfg, logger: logger, rm: rm, srv: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run starts the HTTP server and blocks until the context is cancelled or a
// signal arrives, then shuts down gracefully.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)

	app.logger.Info(ctx, "starting server", "addr", app.config.EndpointAddr)

	errCh := make(chan error, 1)
	go func() {
		if err := app.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := app.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}

	return app.rm.Close()
}
