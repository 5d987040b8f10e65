// Package app provides application lifecycle management for the audit server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/forgeo/crm-audit-server/internal/config"
	"github.com/forgeo/crm-audit-server/internal/service"
)

// AuditApp encapsulates all components needed to run the audit API server.
// It provides lifecycle management and graceful shutdown.
type AuditApp struct {
	config     *config.Config
	components *AppComponents
	httpServer *http.Server

	ctx        context.Context
	cancelFunc context.CancelFunc

	// cleanups release resources in reverse order of acquisition
	cleanups []func()
	stopOnce sync.Once
	stopErr  error
}

// Start starts the coordinator in the background and serves HTTP.
// It blocks until the HTTP server stops or fails.
func (app *AuditApp) Start() error {
	go func() {
		if err := app.components.Coordinator.Start(app.ctx); err != nil {
			slog.Error("Sync coordinator failed", "error", err)
		}
	}()

	slog.Info("Server listening", "address", app.httpServer.Addr)
	if err := app.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	return nil
}

// Stop gracefully stops the application within timeout.
// The coordinator stops first, then the HTTP server, then in flight runs are awaited.
func (app *AuditApp) Stop(timeout time.Duration) error {
	app.stopOnce.Do(func() {
		app.stopErr = app.stop(timeout)
	})
	return app.stopErr
}

func (app *AuditApp) stop(timeout time.Duration) error {
	slog.Info("Shutting down server...")

	if err := app.components.Coordinator.Stop(); err != nil {
		slog.Error("Failed to stop sync coordinator", "error", err)
	}

	if app.cancelFunc != nil {
		app.cancelFunc()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var errs []error
	if err := app.httpServer.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server forced to shutdown: %w", err))
	}
	if err := app.components.Service.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("failed to drain background runs: %w", err))
	}

	for i := len(app.cleanups) - 1; i >= 0; i-- {
		app.cleanups[i]()
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}
	slog.Info("Server shutdown complete")
	return nil
}

// GetConfig returns the application configuration
func (app *AuditApp) GetConfig() *config.Config {
	return app.config
}

// GetService returns the service behind the API
func (app *AuditApp) GetService() service.Service {
	return app.components.Service
}

// GetHTTPServer returns the HTTP server
func (app *AuditApp) GetHTTPServer() *http.Server {
	return app.httpServer
}
