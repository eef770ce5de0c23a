package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// Run starts the task runner, the reminder scheduler and the HTTP server,
// and blocks until ctx is cancelled or the server fails.
func (app *application) Run(ctx context.Context) error {
	defer app.cleanup()

	// Background work is cancelled only after the HTTP server has drained.
	workCtx, cancelWork := context.WithCancel(context.WithoutCancel(ctx))
	defer cancelWork()

	if err := app.taskRunner.Start(workCtx); err != nil {
		return fmt.Errorf("failed to start task runner: %w", err)
	}
	defer app.taskRunner.Stop()

	var wg sync.WaitGroup
	if app.scheduler != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := app.scheduler.Run(workCtx); err != nil && !errors.Is(err, context.Canceled) {
				app.logger.Error("reminder scheduler stopped", slog.String("error", err.Error()))
			}
		}()
	}

	err := app.serveHTTP(ctx)
	cancelWork()
	wg.Wait()
	return err
}

// serveHTTP listens until ctx is cancelled, then shuts down gracefully.
func (app *application) serveHTTP(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", app.config.Server.Port),
		Handler:           setupRouter(app.routerDeps()),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		app.logger.Info("starting server", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	app.logger.Info("shutting down server")
	timeout := time.Duration(app.config.Server.ShutdownTimeoutSeconds) * time.Second
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	app.logger.Info("server stopped")
	return nil
}

// cleanup closes adapters and the database once background work has stopped.
func (app *application) cleanup() {
	app.closeAdapters()
	if err := app.db.Close(); err != nil {
		app.logger.Error("failed to close database", slog.String("error", err.Error()))
	}
}
