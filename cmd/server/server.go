package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// Run starts the application server and blocks until ctx is canceled or the
// server fails. Application resources are released before it returns.
func (app *application) Run(ctx context.Context) error {
	defer app.cleanup()

	router, err := app.setupRouter()
	if err != nil {
		return err
	}
	logRoutes(app.logger, router)

	ln, err := net.Listen("tcp", app.config.Server.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", app.config.Server.Addr(), err)
	}

	if err := app.serve(ctx, ln, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// serve runs an HTTP server on ln until ctx is canceled, then shuts it down
// within the configured timeout.
func (app *application) serve(ctx context.Context, ln net.Listener, handler http.Handler) error {
	server := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info("server listening", slog.String("addr", ln.Addr().String()))
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
		return nil
	case <-ctx.Done():
		app.logger.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.config.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	app.logger.Info("server shutdown completed")
	return nil
}
