package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/yanqian/content-digest/internal/infra/config"
)

// App owns the HTTP server lifecycle.
type App struct {
	server          *http.Server
	shutdownTimeout time.Duration
	logger          *slog.Logger
}

// NewApp is used by Wire to build the runnable app.
func NewApp(cfg *config.Config, logger *slog.Logger, server *http.Server) *App {
	return &App{
		server:          server,
		shutdownTimeout: cfg.HTTP.ShutdownTimeout,
		logger:          logger.With("component", "bootstrap.app"),
	}
}

// Run listens on the configured address and blocks until ctx is done or the
// server fails.
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.server.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", a.server.Addr, err)
	}
	return a.Serve(ctx, ln)
}

// Serve runs the server on ln. In-flight requests get shutdownTimeout to
// finish once ctx is cancelled.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server starting", "address", ln.Addr().String())
		errCh <- a.server.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received", "timeout", a.shutdownTimeout)
		timeout := a.shutdownTimeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
