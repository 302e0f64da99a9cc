package bootstrap

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/yanqian/ppgi-advisor/internal/domain/prediction"
	"github.com/yanqian/ppgi-advisor/internal/infra/config"
)

const shutdownTimeout = 10 * time.Second

// App encapsulates the HTTP server lifecycle and the storage it owns.
type App struct {
	cfg       *config.Config
	logger    *slog.Logger
	server    *http.Server
	resources []namedResource
}

type namedResource struct {
	name  string
	value any
}

// NewApp is used by Wire to build the runnable app. History and cache are
// closed after the server has drained.
func NewApp(cfg *config.Config, logger *slog.Logger, server *http.Server, history prediction.HistoryRepository, cache prediction.Cache) *App {
	return &App{
		cfg:    cfg,
		logger: logger.With("component", "bootstrap"),
		server: server,
		resources: []namedResource{
			{name: "history", value: history},
			{name: "cache", value: cache},
		},
	}
}

// Run starts the HTTP server and blocks until ctx is cancelled or the server fails.
func (a *App) Run(ctx context.Context) error {
	defer a.release()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server starting",
			"address", a.cfg.HTTP.Address,
			"predictor", a.cfg.Predictor.BaseURL,
			"cache_enabled", a.cfg.Cache.Enabled,
		)
		if err := a.server.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutdown signal received")
		return a.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// release closes every resource that holds a connection or file handle.
func (a *App) release() {
	for _, res := range a.resources {
		closer, ok := res.value.(io.Closer)
		if !ok {
			continue
		}
		if err := closer.Close(); err != nil {
			a.logger.Warn("close resource failed", "resource", res.name, "error", err)
			continue
		}
		a.logger.Debug("resource closed", "resource", res.name)
	}
}
