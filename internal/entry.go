// Package internal wires configuration, logging and the sowilo commands.
package internal

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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/sowilo/internal/api"
	"github.com/starford/sowilo/internal/content"
	"github.com/starford/sowilo/internal/index"
	"github.com/starford/sowilo/internal/postservice"
	"github.com/starford/sowilo/internal/sse"
	"github.com/starford/sowilo/internal/storage"
)

// Serve runs the preview server: the JSON API over the published posts, the
// generated public files and an SSE stream that fires after every re-sync.
func Serve(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg, logger := app.config, app.logger
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("content_dir", cfg.Output.ContentDir),
		slog.String("public_dir", cfg.Output.PublicDir),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, reader, err := app.openIndex()
	if err != nil {
		return err
	}
	defer db.Close()

	broker := sse.NewBroker()
	defer broker.Close()

	svc := postservice.NewService(reader, db)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health/live", health)
	r.Get("/health/ready", health)

	r.Mount("/api", api.NewRouter(svc, broker))
	api.NewSiteHandler(cfg.Output.PublicDir, cfg.Output.ImagesDir).Register(r)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return index.Watch(gCtx, db, reader, cfg.Output.ContentDir, index.DefaultDebounce, logger,
			func(stats index.SyncStats) {
				if err := broker.PublishSynced(stats); err != nil {
					logger.Warn("sse: publish failed", slog.String("error", err.Error()))
				}
			})
	})

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

func health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// openIndex opens the SQLite index and brings it up to date with the content
// directory, which is created if it does not exist yet.
func (a *application) openIndex() (*index.DB, *content.Reader, error) {
	cfg := a.config
	if err := os.MkdirAll(cfg.Output.ContentDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create content dir: %w", err)
	}
	store, err := storage.NewFS(cfg.Output.ContentDir)
	if err != nil {
		return nil, nil, fmt.Errorf("init storage: %w", err)
	}
	reader := content.NewReader(store, a.logger)

	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("init index: %w", err)
	}
	stats, err := index.Sync(db, reader, a.logger)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("initial sync: %w", err)
	}
	a.logger.Info("index: synced",
		slog.Int("indexed", stats.Indexed),
		slog.Int("removed", stats.Removed),
		slog.Int("unchanged", stats.Unchanged))
	return db, reader, nil
}
