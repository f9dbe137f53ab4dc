// Package internal provides the main application initialization and runtime logic.
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

	"github.com/ayasato/gekkan/internal/api"
	"github.com/ayasato/gekkan/internal/archive"
	"github.com/ayasato/gekkan/internal/master"
	"github.com/ayasato/gekkan/internal/mcpserver"
	"github.com/ayasato/gekkan/internal/rowstore"
	"github.com/ayasato/gekkan/internal/scheduleservice"
	"github.com/ayasato/gekkan/internal/sse"
)

// Run starts the HTTP server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("store_path", cfg.Store.Path),
		slog.String("archive_root", cfg.Archive.Root),
		slog.String("master_path", cfg.Master.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Ensure archive root exists.
	if err := os.MkdirAll(cfg.Archive.Root, 0o755); err != nil {
		return fmt.Errorf("create archive root: %w", err)
	}

	arch, err := archive.NewFS(cfg.Archive.Root)
	if err != nil {
		return fmt.Errorf("init archive: %w", err)
	}

	store, err := rowstore.Open(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("init row store: %w", err)
	}
	defer store.Close()

	// Load master tables (built-in defaults when no file is configured).
	masters, err := master.Load(cfg.Master.Path, logger)
	if err != nil {
		return fmt.Errorf("load master tables: %w", err)
	}
	holder := master.NewHolder(masters)
	logger.Info("Master tables loaded",
		slog.Int("categories", len(masters.Categories)),
		slog.Int("processes", len(masters.Processes)))

	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)

	// Build service and router.
	svc := scheduleservice.NewService(store, arch, holder, broker, logger)
	apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Hot-reload the master tables when a file is configured.
	if cfg.Master.Path != "" {
		g.Go(func() error {
			return master.Watch(gCtx, holder, cfg.Master.Path, logger)
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")
		broker.Close()

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

// RunMCP serves the scheduling tools over MCP stdio. Logs go to stderr so
// stdout stays clean for the protocol.
func RunMCP(ctx context.Context, opts ...Option) error {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	cfg := app.config

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	if err := os.MkdirAll(cfg.Archive.Root, 0o755); err != nil {
		return fmt.Errorf("create archive root: %w", err)
	}
	arch, err := archive.NewFS(cfg.Archive.Root)
	if err != nil {
		return fmt.Errorf("init archive: %w", err)
	}
	store, err := rowstore.Open(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("init row store: %w", err)
	}
	defer store.Close()

	masters, err := master.Load(cfg.Master.Path, logger)
	if err != nil {
		return fmt.Errorf("load master tables: %w", err)
	}

	svc := scheduleservice.NewService(store, arch, master.NewHolder(masters), nil, logger)
	return mcpserver.New(svc).ServeStdio()
}
