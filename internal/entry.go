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
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/raido/internal/api"
	"github.com/starford/raido/internal/archiver"
	"github.com/starford/raido/internal/backup"
	"github.com/starford/raido/internal/catalog"
	"github.com/starford/raido/internal/dispatch"
	"github.com/starford/raido/internal/ledger"
	"github.com/starford/raido/internal/mcpserver"
	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/profile"
	"github.com/starford/raido/internal/sse"
	"github.com/starford/raido/internal/status"
	"github.com/starford/raido/internal/watcher"
)

// app holds the wired dependencies shared by run and serve modes.
type app struct {
	cfg      *Config
	logger   *slog.Logger
	cat      *catalog.DB
	arch     archiver.Archiver
	reporter status.Reporter
}

// Run executes one archive pass and exits. Environment problems (missing
// profile, missing backups, undecodable backup) come back as errors for a
// non-zero exit; per-URL archive failures only show up in the summary.
func Run(ctx context.Context, opts ...Option) error {
	a, err := setup(opts...)
	if err != nil {
		return err
	}
	defer a.cat.Close()

	_, err = a.runOnce(ctx)
	return err
}

// Serve runs the long-lived mode: an initial archive pass, a watcher on the
// backup directory that re-runs when Firefox writes a new snapshot, and the
// status HTTP API with live SSE events.
func Serve(ctx context.Context, opts ...Option) error {
	a, err := setup(opts...)
	if err != nil {
		return err
	}
	defer a.cat.Close()

	cfg := a.cfg
	logger := a.logger

	// Resolve the profile up front; in serve mode a missing profile is a
	// startup failure, not something to rediscover on every trigger.
	profileDir, err := profile.Locate(cfg.Firefox.ProfileDir)
	if err != nil {
		return err
	}

	broker := sse.NewBroker()
	defer broker.Close()
	a.reporter = status.Fanout{a.reporter, &status.Broker{B: broker}}

	runner := &runner{app: a, logger: logger}

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

	apiRouter := api.NewRouter(a.cat, runner.tryRun, cfg.Auth.AuthEnabled(), cfg.Auth.Token, http.HandlerFunc(broker.ServeHTTP))
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)
	runner.ctx = gCtx

	// Initial pass at startup.
	if !runner.tryRun() {
		logger.Warn("initial run not started")
	}

	// Watch the backup directory for new snapshots.
	g.Go(func() error {
		backupDir := filepath.Join(profileDir, "bookmarkbackups")
		err := watcher.Watch(gCtx, backupDir, cfg.Watch.Debounce(), logger, func() {
			if !runner.tryRun() {
				logger.Info("run already in progress, trigger skipped")
			}
		})
		if err != nil {
			logger.Warn("watcher unavailable", slog.String("error", err.Error()))
		}
		return nil
	})

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

	runner.wait()
	logger.Info("Server stopped successfully")
	return nil
}

// ServeMCP exposes the catalog and run trigger over MCP stdio transport.
// Logs go to stderr so stdout stays clean for the protocol.
func ServeMCP(_ context.Context, opts ...Option) error {
	a, err := setup(opts...)
	if err != nil {
		return err
	}
	defer a.cat.Close()

	// stdio transport owns stdout; re-point the logger.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: a.cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)
	a.logger = logger

	srv := mcpserver.New(a.cat, a.runOnce)
	return srv.ServeStdio()
}

// setup validates options, initializes logging, creates output directories
// and opens the catalog.
func setup(opts ...Option) (*app, error) {
	o := &application{}
	for _, opt := range opts {
		opt(o)
	}

	if o.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	cfg := o.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("folder", cfg.Firefox.FolderName),
		slog.String("destination", cfg.Archive.DestinationDir),
		slog.String("processed_log", cfg.Archive.ProcessedLog),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Ensure output locations exist.
	if err := os.MkdirAll(cfg.Archive.DestinationDir, 0o755); err != nil {
		return nil, fmt.Errorf("create destination dir: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Archive.ProcessedLog), 0o755); err != nil {
		return nil, fmt.Errorf("create processed log dir: %w", err)
	}

	cat, err := catalog.Open(cfg.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("init catalog: %w", err)
	}

	arch := o.archiver
	if arch == nil {
		arch, err = archiver.NewExec(cfg.Archive.Command)
		if err != nil {
			cat.Close()
			return nil, err
		}
	}

	var reporter status.Reporter = &status.Log{Logger: logger}
	if o.reporter != nil {
		reporter = status.Fanout{reporter, o.reporter}
	}

	return &app{cfg: cfg, logger: logger, cat: cat, arch: arch, reporter: reporter}, nil
}

// runOnce performs one complete pass: locate profile, select and decode the
// latest backup, then dispatch archive attempts for new URLs.
func (a *app) runOnce(ctx context.Context) (models.RunSummary, error) {
	cfg := a.cfg

	profileDir, err := profile.Locate(cfg.Firefox.ProfileDir)
	if err != nil {
		return models.RunSummary{}, err
	}
	a.logger.Info("using profile", slog.String("dir", profileDir))

	bf, err := profile.LatestBackup(profileDir)
	if err != nil {
		return models.RunSummary{}, err
	}
	a.logger.Info("using backup",
		slog.String("path", bf.Path),
		slog.Time("mod_time", bf.ModTime))

	root, err := backup.DecodeFile(bf)
	if err != nil {
		return models.RunSummary{}, err
	}

	led, err := ledger.Open(cfg.Archive.ProcessedLog)
	if err != nil {
		return models.RunSummary{}, err
	}
	a.logger.Info("ledger loaded", slog.Int("processed_urls", led.Len()))

	d := &dispatch.Dispatcher{
		Folder:   cfg.Firefox.FolderName,
		DestDir:  cfg.Archive.DestinationDir,
		Ledger:   led,
		Archiver: a.arch,
		Catalog:  a.cat,
		Reporter: a.reporter,
		Logger:   a.logger,
	}
	return d.Run(ctx, root)
}

// runner serializes archive passes: the ledger has one writer, so
// overlapping triggers are dropped rather than queued.
type runner struct {
	app    *app
	logger *slog.Logger
	ctx    context.Context
	mu     sync.Mutex
	wg     sync.WaitGroup
}

// tryRun starts a pass in the background. It reports false when a pass is
// already in flight.
func (r *runner) tryRun() bool {
	if !r.mu.TryLock() {
		return false
	}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer r.mu.Unlock()
		if _, err := r.app.runOnce(r.ctx); err != nil {
			r.logger.Error("run failed", slog.String("error", err.Error()))
		}
	}()
	return true
}

// wait blocks until any in-flight pass finishes.
func (r *runner) wait() {
	r.wg.Wait()
}
