// Command tridcheckd is the analysis daemon: it serves the comparison
// API, runs the background worker queue, and optionally watches a drop
// folder for extracted disclosure pairs.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/fintrid/tridcheck/internal/async"
	"github.com/fintrid/tridcheck/internal/common"
	"github.com/fintrid/tridcheck/internal/export"
	"github.com/fintrid/tridcheck/internal/highlight"
	"github.com/fintrid/tridcheck/internal/ingest"
	"github.com/fintrid/tridcheck/internal/match"
	matchopenai "github.com/fintrid/tridcheck/internal/match/openai"
	"github.com/fintrid/tridcheck/internal/pipeline"
	"github.com/fintrid/tridcheck/internal/reconcile"
	"github.com/fintrid/tridcheck/internal/repository"
	"github.com/fintrid/tridcheck/internal/server"
)

func main() {
	// zap handles the daemon edge (startup, fatal exits); internal
	// packages log through slog.
	zl, _ := zap.NewProduction()
	defer func() { _ = zl.Sync() }()
	log := zl.Sugar()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Optional Postgres store.
	var (
		pool  *pgxpool.Pool
		store repository.AnalysisStore
	)
	if cfg.Database.DSN != "" {
		p, err := repository.Open(ctx, cfg.Database, logger)
		if err != nil {
			log.Fatalf("database open failed: %v", err)
		}
		defer repository.Close(p, logger)

		if err := repository.HealthCheck(ctx, p, cfg.Database.DialTimeout, logger); err != nil {
			log.Fatalf("database health failed: %v", err)
		}
		log.Infow("DB health OK")

		pg := repository.NewPGAnalysisStore(p, logger)
		if err := pg.EnsureSchema(ctx); err != nil {
			log.Fatalf("schema setup failed: %v", err)
		}
		pool, store = p, pg
	} else {
		log.Warnw("DB_URL not set, analyses will not be persisted")
	}

	// Matcher: semantic when an API key is configured, label-based otherwise.
	var matcher reconcile.Matcher
	if cfg.Matcher.APIKey != "" {
		matcher = matchopenai.NewClient(cfg.Matcher, logger)
		log.Infow("using semantic matcher", "model", cfg.Matcher.Model)
	} else {
		matcher = match.NewLabelMatcher(cfg.Reconcile)
		log.Infow("using deterministic label matcher")
	}

	engine := reconcile.NewEngine(matcher, cfg.Reconcile)
	locator := highlight.NewLocator(cfg.Highlight)
	proc := pipeline.NewProcessor(logger, engine, locator)

	queue := async.NewAnalysisQueue(proc, store, logger,
		async.WithWorkers(4),
		async.WithQueueSize(256),
		async.WithProcessTimeout(3*time.Minute),
	)

	if cfg.Ingest.WatchDir != "" {
		watcher := ingest.NewWatcher(cfg.Ingest, queue, logger)
		go func() {
			if err := watcher.Start(ctx); err != nil {
				logger.Error("ingest watcher failed", "error", err)
			}
		}()
	}

	var exporter *export.Service
	if store != nil {
		exporter = export.NewService(store, logger)
	}
	handler := server.NewAnalysisHandler(proc, queue, store, exporter, pool)
	router := server.NewRouter(cfg.Server, handler)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Infof("HTTP serving on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("serve: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("server forced to shutdown: %v", err)
	}
	queue.Shutdown(shutdownCtx)
	log.Info("stopped")
}
