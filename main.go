package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"reef-scout/config"
	"reef-scout/ingest"
	"reef-scout/logging"
	"reef-scout/metrics"
	"reef-scout/report"
	"reef-scout/schedule"
	"reef-scout/stats"
	"reef-scout/store"
)

func main() {
	clearScouting := flag.Bool("clear-scouting", false, "delete every scouting record, keep the match schedule, and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.New(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer st.Close()

	if *clearScouting {
		if err := clearScoutingData(ctx, st, logger); err != nil {
			logger.Fatal("failed to clear scouting data", zap.Error(err))
		}
		return
	}

	if err := run(ctx, cfg, st, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func clearScoutingData(ctx context.Context, st *store.Store, logger *zap.Logger) error {
	n, err := st.ClearAll(ctx)
	if err != nil {
		return err
	}
	logger.Info("cleared scouting data", zap.Int64("records", n))
	fmt.Printf("All scouting data cleared (%d records)\n", n)
	return nil
}

func run(ctx context.Context, cfg *config.Config, st *store.Store, logger *zap.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	reports := report.New(st, stats.NewEngine(stats.Reefscape2025),
		report.WithCacheTTL(cfg.Stats.CacheTTL),
		report.WithLogger(logger.Named("report")),
		report.WithMetrics(m),
	)
	ingester := ingest.New(st,
		ingest.WithLogger(logger.Named("ingest")),
		ingest.WithMetrics(m),
		ingest.WithInvalidator(reports),
		ingest.WithConcurrency(cfg.Ingest.Concurrency),
	)

	if err := os.MkdirAll(cfg.Ingest.UploadDir, 0o755); err != nil {
		return fmt.Errorf("create upload dir: %w", err)
	}
	if cfg.Ingest.ReloadOnStart {
		results, err := ingester.ReloadDir(ctx, cfg.Ingest.UploadDir)
		if err != nil {
			return err
		}
		ok, failed := ingest.Summarize(results)
		logger.Info("reloaded scouting submissions", zap.Int("imported", ok), zap.Int("failed", failed))
	}

	tba := schedule.NewTBAClient(cfg.TBA.BaseURL, cfg.TBA.AuthKey, cfg.TBA.CacheTTL, nil)
	if !tba.Enabled() {
		logger.Warn("TBA_AUTH_KEY not set, schedule import from The Blue Alliance disabled")
	}

	srv := newServer(serverDeps{
		cfg:      cfg,
		log:      logger,
		store:    st,
		reports:  reports,
		ingester: ingester,
		tba:      tba,
		metrics:  m,
		gatherer: reg,
	})

	httpServer := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("reef scout listening", zap.Int("port", cfg.Port), zap.String("env", cfg.Env))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
