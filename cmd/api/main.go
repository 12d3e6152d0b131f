package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/RuleWorld/PyBioNetGen-sub000/config"
	httpapi "github.com/RuleWorld/PyBioNetGen-sub000/internal/api/http"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/oracle"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/repository"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/service"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/bootstrap"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/cronjob"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/observability"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("api: %v", err)
	}
}

// run serves until SIGINT or SIGTERM. Every exit path goes through the
// deferred cleanup.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logger, err := observability.NewLogger(cfg.App.Environment, cfg.App.LogLevel)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logger.Sync()
	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stores, err := bootstrap.OpenStores(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open stores: %w", err)
	}
	defer stores.Close()
	if err := stores.RequireRedis(); err != nil {
		return err
	}

	metrics := observability.NewCollector("atomizer")
	o := bootstrap.NewOracle(cfg.Oracle, oracle.NewRedisCache(stores.Redis), logger, metrics)

	var summaries service.SummaryStore
	var dbPing httpapi.Pinger
	if stores.Summaries != nil {
		summaries = stores.Summaries
		dbPing = stores.DB.PingContext
	}
	runs := service.NewRunService(
		repository.NewRunRepository(stores.Redis, cfg.Redis.RunTTL),
		summaries,
		bootstrap.PipelineOptions(cfg, o, logger, metrics),
	)

	if stores.Summaries != nil {
		sched := cronjob.NewScheduler(runs, cfg.Retention.Schedule, cfg.Retention.MaxAge, logger)
		if err := sched.Start(); err != nil {
			return fmt.Errorf("retention scheduler: %w", err)
		}
		defer sched.Stop()
	}

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: "atomizer",
		Version:     cfg.App.Version,
		Runs:        runs,
		Logger:      logger,
		Metrics:     metrics,
		DBPing:      dbPing,
		RedisPing:   func(ctx context.Context) error { return stores.Redis.Ping(ctx).Err() },
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
	logger.Info("server stopped")
	return nil
}
