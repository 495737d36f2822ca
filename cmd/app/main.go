package main

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

	"github.com/osse101/XPEngine_Go/internal/bootstrap"
	"github.com/osse101/XPEngine_Go/internal/config"
	"github.com/osse101/XPEngine_Go/internal/database"
	"github.com/osse101/XPEngine_Go/internal/handler"
	"github.com/osse101/XPEngine_Go/internal/progress"
	"github.com/osse101/XPEngine_Go/internal/scheduler"
	"github.com/osse101/XPEngine_Go/internal/server"
	"github.com/osse101/XPEngine_Go/internal/worker"
)

const (
	startupTimeout  = 30 * time.Second
	shutdownTimeout = 15 * time.Second
)

// @title XP Engine API
// @version 1.0
// @description Experience points, levels and milestones for learners.
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func main() {
	if err := run(); err != nil {
		slog.Error("Fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		return err
	}
	defer logFile.Close()

	warnings, err := config.ValidateEnvWithWarnings()
	if err != nil {
		return fmt.Errorf("invalid environment: %w", err)
	}
	for _, w := range warnings {
		slog.Warn(w)
	}

	curve, err := bootstrap.BuildCurve(cfg)
	if err != nil {
		return err
	}
	rewards, err := bootstrap.LoadRewards(cfg)
	if err != nil {
		return err
	}

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), startupTimeout)
	defer cancelStartup()

	dbPool, err := database.NewPool(cfg.GetDBConnString(), cfg.DBMaxConns, cfg.DBMaxConnIdleTime, cfg.DBMaxConnLifetime)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer dbPool.Close()

	if err := bootstrap.MigrateDatabase(startupCtx, dbPool); err != nil {
		return err
	}

	repos := bootstrap.InitializeRepositories(dbPool)

	eventBus, publisher, err := bootstrap.InitializeEventSystem(cfg)
	if err != nil {
		return err
	}

	workerPool := worker.NewPool(cfg.WorkerCount, cfg.WorkerQueueSize)
	workerPool.Start()

	if err := bootstrap.RegisterEventHandlers(bootstrap.EventHandlerDependencies{
		EventBus: eventBus,
		Queue:    workerPool,
		Config:   cfg,
	}); err != nil {
		return err
	}

	progressService := progress.NewService(repos.Progress, publisher, progress.Options{
		Curve:           curve,
		Rewards:         rewards,
		CacheSize:       cfg.CacheSize,
		CacheTTL:        cfg.CacheTTL,
		LeaderboardSize: cfg.LeaderboardSize,
	})

	sched := scheduler.New(workerPool)
	sched.ScheduleNow(cfg.LeaderboardRefresh, worker.NewLeaderboardRefreshJob(progressService))

	pruneWorker := worker.NewClaimPruneWorker(progressService)
	pruneWorker.Start()

	srv := server.NewServer(server.Options{
		Port:           cfg.Port,
		APIKey:         cfg.APIKey,
		TrustedProxies: cfg.TrustedProxies,
		ServiceName:    cfg.ServiceName,
	}, server.Dependencies{
		DBPool:          dbPool,
		Curve:           curve,
		ProgressService: progressService,
		HealthCheckers:  []handler.HealthChecker{workerPool},
	})

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case sig := <-quit:
		slog.Info("Received shutdown signal", "signal", sig.String())
	case err, ok := <-serverErr:
		if ok {
			runErr = fmt.Errorf("server failed: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	bootstrap.GracefulShutdown(ctx, bootstrap.ShutdownComponents{
		Server:             srv,
		ProgressService:    progressService,
		Scheduler:          sched,
		ClaimPruneWorker:   pruneWorker,
		WorkerPool:         workerPool,
		ResilientPublisher: publisher,
	})

	return runErr
}
