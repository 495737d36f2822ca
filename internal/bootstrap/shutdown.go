package bootstrap

import (
	"context"
	"log/slog"

	"github.com/osse101/XPEngine_Go/internal/event"
	"github.com/osse101/XPEngine_Go/internal/progress"
	"github.com/osse101/XPEngine_Go/internal/scheduler"
	"github.com/osse101/XPEngine_Go/internal/server"
	"github.com/osse101/XPEngine_Go/internal/worker"
)

// ShutdownComponents holds all components that need graceful shutdown.
type ShutdownComponents struct {
	Server             *server.Server
	ProgressService    progress.Service
	Scheduler          *scheduler.Scheduler
	ClaimPruneWorker   *worker.ClaimPruneWorker
	WorkerPool         *worker.Pool
	ResilientPublisher *event.ResilientPublisher
}

// GracefulShutdown stops components in dependency order:
// 1. HTTP server (stop accepting new requests)
// 2. Timers and the scheduler (no new background jobs)
// 3. Progress service (in-flight awards finish)
// 4. Event publisher (flush pending events and their notification jobs)
// 5. Worker pool (drain queued celebrations)
//
// Errors during shutdown are logged but do not stop the shutdown sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)

	if components.Server != nil {
		if err := components.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	if components.ClaimPruneWorker != nil {
		if err := components.ClaimPruneWorker.Shutdown(ctx); err != nil {
			slog.Error(LogMsgClaimPruneWorkerFailed, "error", err)
		}
	}

	if components.Scheduler != nil {
		components.Scheduler.Stop()
	}

	if components.ProgressService != nil {
		shutdownService(ctx, ServiceNameProgress, components.ProgressService)
	}

	if components.ResilientPublisher != nil {
		slog.Info(LogMsgShuttingDownEventPublisher)
		if err := components.ResilientPublisher.Shutdown(ctx); err != nil {
			slog.Error(LogMsgResilientPublisherFailed, "error", err)
		}
	}

	if components.WorkerPool != nil {
		components.WorkerPool.Stop()
	}

	slog.Info(LogMsgServerStopped)
}

type shutdownableService interface {
	Shutdown(context.Context) error
}

func shutdownService(ctx context.Context, name string, service shutdownableService) {
	if err := service.Shutdown(ctx); err != nil {
		slog.Error(name+LogMsgServiceShutdownFailed, "error", err)
	}
}
