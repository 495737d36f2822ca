package worker

import (
	"context"
	"sync"
	"time"

	"github.com/osse101/XPEngine_Go/internal/logger"
)

// ClaimPruner removes reward claim rows older than a cutoff
type ClaimPruner interface {
	PruneClaims(ctx context.Context, before time.Time) (int64, error)
}

// ClaimPruneWorker deletes expired daily/weekly claim rows shortly after 00:00 UTC.
// Claim windows are keyed by period, so old rows only cost storage.
type ClaimPruneWorker struct {
	pruner    ClaimPruner
	retention time.Duration
	now       func() time.Time
	timer     *time.Timer
	shutdown  chan struct{}
	wg        sync.WaitGroup
	mu        sync.Mutex
}

// NewClaimPruneWorker creates a new ClaimPruneWorker
func NewClaimPruneWorker(pruner ClaimPruner) *ClaimPruneWorker {
	return &ClaimPruneWorker{
		pruner:    pruner,
		retention: ClaimRetention,
		now:       time.Now,
		shutdown:  make(chan struct{}),
	}
}

// Start schedules the first prune
func (w *ClaimPruneWorker) Start() {
	w.scheduleNext()
}

func (w *ClaimPruneWorker) scheduleNext() {
	select {
	case <-w.shutdown:
		return
	default:
	}

	duration := timeUntilNextMidnightUTC(w.now())

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(duration, func() {
		select {
		case <-w.shutdown:
			return
		default:
		}
		w.executePrune()
		w.scheduleNext()
	})
	w.mu.Unlock()

	logger.FromContext(context.Background()).Info(LogMsgClaimPruneScheduled, "next_prune_at", w.now().UTC().Add(duration))
}

// executePrune runs one prune pass in a tracked goroutine
func (w *ClaimPruneWorker) executePrune() {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.pruneOnce(context.Background())
	}()
}

func (w *ClaimPruneWorker) pruneOnce(ctx context.Context) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgClaimPruneStarting)

	cutoff := w.now().UTC().Add(-w.retention)
	removed, err := w.pruner.PruneClaims(ctx, cutoff)
	if err != nil {
		log.Error(LogMsgClaimPruneFailed, "error", err)
		return
	}
	log.Info(LogMsgClaimPruneCompleted, "rows_removed", removed, "cutoff", cutoff)
}

// Shutdown cancels the pending timer and waits for an in-flight prune
func (w *ClaimPruneWorker) Shutdown(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Info("Shutting down claim prune worker")

	select {
	case <-w.shutdown:
	default:
		close(w.shutdown)
	}

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info("Claim prune worker shutdown complete")
		return nil
	case <-ctx.Done():
		log.Warn("Claim prune worker shutdown timeout")
		return ctx.Err()
	}
}

// timeUntilNextMidnightUTC returns the wait until the next 00:00 UTC (plus a small offset)
func timeUntilNextMidnightUTC(now time.Time) time.Duration {
	now = now.UTC()
	next := time.Date(now.Year(), now.Month(), now.Day(), 0, 5, 0, 0, time.UTC)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(now)
}
