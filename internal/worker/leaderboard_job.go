package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/osse101/XPEngine_Go/internal/logger"
	"github.com/osse101/XPEngine_Go/internal/metrics"
)

// LeaderboardRefresher rebuilds the cached leaderboard
type LeaderboardRefresher interface {
	RefreshLeaderboard(ctx context.Context) error
}

// LeaderboardRefreshJob is scheduled periodically to keep the leaderboard warm
type LeaderboardRefreshJob struct {
	refresher LeaderboardRefresher
}

// NewLeaderboardRefreshJob creates a new LeaderboardRefreshJob
func NewLeaderboardRefreshJob(refresher LeaderboardRefresher) *LeaderboardRefreshJob {
	return &LeaderboardRefreshJob{refresher: refresher}
}

// Name identifies the job in scheduler logs
func (j *LeaderboardRefreshJob) Name() string {
	return "leaderboard_refresh"
}

// Process implements Job
func (j *LeaderboardRefreshJob) Process(ctx context.Context) error {
	start := time.Now()
	if err := j.refresher.RefreshLeaderboard(ctx); err != nil {
		return fmt.Errorf("leaderboard refresh: %w", err)
	}
	elapsed := time.Since(start)
	metrics.LeaderboardRefreshDuration.Observe(elapsed.Seconds())
	logger.FromContext(ctx).Debug(LogMsgLeaderboardRefreshed, "duration", elapsed)
	return nil
}
