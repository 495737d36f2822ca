package worker

import "time"

// DefaultJobTimeout bounds a single job execution
const DefaultJobTimeout = 30 * time.Second

// ClaimRetention is how long reward claim rows are kept after their period closes
const ClaimRetention = 15 * 24 * time.Hour

// ============================================================================
// Log Messages - Worker Pool
// ============================================================================

// Log messages for the worker pool
const (
	LogMsgWorkerJobFailed   = "Worker job failed"
	LogMsgWorkerJobPanicked = "Worker job panicked"
	LogMsgWorkerQueueFull   = "Worker queue full, dropping job"
)

// ============================================================================
// Log Messages - Leaderboard Refresh
// ============================================================================

// Log messages for leaderboard refresh jobs
const (
	LogMsgLeaderboardRefreshed = "Leaderboard refreshed"
)

// ============================================================================
// Log Messages - Claim Prune Worker
// ============================================================================

// Log messages for claim prune worker operations
const (
	LogMsgClaimPruneStarting  = "Claim prune starting"
	LogMsgClaimPruneCompleted = "Claim prune completed"
	LogMsgClaimPruneFailed    = "Claim prune failed"
	LogMsgClaimPruneScheduled = "Claim prune scheduled"
)

// ============================================================================
// Test Configuration
// ============================================================================

// Test pool configuration values used in pool_test.go
const (
	TestWorkerCount           = 2
	TestQueueSize             = 10
	TestExpectedJobCount      = 2
	TestWorkerProcessWaitTime = 100 // milliseconds
)
