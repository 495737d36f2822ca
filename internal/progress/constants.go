package progress

import "time"

// Service defaults
const (
	DefaultCacheSize       = 1024
	DefaultCacheTTL        = 2 * time.Minute
	DefaultLeaderboardSize = 50
	DefaultHistoryLimit    = 20
	MaxHistoryLimit        = 100

	// MaxAwardAmount bounds a single grant so totals stay far from int64 overflow
	MaxAwardAmount = 1_000_000

	// MaxUserIDLength matches the user_progress.user_id column
	MaxUserIDLength = 128
)

// Claim period layouts
const (
	DailyPeriodLayout  = "2006-01-02"
	WeeklyPeriodFormat = "%04d-W%02d"
)

// Log messages
const (
	LogMsgXPAwarded             = "XP awarded"
	LogMsgLevelUp               = "User leveled up"
	LogMsgMilestoneReached      = "Milestone reached"
	LogMsgLevelCapReached       = "User reached the maximum level"
	LogMsgClaimRejected         = "Reward claim already used this period"
	LogMsgStaleCacheWrite       = "Ignored out-of-order cache write"
	LogMsgUserRegistered        = "User progress registered"
	LogMsgLeaderboardRefreshed  = "Leaderboard refreshed"
	LogMsgServiceShuttingDown   = "Progress service shutting down..."
	LogMsgServiceShutdownFailed = "Failed to shut down progress publisher"
	LogMsgServiceShutdown       = "Progress service shutdown complete"
)
