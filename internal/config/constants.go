package config

import "time"

const (
	// Configuration file paths
	ConfigPathRewards = "configs/rewards.yaml"
)

// Defaults applied when an environment variable is absent or malformed
const (
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
	DefaultServiceName = "xp-engine"
	DefaultVersion     = "dev"
	DefaultEnvironment = "dev"

	DefaultDBName            = "xpengine"
	DefaultDBMaxConns        = 20
	DefaultDBMaxConnIdleTime = 5 * time.Minute
	DefaultDBMaxConnLifetime = 30 * time.Minute

	DefaultMaxLevel           = 10000
	DefaultCacheSize          = 1024
	DefaultCacheTTL           = 2 * time.Minute
	DefaultLeaderboardSize    = 50
	DefaultLeaderboardRefresh = 5 * time.Minute

	DefaultWorkerCount     = 4
	DefaultWorkerQueueSize = 256
	DefaultDeadLetterPath  = "deadletter.jsonl"
)
