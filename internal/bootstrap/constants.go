package bootstrap

import "time"

// Session log files
const (
	DirPermission     = 0755
	LogFilePermission = 0644

	// session_2006-01-02_15-04-05.log
	LogFileTimestampFormat = "2006-01-02_15-04-05"
	LogFileNamePattern     = "session_%s.log"
	LogFileExtension       = ".log"

	// older session logs kept beside the current one
	LogFileRetentionCount = 9
)

// Resilient publisher defaults. The delay doubles per attempt.
const (
	EventDefaultMaxRetries = 5
	EventDefaultRetryDelay = 2 * time.Second
)

// Names reported in the "notifier" attribute at startup
const (
	NotifierDiscord = "discord"
	NotifierLog     = "log"
)

// ServiceNameProgress prefixes LogMsgServiceShutdownFailed
const ServiceNameProgress = "progress"

// Startup
const (
	LogMsgLoggingInitialized  = "Logging initialized"
	LogMsgStartingService     = "Starting XP engine"
	LogMsgConfigurationLoaded = "Configuration loaded"
	LogMsgLoadingRewards      = "Loading reward configuration"
	LogMsgRewardsLoaded       = "Reward configuration loaded"
	LogMsgRunningMigration    = "Applying database migrations"

	LogMsgEventSystemInitialized     = "Event system initialized"
	LogMsgMetricsCollectorRegistered = "Metrics collector registered"
	LogMsgNotifierRegistered         = "Celebration notifier registered"

	LogMsgFailedDeleteOldLog = "Failed to delete old log file"
)

// Wrapped into returned errors
const (
	LogMsgFailedCreateLogsDir            = "failed to create logs directory"
	LogMsgFailedOpenLogFile              = "failed to open log file"
	LogMsgFailedCreateDeadLetterDir      = "failed to create dead-letter directory"
	LogMsgFailedCreateResilientPublisher = "failed to create resilient publisher"

	ErrMsgFailedLoadRewards     = "failed to load reward config"
	ErrMsgFailedMigrate         = "failed to migrate database"
	ErrMsgInvalidMaxLevel       = "invalid max level"
	ErrMsgFailedRegisterMetrics = "failed to register metrics collector"
	ErrMsgFailedCreateNotifier  = "failed to create discord notifier"
)

// Shutdown
const (
	LogMsgShuttingDownServer         = "Shutting down server..."
	LogMsgShuttingDownEventPublisher = "Shutting down event publisher..."
	LogMsgServerStopped              = "Server stopped"
	LogMsgServerForcedShutdown       = "Server forced to shutdown"
	LogMsgResilientPublisherFailed   = "Resilient publisher shutdown failed"
	LogMsgClaimPruneWorkerFailed     = "Claim prune worker shutdown failed"
	LogMsgServiceShutdownFailed      = " service shutdown failed"
)
