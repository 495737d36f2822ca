package database

import "time"

// Connection pool settings
const (
	// DefaultMinConnections is the number of idle connections kept warm
	DefaultMinConnections int32 = 2

	// ConnectTimeout bounds pool creation and the initial ping
	ConnectTimeout = 10 * time.Second

	// ApplicationName shows up in pg_stat_activity
	ApplicationName = "xp-engine"
)

// Error Messages - Database Operations
const (
	ErrMsgFailedToParseConnString   = "failed to parse connection string"
	ErrMsgFailedToCreatePool        = "failed to create connection pool"
	ErrMsgFailedToPingDatabase      = "failed to ping database"
	ErrMsgFailedToLoadMigrations    = "failed to load migrations"
	ErrMsgFailedToApplyMigrations   = "failed to apply migrations"
	ErrMsgFailedToRollbackMigration = "failed to roll back migration"
)

// Log Messages
const (
	LogMsgSuccessfullyConnectedToDatabase = "Successfully connected to the database"
	LogMsgMigrationApplied                = "Applied migration"
	LogMsgMigrationRolledBack             = "Rolled back migration"
)
