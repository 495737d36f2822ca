package postgres

// PostgreSQL Error Codes
const (
	// PgErrorCodeNumericOutOfRange is raised when total_xp would overflow BIGINT
	PgErrorCodeNumericOutOfRange = "22003"
)

// Error Messages - Transaction Operations
const (
	ErrMsgFailedToBeginTransaction  = "failed to begin transaction"
	ErrMsgFailedToCommitTransaction = "failed to commit transaction"
)

// Error Messages - Progress Operations
const (
	ErrMsgFailedToGetProgress    = "failed to get user progress"
	ErrMsgFailedToCreateProgress = "failed to create user progress"
	ErrMsgFailedToIncrementXP    = "failed to increment xp"
	ErrMsgFailedToRecordEvent    = "failed to record xp event"
	ErrMsgFailedToRecordClaim    = "failed to record reward claim"
	ErrMsgFailedToQueryTopUsers  = "failed to query top users"
	ErrMsgFailedToQueryEvents    = "failed to query xp events"
)
