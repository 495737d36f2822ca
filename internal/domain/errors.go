package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Engine errors
	ErrMsgInvalidInput          = "invalid input"
	ErrMsgLevelCapExceeded      = "level cap exceeded"
	ErrMsgInternalInconsistency = "internal inconsistency"

	// Progress errors
	ErrMsgUserNotFound        = "user not found"
	ErrMsgUnknownRewardSource = "unknown reward source"
	ErrMsgClaimNotAvailable   = "reward already claimed for this period"

	// Database/System errors
	ErrMsgDatabaseError = "database error"
)

// Common domain errors
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// ErrInvalidInput rejects negative XP totals, levels below 1 and malformed request values
	ErrInvalidInput = errors.New(ErrMsgInvalidInput)

	// ErrLevelCapExceeded is reported when a total maps beyond the configured max level
	ErrLevelCapExceeded = errors.New(ErrMsgLevelCapExceeded)

	// ErrInternalInconsistency means the resolver and threshold function disagree. It is a bug.
	ErrInternalInconsistency = errors.New(ErrMsgInternalInconsistency)

	ErrUserNotFound        = errors.New(ErrMsgUserNotFound)
	ErrUnknownRewardSource = errors.New(ErrMsgUnknownRewardSource)
	ErrClaimNotAvailable   = errors.New(ErrMsgClaimNotAvailable)
	ErrDatabaseError       = errors.New(ErrMsgDatabaseError)
)
