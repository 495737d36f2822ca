package handler

import (
	"errors"
	"net/http"

	"github.com/osse101/XPEngine_Go/internal/domain"
)

// Request-shape problems
const (
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"
	ErrMsgMissingQueryParam     = "Missing %s query parameter"
	ErrMsgInvalidQueryParam     = "Invalid %s query parameter: must be a non-negative integer"
	ErrMsgGetLeaderboardFailed  = "Failed to retrieve leaderboard"
)

// Service errors as clients see them. Internal detail never leaves the process.
const (
	ErrMsgGenericServerError     = "Something went wrong"
	ErrMsgInvalidInputError      = "Invalid input. Please check your values."
	ErrMsgLevelCapExceededError  = "Level is beyond the maximum level"
	ErrMsgUserNotFoundError      = "User not found"
	ErrMsgUnknownSourceError     = "Unknown reward source"
	ErrMsgClaimNotAvailableError = "Reward already claimed for this period"
)

const MsgUserRegistered = "User registered"

var serviceErrorStatus = []struct {
	target  error
	status  int
	message string
}{
	{domain.ErrInvalidInput, http.StatusBadRequest, ErrMsgInvalidInputError},
	{domain.ErrUnknownRewardSource, http.StatusBadRequest, ErrMsgUnknownSourceError},
	{domain.ErrLevelCapExceeded, http.StatusUnprocessableEntity, ErrMsgLevelCapExceededError},
	{domain.ErrUserNotFound, http.StatusNotFound, ErrMsgUserNotFoundError},
	{domain.ErrClaimNotAvailable, http.StatusConflict, ErrMsgClaimNotAvailableError},
}

// mapServiceErrorToUserMessage picks the status and message for a service error.
// Unrecognised errors, including nil, are a generic 500.
func mapServiceErrorToUserMessage(err error) (int, string) {
	for _, m := range serviceErrorStatus {
		if errors.Is(err, m.target) {
			return m.status, m.message
		}
	}
	return http.StatusInternalServerError, ErrMsgGenericServerError
}
