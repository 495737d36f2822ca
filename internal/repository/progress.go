package repository

import (
	"context"
	"time"

	"github.com/osse101/XPEngine_Go/internal/domain"
)

// Progress defines the data access interface for XP progression.
// Implementations must apply XP atomically: concurrent awards for the same
// user never lose an increment and totals never decrease.
type Progress interface {
	GetUserProgress(ctx context.Context, userID string) (*domain.UserProgress, error)
	// CreateUserProgress inserts a zero-XP record, returning the existing one if present
	CreateUserProgress(ctx context.Context, userID string) (*domain.UserProgress, error)
	// ApplyXPEvent increments the user's total and records the event in one transaction.
	// A non-empty claimPeriod also records a reward claim; a duplicate claim for the
	// same period fails with domain.ErrClaimNotAvailable and nothing is written.
	ApplyXPEvent(ctx context.Context, event *domain.XPEvent, claimPeriod string) (oldTotal, newTotal int64, err error)
	GetTopUsers(ctx context.Context, limit int) ([]domain.UserProgress, error)
	GetRecentEvents(ctx context.Context, userID string, limit int) ([]domain.XPEvent, error)
	// PruneClaims deletes claim rows recorded before the cutoff
	PruneClaims(ctx context.Context, before time.Time) (int64, error)
}
