package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/XPEngine_Go/internal/domain"
)

// ProgressRepository implements repository.Progress for PostgreSQL
type ProgressRepository struct {
	db *pgxpool.Pool
}

// NewProgressRepository creates a new ProgressRepository
func NewProgressRepository(db *pgxpool.Pool) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// GetUserProgress returns the stored XP total for a user
func (r *ProgressRepository) GetUserProgress(ctx context.Context, userID string) (*domain.UserProgress, error) {
	query := `
		SELECT user_id, total_xp, created_at, updated_at
		FROM user_progress
		WHERE user_id = $1
	`

	var p domain.UserProgress
	err := r.db.QueryRow(ctx, query, userID).Scan(&p.UserID, &p.TotalXP, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetProgress, err)
	}
	return &p, nil
}

// CreateUserProgress inserts a zero-XP record. Existing records are returned unchanged.
func (r *ProgressRepository) CreateUserProgress(ctx context.Context, userID string) (*domain.UserProgress, error) {
	query := `
		INSERT INTO user_progress (user_id, total_xp)
		VALUES ($1, 0)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING user_id, total_xp, created_at, updated_at
	`

	var p domain.UserProgress
	err := r.db.QueryRow(ctx, query, userID).Scan(&p.UserID, &p.TotalXP, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToCreateProgress, err)
	}
	return &p, nil
}

// ApplyXPEvent increments total_xp, optionally records a claim and writes the audit row
func (r *ProgressRepository) ApplyXPEvent(ctx context.Context, event *domain.XPEvent, claimPeriod string) (int64, int64, error) {
	metadata, err := json.Marshal(event.Metadata)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to marshal xp metadata: %w", err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, err)
	}
	defer SafeRollback(ctx, tx)

	var newTotal int64
	err = tx.QueryRow(ctx, `
		UPDATE user_progress
		SET total_xp = total_xp + $2, updated_at = $3
		WHERE user_id = $1
		RETURNING total_xp
	`, event.UserID, event.Amount, event.RecordedAt).Scan(&newTotal)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, 0, domain.ErrUserNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == PgErrorCodeNumericOutOfRange {
			return 0, 0, fmt.Errorf("%w: total xp would overflow", domain.ErrInvalidInput)
		}
		return 0, 0, fmt.Errorf("%s: %w", ErrMsgFailedToIncrementXP, err)
	}

	if claimPeriod != "" {
		tag, err := tx.Exec(ctx, `
			INSERT INTO reward_claims (user_id, source, period_key, claimed_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT DO NOTHING
		`, event.UserID, string(event.Source), claimPeriod, event.RecordedAt)
		if err != nil {
			return 0, 0, fmt.Errorf("%s: %w", ErrMsgFailedToRecordClaim, err)
		}
		if tag.RowsAffected() == 0 {
			return 0, 0, domain.ErrClaimNotAvailable
		}
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO xp_events (event_id, user_id, source, amount, metadata, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, event.ID, event.UserID, string(event.Source), event.Amount, string(metadata), event.RecordedAt)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", ErrMsgFailedToRecordEvent, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, 0, fmt.Errorf("%s: %w", ErrMsgFailedToCommitTransaction, err)
	}

	return newTotal - event.Amount, newTotal, nil
}

// GetTopUsers returns users ordered by total XP, ties broken by user id
func (r *ProgressRepository) GetTopUsers(ctx context.Context, limit int) ([]domain.UserProgress, error) {
	query := `
		SELECT user_id, total_xp, created_at, updated_at
		FROM user_progress
		ORDER BY total_xp DESC, user_id ASC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToQueryTopUsers, err)
	}
	defer rows.Close()

	users := make([]domain.UserProgress, 0, limit)
	for rows.Next() {
		var p domain.UserProgress
		if err := rows.Scan(&p.UserID, &p.TotalXP, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user progress: %w", err)
		}
		users = append(users, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return users, nil
}

// GetRecentEvents returns the latest XP events for a user, newest first
func (r *ProgressRepository) GetRecentEvents(ctx context.Context, userID string, limit int) ([]domain.XPEvent, error) {
	query := `
		SELECT event_id, user_id, source, amount, metadata, recorded_at
		FROM xp_events
		WHERE user_id = $1
		ORDER BY recorded_at DESC, event_id DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToQueryEvents, err)
	}
	defer rows.Close()

	var events []domain.XPEvent
	for rows.Next() {
		var (
			evt      domain.XPEvent
			source   string
			metadata []byte
		)
		if err := rows.Scan(&evt.ID, &evt.UserID, &source, &evt.Amount, &metadata, &evt.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan xp event: %w", err)
		}
		evt.Source = domain.RewardSource(source)
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &evt.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal xp metadata: %w", err)
			}
		}
		events = append(events, evt)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return events, nil
}

// PruneClaims removes reward claims older than the cutoff
func (r *ProgressRepository) PruneClaims(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM reward_claims WHERE claimed_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("failed to prune reward claims: %w", err)
	}
	return tag.RowsAffected(), nil
}
