// Package progress owns each user's experience total: it persists grants,
// enforces claim windows and derives level views with the leveling engine.
package progress

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/XPEngine_Go/internal/config"
	"github.com/osse101/XPEngine_Go/internal/domain"
	"github.com/osse101/XPEngine_Go/internal/event"
	"github.com/osse101/XPEngine_Go/internal/leveling"
	"github.com/osse101/XPEngine_Go/internal/logger"
	"github.com/osse101/XPEngine_Go/internal/metrics"
	"github.com/osse101/XPEngine_Go/internal/repository"
)

// Publisher delivers domain events. *event.ResilientPublisher satisfies it.
type Publisher interface {
	PublishWithRetry(ctx context.Context, evt event.Event)
	Shutdown(ctx context.Context) error
}

// Service defines the progression business logic
type Service interface {
	AwardXP(ctx context.Context, userID string, source domain.RewardSource, amount int64, metadata domain.XPMetadata) (*domain.XPAwardResult, error)
	GetProgress(ctx context.Context, userID string) (*domain.ProgressView, error)
	EnsureUser(ctx context.Context, userID string) (*domain.ProgressView, error)
	GetHistory(ctx context.Context, userID string, limit int) ([]domain.XPEvent, error)
	GetLeaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
	RefreshLeaderboard(ctx context.Context) error
	PruneClaims(ctx context.Context, before time.Time) (int64, error)
	Shutdown(ctx context.Context) error
}

// Options tunes a Service. Zero values fall back to the package defaults;
// the zero Curve behaves like leveling.DefaultCurve().
type Options struct {
	Curve           leveling.Curve
	Rewards         *config.RewardsConfig
	CacheSize       int
	CacheTTL        time.Duration
	LeaderboardSize int
	Clock           func() time.Time
}

type leaderboardSnapshot struct {
	entries     []domain.LeaderboardEntry
	refreshedAt time.Time
}

type service struct {
	repo            repository.Progress
	publisher       Publisher
	curve           leveling.Curve
	rewards         *config.RewardsConfig
	cache           *progressCache
	leaderboardSize int
	leaderboard     atomic.Pointer[leaderboardSnapshot]
	now             func() time.Time
}

// NewService creates a new progress service
func NewService(repo repository.Progress, publisher Publisher, opts Options) Service {
	if opts.Rewards == nil {
		opts.Rewards = config.DefaultRewards()
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = DefaultCacheSize
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	if opts.LeaderboardSize <= 0 {
		opts.LeaderboardSize = DefaultLeaderboardSize
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	return &service{
		repo:            repo,
		publisher:       publisher,
		curve:           opts.Curve,
		rewards:         opts.Rewards,
		cache:           newProgressCache(opts.CacheSize, opts.CacheTTL),
		leaderboardSize: opts.LeaderboardSize,
		now:             opts.Clock,
	}
}

// AwardXP grants XP for a reward event. An amount of 0 uses the configured default for the source.
func (s *service) AwardXP(ctx context.Context, userID string, source domain.RewardSource, amount int64, metadata domain.XPMetadata) (*domain.XPAwardResult, error) {
	log := logger.FromContext(ctx)

	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	if !source.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownRewardSource, source)
	}

	amount, err := s.resolveAmount(source, amount, metadata)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	xpEvent := &domain.XPEvent{
		ID:         uuid.Must(uuid.NewV7()),
		UserID:     userID,
		Source:     source,
		Amount:     amount,
		Metadata:   metadata,
		RecordedAt: now,
	}

	oldTotal, newTotal, err := s.repo.ApplyXPEvent(ctx, xpEvent, ClaimPeriod(source, now))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrClaimNotAvailable):
			metrics.ClaimsRejected.WithLabelValues(string(source)).Inc()
			log.Info(LogMsgClaimRejected, "user_id", userID, "source", source)
		case errors.Is(err, domain.ErrUserNotFound):
			// the row is gone, so any cached total for it is stale
			s.cache.Invalidate(userID)
		}
		return nil, fmt.Errorf("failed to apply xp for user %s: %w", userID, err)
	}

	oldRes, err := s.curve.LevelFromXP(oldTotal)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve previous level: %w", err)
	}
	newRes, err := s.curve.LevelFromXP(newTotal)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve new level: %w", err)
	}

	if !s.cache.Set(&domain.UserProgress{UserID: userID, TotalXP: newTotal, UpdatedAt: now}) {
		log.Debug(LogMsgStaleCacheWrite, "user_id", userID, "total_xp", newTotal)
	}

	result := &domain.XPAwardResult{
		UserID:     userID,
		Source:     source,
		XPGained:   amount,
		TotalXP:    newTotal,
		OldLevel:   oldRes.Level,
		NewLevel:   newRes.Level,
		LeveledUp:  newRes.Level > oldRes.Level,
		Capped:     newRes.Capped,
		Milestones: leveling.MilestonesCrossed(oldRes.Level, newRes.Level),
	}

	log.Info(LogMsgXPAwarded, "user_id", userID, "source", source, "amount", amount, "total_xp", newTotal)
	s.publishAwardEvents(ctx, result, oldRes.Capped)

	return result, nil
}

func (s *service) resolveAmount(source domain.RewardSource, amount int64, metadata domain.XPMetadata) (int64, error) {
	if amount < 0 {
		return 0, fmt.Errorf("%w: amount must not be negative", domain.ErrInvalidInput)
	}
	if amount > MaxAwardAmount {
		return 0, fmt.Errorf("%w: amount exceeds %d", domain.ErrInvalidInput, MaxAwardAmount)
	}
	if amount > 0 {
		return amount, nil
	}

	if source == domain.SourceStreakBonus {
		return s.rewards.StreakAmount(metadata.StreakDay), nil
	}
	configured, ok := s.rewards.AmountFor(source)
	if !ok || configured <= 0 {
		return 0, fmt.Errorf("%w: no default amount for %s", domain.ErrInvalidInput, source)
	}
	return configured, nil
}

func (s *service) publishAwardEvents(ctx context.Context, result *domain.XPAwardResult, wasCapped bool) {
	log := logger.FromContext(ctx)
	source := string(result.Source)

	if s.publisher == nil {
		return
	}

	s.publisher.PublishWithRetry(ctx, event.NewXPAwardedEvent(result.UserID, source, result.XPGained, result.TotalXP))

	if result.LeveledUp {
		log.Info(LogMsgLevelUp, "user_id", result.UserID, "old_level", result.OldLevel, "new_level", result.NewLevel)
		s.publisher.PublishWithRetry(ctx, event.NewLevelUpEvent(result.UserID, result.OldLevel, result.NewLevel, result.TotalXP, result.Capped, source))
	}
	if result.Capped && !wasCapped {
		log.Warn(LogMsgLevelCapReached, "user_id", result.UserID, "max_level", s.curve.MaxLevel(), "total_xp", result.TotalXP)
	}

	for _, m := range result.Milestones {
		log.Info(LogMsgMilestoneReached, "user_id", result.UserID, "level", m.Level, "tier", m.Tier)
		s.publisher.PublishWithRetry(ctx, event.NewMilestoneReachedEvent(result.UserID, m, source))
	}
}

// GetProgress returns the level view for a user, served from cache when possible
func (s *service) GetProgress(ctx context.Context, userID string) (*domain.ProgressView, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}

	p, ok := s.cache.Get(userID)
	if !ok {
		var err error
		p, err = s.repo.GetUserProgress(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to get progress for user %s: %w", userID, err)
		}
		s.cache.Set(p)
	}

	return s.buildView(p)
}

// EnsureUser registers a user at 0 XP. Existing users are returned unchanged.
func (s *service) EnsureUser(ctx context.Context, userID string) (*domain.ProgressView, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}

	p, err := s.repo.CreateUserProgress(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to register user %s: %w", userID, err)
	}
	s.cache.Set(p)
	logger.FromContext(ctx).Info(LogMsgUserRegistered, "user_id", userID, "total_xp", p.TotalXP)

	return s.buildView(p)
}

func (s *service) buildView(p *domain.UserProgress) (*domain.ProgressView, error) {
	snapshot, err := s.curve.Progress(p.TotalXP)
	if err != nil {
		return nil, fmt.Errorf("failed to compute progress for user %s: %w", p.UserID, err)
	}
	return &domain.ProgressView{
		UserID:        p.UserID,
		Snapshot:      snapshot,
		Milestone:     leveling.ClassifyMilestone(snapshot.CurrentLevel),
		XPToNextLevel: snapshot.XPToNextLevel(),
		UpdatedAt:     p.UpdatedAt,
	}, nil
}

// GetHistory returns the user's most recent XP events
func (s *service) GetHistory(ctx context.Context, userID string, limit int) ([]domain.XPEvent, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	switch {
	case limit == 0:
		limit = DefaultHistoryLimit
	case limit < 0 || limit > MaxHistoryLimit:
		return nil, fmt.Errorf("%w: limit must be between 1 and %d", domain.ErrInvalidInput, MaxHistoryLimit)
	}

	if _, err := s.GetProgress(ctx, userID); err != nil {
		return nil, err
	}

	events, err := s.repo.GetRecentEvents(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get history for user %s: %w", userID, err)
	}
	if events == nil {
		events = []domain.XPEvent{}
	}
	return events, nil
}

// GetLeaderboard returns up to limit entries from the cached leaderboard.
// A limit of 0 returns the full cached board.
func (s *service) GetLeaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	if limit < 0 {
		return nil, fmt.Errorf("%w: limit must not be negative", domain.ErrInvalidInput)
	}
	if limit == 0 || limit > s.leaderboardSize {
		limit = s.leaderboardSize
	}

	snap := s.leaderboard.Load()
	if snap == nil {
		if err := s.RefreshLeaderboard(ctx); err != nil {
			return nil, err
		}
		snap = s.leaderboard.Load()
	}

	if limit > len(snap.entries) {
		limit = len(snap.entries)
	}
	out := make([]domain.LeaderboardEntry, limit)
	copy(out, snap.entries[:limit])
	return out, nil
}

// RefreshLeaderboard rebuilds the cached top-N board from the repository
func (s *service) RefreshLeaderboard(ctx context.Context) error {
	users, err := s.repo.GetTopUsers(ctx, s.leaderboardSize)
	if err != nil {
		return fmt.Errorf("failed to refresh leaderboard: %w", err)
	}

	entries := make([]domain.LeaderboardEntry, 0, len(users))
	for i, u := range users {
		res, err := s.curve.LevelFromXP(u.TotalXP)
		if err != nil {
			return fmt.Errorf("failed to resolve level for user %s: %w", u.UserID, err)
		}
		entries = append(entries, domain.LeaderboardEntry{
			Rank:    i + 1,
			UserID:  u.UserID,
			TotalXP: u.TotalXP,
			Level:   res.Level,
		})
	}

	s.leaderboard.Store(&leaderboardSnapshot{entries: entries, refreshedAt: s.now()})
	logger.FromContext(ctx).Debug(LogMsgLeaderboardRefreshed, "entries", len(entries))
	return nil
}

// PruneClaims removes claim bookkeeping older than the cutoff
func (s *service) PruneClaims(ctx context.Context, before time.Time) (int64, error) {
	removed, err := s.repo.PruneClaims(ctx, before)
	if err != nil {
		return 0, fmt.Errorf("failed to prune claims: %w", err)
	}
	return removed, nil
}

// Shutdown gracefully shuts down the progress service
func (s *service) Shutdown(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Info(LogMsgServiceShuttingDown)

	if s.publisher != nil {
		if err := s.publisher.Shutdown(ctx); err != nil {
			log.Error(LogMsgServiceShutdownFailed, "error", err)
			return err
		}
	}

	s.cache.Clear()
	log.Info(LogMsgServiceShutdown)
	return nil
}

// ClaimPeriod returns the period key a claim source is limited to, or "" for
// sources that can be granted any number of times.
// Daily claims reset at 00:00 UTC, weekly claims on ISO week boundaries.
func ClaimPeriod(source domain.RewardSource, at time.Time) string {
	at = at.UTC()
	switch source {
	case domain.SourceDailyClaim:
		return at.Format(DailyPeriodLayout)
	case domain.SourceWeeklyClaim:
		year, week := at.ISOWeek()
		return fmt.Sprintf(WeeklyPeriodFormat, year, week)
	default:
		return ""
	}
}

func validateUserID(userID string) error {
	trimmed := strings.TrimSpace(userID)
	if trimmed == "" {
		return fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}
	if trimmed != userID || len(userID) > MaxUserIDLength {
		return fmt.Errorf("%w: malformed user id", domain.ErrInvalidInput)
	}
	return nil
}
