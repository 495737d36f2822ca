package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/XPEngine_Go/internal/config"
	"github.com/osse101/XPEngine_Go/internal/database"
	"github.com/osse101/XPEngine_Go/internal/leveling"
)

// LoadRewards reads the reward table named by the config.
// A missing file falls back to the built-in amounts.
func LoadRewards(cfg *config.Config) (*config.RewardsConfig, error) {
	slog.Info(LogMsgLoadingRewards, "path", cfg.RewardsFile)

	rewards, err := config.LoadRewards(cfg.RewardsFile)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedLoadRewards, err)
	}

	slog.Info(LogMsgRewardsLoaded,
		"version", rewards.Version,
		"sources", len(rewards.Amounts),
		"streak_multiplier", rewards.StreakMultiplier,
		"streak_cap", rewards.StreakCap)

	return rewards, nil
}

// BuildCurve returns the leveling curve bounded by the configured max level
func BuildCurve(cfg *config.Config) (leveling.Curve, error) {
	curve, err := leveling.NewCurve(cfg.MaxLevel)
	if err != nil {
		return leveling.Curve{}, fmt.Errorf("%s: %w", ErrMsgInvalidMaxLevel, err)
	}
	return curve, nil
}

// MigrateDatabase applies the embedded schema migrations
func MigrateDatabase(ctx context.Context, dbPool *pgxpool.Pool) error {
	slog.Info(LogMsgRunningMigration)
	if err := database.Migrate(ctx, dbPool); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedMigrate, err)
	}
	return nil
}
