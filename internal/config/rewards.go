package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/osse101/XPEngine_Go/internal/domain"
)

// DefaultRewardAmounts is used for any source the rewards file leaves out
var DefaultRewardAmounts = map[domain.RewardSource]int64{
	domain.SourceLessonCompleted: 15,
	domain.SourceTestCompleted:   40,
	domain.SourceStreakBonus:     5,
	domain.SourceDailyClaim:      20,
	domain.SourceWeeklyClaim:     100,
}

// RewardsConfig is the parsed form of configs/rewards.yaml
type RewardsConfig struct {
	Version int                           `yaml:"version"`
	Amounts map[domain.RewardSource]int64 `yaml:"amounts"`

	// StreakMultiplier scales streak_bonus by the streak day carried in metadata
	StreakMultiplier int64 `yaml:"streak_multiplier"`
	// StreakCap bounds the multiplied streak bonus. Zero means unbounded.
	StreakCap        int64 `yaml:"streak_cap"`
}

// DefaultRewards returns the built-in reward table
func DefaultRewards() *RewardsConfig {
	amounts := make(map[domain.RewardSource]int64, len(DefaultRewardAmounts))
	for k, v := range DefaultRewardAmounts {
		amounts[k] = v
	}
	return &RewardsConfig{
		Version:          1,
		Amounts:          amounts,
		StreakMultiplier: 1,
		StreakCap:        50,
	}
}

// LoadRewards reads the reward table from path. A missing file yields the defaults.
func LoadRewards(path string) (*RewardsConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultRewards(), nil
		}
		return nil, fmt.Errorf("failed to read rewards file %s: %w", path, err)
	}
	return ParseRewards(data)
}

// ParseRewards decodes YAML and fills gaps from the defaults
func ParseRewards(data []byte) (*RewardsConfig, error) {
	cfg := DefaultRewards()
	parsed := RewardsConfig{}
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse rewards config: %w", err)
	}

	if parsed.Version != 0 {
		cfg.Version = parsed.Version
	}
	for source, amount := range parsed.Amounts {
		if !source.Valid() {
			return nil, fmt.Errorf("%w: %q", domain.ErrUnknownRewardSource, source)
		}
		if amount <= 0 {
			return nil, fmt.Errorf("reward amount for %s must be positive, got %d", source, amount)
		}
		cfg.Amounts[source] = amount
	}
	if parsed.StreakMultiplier < 0 || parsed.StreakCap < 0 {
		return nil, fmt.Errorf("streak settings must not be negative")
	}
	if parsed.StreakMultiplier > 0 {
		cfg.StreakMultiplier = parsed.StreakMultiplier
	}
	if parsed.StreakCap > 0 {
		cfg.StreakCap = parsed.StreakCap
	}
	return cfg, nil
}

// AmountFor returns the configured amount for a reward source
func (r *RewardsConfig) AmountFor(source domain.RewardSource) (int64, bool) {
	amount, ok := r.Amounts[source]
	return amount, ok
}

// StreakAmount returns the streak bonus for the given streak day
func (r *RewardsConfig) StreakAmount(streakDay int) int64 {
	base := r.Amounts[domain.SourceStreakBonus]
	if streakDay < 1 {
		return base
	}
	amount := base * r.StreakMultiplier * int64(streakDay)
	if r.StreakCap > 0 && amount > r.StreakCap {
		return r.StreakCap
	}
	return amount
}
