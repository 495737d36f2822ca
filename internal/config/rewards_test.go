package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/XPEngine_Go/internal/domain"
)

func TestLoadRewards_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadRewards(filepath.Join(t.TempDir(), "missing.yaml"))

	require.NoError(t, err)
	assert.Equal(t, DefaultRewardAmounts, cfg.Amounts)
	assert.Equal(t, int64(1), cfg.StreakMultiplier)
}

func TestLoadRewards_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rewards.yaml")
	content := `
version: 2
amounts:
  lesson_completed: 25
  weekly_claim: 500
streak_cap: 30
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadRewards(path)

	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Version)

	amount, ok := cfg.AmountFor(domain.SourceLessonCompleted)
	assert.True(t, ok)
	assert.Equal(t, int64(25), amount)

	amount, _ = cfg.AmountFor(domain.SourceWeeklyClaim)
	assert.Equal(t, int64(500), amount)

	// untouched sources keep their defaults
	amount, _ = cfg.AmountFor(domain.SourceTestCompleted)
	assert.Equal(t, DefaultRewardAmounts[domain.SourceTestCompleted], amount)
	assert.Equal(t, int64(30), cfg.StreakCap)
}

func TestLoadRewards_RepositoryFileParses(t *testing.T) {
	cfg, err := LoadRewards(filepath.Join("..", "..", ConfigPathRewards))

	require.NoError(t, err)
	for _, source := range domain.RewardSources {
		amount, ok := cfg.AmountFor(source)
		assert.True(t, ok, "missing amount for %s", source)
		assert.Positive(t, amount)
	}
}

func TestParseRewards_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{name: "unknown source", content: "amounts:\n  quiz_finished: 10\n", wantErr: domain.ErrUnknownRewardSource},
		{name: "zero amount", content: "amounts:\n  lesson_completed: 0\n"},
		{name: "negative amount", content: "amounts:\n  daily_claim: -5\n"},
		{name: "negative streak cap", content: "streak_cap: -1\n"},
		{name: "malformed yaml", content: "amounts: [1, 2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseRewards([]byte(tt.content))

			require.Error(t, err)
			assert.Nil(t, cfg)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestStreakAmount(t *testing.T) {
	cfg := DefaultRewards()

	assert.Equal(t, int64(5), cfg.StreakAmount(0))
	assert.Equal(t, int64(5), cfg.StreakAmount(1))
	assert.Equal(t, int64(35), cfg.StreakAmount(7))
	assert.Equal(t, int64(50), cfg.StreakAmount(30), "capped")
}
