package domain

import (
	"time"

	"github.com/google/uuid"
)

// RewardSource identifies the event that granted XP
type RewardSource string

// Reward-granting events
const (
	SourceLessonCompleted RewardSource = "lesson_completed"
	SourceTestCompleted   RewardSource = "test_completed"
	SourceStreakBonus     RewardSource = "streak_bonus"
	SourceDailyClaim      RewardSource = "daily_claim"
	SourceWeeklyClaim     RewardSource = "weekly_claim"
)

// RewardSources lists every valid source
var RewardSources = []RewardSource{
	SourceLessonCompleted,
	SourceTestCompleted,
	SourceStreakBonus,
	SourceDailyClaim,
	SourceWeeklyClaim,
}

// Valid reports whether s is a known reward source
func (s RewardSource) Valid() bool {
	for _, known := range RewardSources {
		if s == known {
			return true
		}
	}
	return false
}

// IsClaim reports whether the source is limited to one grant per period
func (s RewardSource) IsClaim() bool {
	return s == SourceDailyClaim || s == SourceWeeklyClaim
}

// UserProgress owns a user's ExperienceTotal
type UserProgress struct {
	UserID    string    `json:"user_id"`
	TotalXP   int64     `json:"total_xp"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// XPMetadata carries structured context about a reward
type XPMetadata struct {
	LessonID  string                 `json:"lesson_id,omitempty"`
	TestID    string                 `json:"test_id,omitempty"`
	Score     int                    `json:"score,omitempty"`
	StreakDay int                    `json:"streak_day,omitempty"`
	Extras    map[string]interface{} `json:"extras,omitempty"`
}

// XPEvent records an XP grant for auditing
type XPEvent struct {
	ID         uuid.UUID    `json:"id"`
	UserID     string       `json:"user_id"`
	Source     RewardSource `json:"source"`
	Amount     int64        `json:"amount"`
	Metadata   XPMetadata   `json:"metadata"`
	RecordedAt time.Time    `json:"recorded_at"`
}

// XPAwardResult contains the outcome of awarding XP
type XPAwardResult struct {
	UserID     string       `json:"user_id"`
	Source     RewardSource `json:"source"`
	XPGained   int64        `json:"xp_gained"`
	TotalXP    int64        `json:"total_xp"`
	OldLevel   int          `json:"old_level"`
	NewLevel   int          `json:"new_level"`
	LeveledUp  bool         `json:"leveled_up"`
	Capped     bool         `json:"capped"`
	Milestones []Milestone  `json:"milestones,omitempty"`
}

// ProgressView combines a user with their snapshot for API responses
type ProgressView struct {
	UserID        string    `json:"user_id"`
	Snapshot      Snapshot  `json:"progress"`
	Milestone     Milestone `json:"milestone"`
	XPToNextLevel int64     `json:"xp_to_next_level"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// LeaderboardEntry is one row of the XP leaderboard
type LeaderboardEntry struct {
	Rank    int    `json:"rank"`
	UserID  string `json:"user_id"`
	TotalXP int64  `json:"total_xp"`
	Level   int    `json:"level"`
}
