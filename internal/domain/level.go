package domain

// Resolution is the level a total XP maps to
type Resolution struct {
	TotalXP int64 `json:"total_xp"`
	Level   int   `json:"level"`
	Capped  bool  `json:"capped"` // total reaches past the max level
}

// Err returns ErrLevelCapExceeded for capped resolutions
func (r Resolution) Err() error {
	if r.Capped {
		return ErrLevelCapExceeded
	}
	return nil
}

// Snapshot is a read-only progress view derived from a total XP.
// It is always recomputed and never persisted.
type Snapshot struct {
	TotalXP                int64 `json:"total_xp"`
	CurrentLevel           int   `json:"current_level"`
	XPIntoCurrentLevel     int64 `json:"xp_into_current_level"`
	XPRequiredForNextLevel int64 `json:"xp_required_for_next_level"`
	ProgressPercentage     int   `json:"progress_percentage"`
	Capped                 bool  `json:"capped"`
}

// XPToNextLevel returns how much XP is still missing for the next level
func (s Snapshot) XPToNextLevel() int64 {
	remaining := s.XPRequiredForNextLevel - s.XPIntoCurrentLevel
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Milestone classifies a level for celebratory notifications
type Milestone struct {
	Level       int    `json:"level"`
	IsMilestone bool   `json:"is_milestone"`
	Tier        string `json:"tier,omitempty"` // "major", "minor"
}

// Threshold is one row of the level table
type Threshold struct {
	Level        int       `json:"level"`
	RequiredXP   int64     `json:"required_xp"`
	CumulativeXP int64     `json:"cumulative_xp"`
	Milestone    Milestone `json:"milestone"`
}
