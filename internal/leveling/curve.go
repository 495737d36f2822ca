package leveling

import (
	"fmt"
	"math"

	"github.com/osse101/XPEngine_Go/internal/domain"
)

// Curve converts an accumulated XP total into levels and progress.
// A Curve holds no mutable state and is safe for concurrent use.
type Curve struct {
	maxLevel int
}

var defaultCurve = Curve{maxLevel: DefaultMaxLevel}

// DefaultCurve returns the curve bounded at DefaultMaxLevel
func DefaultCurve() Curve {
	return defaultCurve
}

// NewCurve creates a curve with a custom level bound in [MinLevel, MaxSafeLevel]
func NewCurve(maxLevel int) (Curve, error) {
	if maxLevel < MinLevel || maxLevel > MaxSafeLevel {
		return Curve{}, fmt.Errorf("%w: max level must be in [%d, %d], got %d",
			domain.ErrInvalidInput, MinLevel, MaxSafeLevel, maxLevel)
	}
	return Curve{maxLevel: maxLevel}, nil
}

// MaxLevel returns the configured level bound
func (c Curve) MaxLevel() int {
	if c.maxLevel < MinLevel {
		return DefaultMaxLevel
	}
	return c.maxLevel
}

// RequiredXP returns the XP cost to advance from level to level+1
func (c Curve) RequiredXP(level int) (int64, error) {
	if level < MinLevel {
		return 0, fmt.Errorf("%w: level must be at least %d, got %d", domain.ErrInvalidInput, MinLevel, level)
	}
	return requiredXP(level), nil
}

func requiredXP(level int) int64 {
	l := int64(level)
	return (LinearCoef*l + QuadraticCoef*l*l + RoundingBias) / Divisor
}

// Threshold returns the cost and starting total of one reachable level.
// Unlike RequiredXP it rejects levels past the cap with ErrLevelCapExceeded.
func (c Curve) Threshold(level int) (domain.Threshold, error) {
	rows, err := c.Thresholds(level, level)
	if err != nil {
		return domain.Threshold{}, err
	}
	return rows[0], nil
}

// CumulativeXP returns the total XP needed to reach level from zero,
// i.e. the sum of requiredXP over [1, level-1].
func (c Curve) CumulativeXP(level int) (int64, error) {
	if level < MinLevel {
		return 0, fmt.Errorf("%w: level must be at least %d, got %d", domain.ErrInvalidInput, MinLevel, level)
	}
	if level > c.MaxLevel()+1 {
		return 0, fmt.Errorf("%w: level %d is beyond max level %d", domain.ErrLevelCapExceeded, level, c.MaxLevel())
	}
	return cumulativeXP(level), nil
}

func cumulativeXP(level int) int64 {
	var total int64
	for i := MinLevel; i < level; i++ {
		total += requiredXP(i)
	}
	return total
}

// LevelFromXP walks the thresholds from level 1 and returns the level the
// total falls into. Totals beyond the max level return the max level flagged
// as capped.
func (c Curve) LevelFromXP(totalXP int64) (domain.Resolution, error) {
	level, _, capped, err := c.resolve(totalXP)
	if err != nil {
		return domain.Resolution{}, err
	}
	return domain.Resolution{TotalXP: totalXP, Level: level, Capped: capped}, nil
}

// resolve returns the level together with the cumulative XP at its start
func (c Curve) resolve(totalXP int64) (level int, cumulative int64, capped bool, err error) {
	if totalXP < 0 {
		return 0, 0, false, fmt.Errorf("%w: total XP must be non-negative, got %d", domain.ErrInvalidInput, totalXP)
	}

	maxLevel := c.MaxLevel()
	for level = MinLevel; level <= maxLevel; level++ {
		required := requiredXP(level)
		if cumulative+required > totalXP {
			return level, cumulative, false, nil
		}
		if level == maxLevel {
			break
		}
		cumulative += required
	}

	return maxLevel, cumulative, true, nil
}

// Progress builds the read-only snapshot for a total
func (c Curve) Progress(totalXP int64) (domain.Snapshot, error) {
	level, cumulative, capped, err := c.resolve(totalXP)
	if err != nil {
		return domain.Snapshot{}, err
	}

	into := totalXP - cumulative
	if into < 0 {
		return domain.Snapshot{}, fmt.Errorf("%w: xp into level %d is %d for total %d",
			domain.ErrInternalInconsistency, level, into, totalXP)
	}

	required := requiredXP(level)
	return domain.Snapshot{
		TotalXP:                totalXP,
		CurrentLevel:           level,
		XPIntoCurrentLevel:     into,
		XPRequiredForNextLevel: required,
		ProgressPercentage:     percentage(into, required),
		Capped:                 capped,
	}, nil
}

func percentage(into, required int64) int {
	if required <= 0 {
		return 0
	}
	pct := int(math.Round(100 * float64(into) / float64(required)))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// Thresholds lists requiredXP and cumulativeXP for levels in [from, to]
func (c Curve) Thresholds(from, to int) ([]domain.Threshold, error) {
	if from < MinLevel || to < from {
		return nil, fmt.Errorf("%w: invalid level range [%d, %d]", domain.ErrInvalidInput, from, to)
	}
	if to-from+1 > MaxTableRows {
		return nil, fmt.Errorf("%w: range spans more than %d levels", domain.ErrInvalidInput, MaxTableRows)
	}
	if to > c.MaxLevel() {
		return nil, fmt.Errorf("%w: level %d is beyond max level %d", domain.ErrLevelCapExceeded, to, c.MaxLevel())
	}

	rows := make([]domain.Threshold, 0, to-from+1)
	cumulative := cumulativeXP(from)
	for level := from; level <= to; level++ {
		required := requiredXP(level)
		rows = append(rows, domain.Threshold{
			Level:        level,
			RequiredXP:   required,
			CumulativeXP: cumulative,
			Milestone:    ClassifyMilestone(level),
		})
		cumulative += required
	}
	return rows, nil
}
