package leveling

import "github.com/osse101/XPEngine_Go/internal/domain"

// ClassifyMilestone decides whether reaching level deserves a celebration.
// It has no bearing on XP arithmetic.
func ClassifyMilestone(level int) domain.Milestone {
	switch {
	case level < MinLevel:
		return domain.Milestone{Level: level}
	case level%MajorMilestoneCentury == 0:
		return domain.Milestone{Level: level, IsMilestone: true, Tier: TierMajor}
	case level%MajorMilestoneHalf == 0:
		return domain.Milestone{Level: level, IsMilestone: true, Tier: TierMajor}
	case level%MinorMilestoneStep == 0:
		return domain.Milestone{Level: level, IsMilestone: true, Tier: TierMinor}
	default:
		return domain.Milestone{Level: level}
	}
}

// MilestonesCrossed returns the milestones in (oldLevel, newLevel], lowest first
func MilestonesCrossed(oldLevel, newLevel int) []domain.Milestone {
	if newLevel <= oldLevel {
		return nil
	}
	if oldLevel < MinLevel-1 {
		oldLevel = MinLevel - 1
	}

	var crossed []domain.Milestone
	// Every milestone is a multiple of the minor step, so only those need checking
	first := (oldLevel/MinorMilestoneStep + 1) * MinorMilestoneStep
	for level := first; level <= newLevel; level += MinorMilestoneStep {
		if m := ClassifyMilestone(level); m.IsMilestone {
			crossed = append(crossed, m)
		}
	}
	return crossed
}
