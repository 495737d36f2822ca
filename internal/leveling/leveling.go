// Package leveling is the XP/Level engine. Every function is a pure transform
// of its arguments; persistence of XP totals lives with the caller.
package leveling

import "github.com/osse101/XPEngine_Go/internal/domain"

// RequiredXP returns the XP cost of completing level on the default curve
func RequiredXP(level int) (int64, error) {
	return defaultCurve.RequiredXP(level)
}

// CumulativeXP returns the XP needed to reach level on the default curve
func CumulativeXP(level int) (int64, error) {
	return defaultCurve.CumulativeXP(level)
}

// LevelFromXP resolves a total on the default curve
func LevelFromXP(totalXP int64) (domain.Resolution, error) {
	return defaultCurve.LevelFromXP(totalXP)
}

// Progress builds a snapshot on the default curve
func Progress(totalXP int64) (domain.Snapshot, error) {
	return defaultCurve.Progress(totalXP)
}
