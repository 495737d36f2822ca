package leveling

// Threshold formula: requiredXP(level) = round(10*level + 0.4*level^2).
// Kept in integer form as (LinearCoef*level + QuadraticCoef*level^2 + RoundingBias) / Divisor
// so every caller gets identical results without float drift.
const (
	LinearCoef    = 50
	QuadraticCoef = 2
	Divisor       = 5
	RoundingBias  = Divisor / 2
)

const (
	// MinLevel is the first level. There is no level 0.
	MinLevel = 1

	// DefaultMaxLevel bounds the level walk so resolution always terminates.
	DefaultMaxLevel = 10000

	// MaxSafeLevel is the largest bound whose cumulativeXP(bound+1) fits in an int64.
	// Above it the threshold walk overflows before reaching the cap.
	MaxSafeLevel = 4105023

	// MaxTableRows limits a single Thresholds call.
	MaxTableRows = 500
)

// Milestone tiers
const (
	TierNone  = ""
	TierMajor = "major"
	TierMinor = "minor"
)

// Milestone divisors, evaluated in this order
const (
	MajorMilestoneCentury = 100
	MajorMilestoneHalf    = 50
	MinorMilestoneStep    = 10
)
