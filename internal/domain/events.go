package domain

// Event type constants used across the application for event bus subscriptions
// and metrics tracking.
//
// Event types follow the pattern: <entity>.<action>
const (
	// EventTypeXPAwarded is published after every successful XP grant
	EventTypeXPAwarded = "xp.awarded"

	// EventTypeLevelUp is published when a grant moves a user to a higher level
	EventTypeLevelUp = "level.up"

	// EventTypeMilestoneReached is published once per milestone level crossed
	EventTypeMilestoneReached = "level.milestone"
)

// EventMetadata is attached to progression events
type EventMetadata struct {
	Source string `json:"source,omitempty"`
}
