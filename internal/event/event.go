package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/osse101/XPEngine_Go/internal/domain"
)

// Type represents the type of an event
type Type string

// Metadata defines the type for event metadata
type Metadata interface{}

// Event represents a generic event in the system
type Event struct {
	Version  string      `json:"version"` // Event schema version (e.g., "1.0")
	Type     Type        `json:"type"`
	Payload  interface{} `json:"payload"`
	Metadata Metadata    `json:"metadata"`
}

// GetMetadataValue extracts a value from the event metadata safely
func (e Event) GetMetadataValue(key string) interface{} {
	if e.Metadata == nil {
		return nil
	}

	if m, ok := e.Metadata.(map[string]interface{}); ok {
		return m[key]
	}

	if m, ok := e.Metadata.(domain.EventMetadata); ok {
		if key == "source" {
			return m.Source
		}
	}

	return nil
}

// Progression event types
const (
	XPAwarded        Type = domain.EventTypeXPAwarded
	LevelUp          Type = domain.EventTypeLevelUp
	MilestoneReached Type = domain.EventTypeMilestoneReached
)

// XPAwardedPayloadV1 is the typed payload for XP grant events
type XPAwardedPayloadV1 struct {
	UserID   string `json:"user_id"`
	Source   string `json:"source"`
	XPGained int64  `json:"xp_gained"`
	TotalXP  int64  `json:"total_xp"`
}

// LevelUpPayloadV1 is the typed payload for level up events
type LevelUpPayloadV1 struct {
	UserID   string `json:"user_id"`
	OldLevel int    `json:"old_level"`
	NewLevel int    `json:"new_level"`
	TotalXP  int64  `json:"total_xp"`
	Capped   bool   `json:"capped,omitempty"`
	Source   string `json:"source,omitempty"`
}

// MilestoneReachedPayloadV1 is the typed payload for milestone events
type MilestoneReachedPayloadV1 struct {
	UserID string `json:"user_id"`
	Level  int    `json:"level"`
	Tier   string `json:"tier"`
	Source string `json:"source,omitempty"`
}

// NewXPAwardedEvent creates a new XP awarded event
func NewXPAwardedEvent(userID, source string, xpGained, totalXP int64) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    XPAwarded,
		Payload: XPAwardedPayloadV1{
			UserID:   userID,
			Source:   source,
			XPGained: xpGained,
			TotalXP:  totalXP,
		},
		Metadata: domain.EventMetadata{Source: source},
	}
}

// NewLevelUpEvent creates a new level up event
func NewLevelUpEvent(userID string, oldLevel, newLevel int, totalXP int64, capped bool, source string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    LevelUp,
		Payload: LevelUpPayloadV1{
			UserID:   userID,
			OldLevel: oldLevel,
			NewLevel: newLevel,
			TotalXP:  totalXP,
			Capped:   capped,
			Source:   source,
		},
		Metadata: domain.EventMetadata{Source: source},
	}
}

// NewMilestoneReachedEvent creates a new milestone event
func NewMilestoneReachedEvent(userID string, milestone domain.Milestone, source string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    MilestoneReached,
		Payload: MilestoneReachedPayloadV1{
			UserID: userID,
			Level:  milestone.Level,
			Tier:   milestone.Tier,
			Source: source,
		},
		Metadata: map[string]interface{}{
			"source":     source,
			"emitted_at": time.Now().UTC().Unix(),
		},
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers.
// Handlers run synchronously; slow work should be handed to the worker pool.
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers, ok := b.handlers[event.Type]
	b.mu.RUnlock()

	if !ok {
		return nil
	}

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
