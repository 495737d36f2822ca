package metrics

import (
	"context"

	"github.com/osse101/XPEngine_Go/internal/event"
	"github.com/osse101/XPEngine_Go/internal/logger"
)

// EventMetricsCollector subscribes to events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all progression events
func (e *EventMetricsCollector) Register(bus event.Bus) error {
	eventTypes := []event.Type{
		event.XPAwarded,
		event.LevelUp,
		event.MilestoneReached,
	}

	for _, eventType := range eventTypes {
		bus.Subscribe(eventType, e.HandleEvent)
	}

	return nil
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	switch evt.Type {
	case event.XPAwarded:
		payload, err := event.DecodePayload[event.XPAwardedPayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgPayloadDecodeFailed, "type", evt.Type, "error", err)
			return nil
		}
		XPAwarded.WithLabelValues(payload.Source).Add(float64(payload.XPGained))
		XPAwards.WithLabelValues(payload.Source).Inc()

	case event.LevelUp:
		payload, err := event.DecodePayload[event.LevelUpPayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgPayloadDecodeFailed, "type", evt.Type, "error", err)
			return nil
		}
		LevelUps.Inc()
		if payload.Capped {
			LevelCapReached.Inc()
		}

	case event.MilestoneReached:
		payload, err := event.DecodePayload[event.MilestoneReachedPayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgPayloadDecodeFailed, "type", evt.Type, "error", err)
			return nil
		}
		MilestonesReached.WithLabelValues(payload.Tier).Inc()
	}

	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}
