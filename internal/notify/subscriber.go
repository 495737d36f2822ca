package notify

import (
	"context"
	"fmt"

	"github.com/osse101/XPEngine_Go/internal/event"
	"github.com/osse101/XPEngine_Go/internal/logger"
	"github.com/osse101/XPEngine_Go/internal/metrics"
	"github.com/osse101/XPEngine_Go/internal/worker"
)

// Enqueuer accepts background jobs. *worker.Pool satisfies it.
type Enqueuer interface {
	Enqueue(job worker.Job) bool
}

// Subscriber listens for progression events and queues celebrations on the worker pool
// so slow webhooks never block the award path.
type Subscriber struct {
	notifier Notifier
	queue    Enqueuer
}

// NewSubscriber creates a new Subscriber
func NewSubscriber(notifier Notifier, queue Enqueuer) *Subscriber {
	return &Subscriber{notifier: notifier, queue: queue}
}

// Register subscribes to milestone and level-up events
func (s *Subscriber) Register(bus event.Bus) {
	bus.Subscribe(event.MilestoneReached, s.HandleMilestone)
	bus.Subscribe(event.LevelUp, s.HandleLevelUp)
}

// HandleMilestone queues a milestone celebration
func (s *Subscriber) HandleMilestone(ctx context.Context, evt event.Event) error {
	payload, err := event.DecodePayload[event.MilestoneReachedPayloadV1](evt.Payload)
	if err != nil {
		metrics.EventHandlerErrors.WithLabelValues(string(evt.Type)).Inc()
		return fmt.Errorf("failed to decode milestone payload: %w", err)
	}

	s.enqueue(ctx, Celebration{
		Kind:   KindMilestone,
		UserID: payload.UserID,
		Level:  payload.Level,
		Tier:   payload.Tier,
		Source: payload.Source,
	})
	return nil
}

// HandleLevelUp queues a celebration only when the user hits the maximum level
func (s *Subscriber) HandleLevelUp(ctx context.Context, evt event.Event) error {
	payload, err := event.DecodePayload[event.LevelUpPayloadV1](evt.Payload)
	if err != nil {
		metrics.EventHandlerErrors.WithLabelValues(string(evt.Type)).Inc()
		return fmt.Errorf("failed to decode level up payload: %w", err)
	}
	if !payload.Capped {
		return nil
	}

	s.enqueue(ctx, Celebration{
		Kind:    KindMaxLevel,
		UserID:  payload.UserID,
		Level:   payload.NewLevel,
		TotalXP: payload.TotalXP,
		Source:  payload.Source,
	})
	return nil
}

func (s *Subscriber) enqueue(ctx context.Context, c Celebration) {
	if !s.queue.Enqueue(&celebrationJob{notifier: s.notifier, celebration: c}) {
		logger.FromContext(ctx).Warn(LogMsgCelebrationDropped, "user_id", c.UserID, "level", c.Level)
	}
}

// celebrationJob delivers one celebration from a worker goroutine
type celebrationJob struct {
	notifier    Notifier
	celebration Celebration
}

func (j *celebrationJob) Name() string {
	return "celebration"
}

func (j *celebrationJob) Process(ctx context.Context) error {
	if err := j.notifier.Notify(ctx, j.celebration); err != nil {
		metrics.EventHandlerErrors.WithLabelValues(string(j.celebration.Kind)).Inc()
		return err
	}
	return nil
}
