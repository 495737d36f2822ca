package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/osse101/XPEngine_Go/internal/config"
	"github.com/osse101/XPEngine_Go/internal/event"
	"github.com/osse101/XPEngine_Go/internal/metrics"
	"github.com/osse101/XPEngine_Go/internal/notify"
)

// EventHandlerDependencies holds the dependencies needed for event handler registration.
type EventHandlerDependencies struct {
	EventBus event.Bus
	Queue    notify.Enqueuer
	Config   *config.Config

	// Notifier overrides the notifier chosen from config; used by tests
	Notifier notify.Notifier
}

// RegisterEventHandlers sets up the metrics collector and the celebration subscriber.
// Celebrations go to Discord when a webhook is configured and to the log otherwise.
func RegisterEventHandlers(deps EventHandlerDependencies) error {
	metricsCollector := metrics.NewEventMetricsCollector()
	if err := metricsCollector.Register(deps.EventBus); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedRegisterMetrics, err)
	}
	slog.Info(LogMsgMetricsCollectorRegistered)

	notifier, kind, err := selectNotifier(deps)
	if err != nil {
		return err
	}
	notify.NewSubscriber(notifier, deps.Queue).Register(deps.EventBus)
	slog.Info(LogMsgNotifierRegistered, "notifier", kind)

	return nil
}

func selectNotifier(deps EventHandlerDependencies) (notify.Notifier, string, error) {
	if deps.Notifier != nil {
		return deps.Notifier, "custom", nil
	}
	if deps.Config != nil && deps.Config.NotificationsEnabled() {
		n, err := notify.NewDiscordWebhookNotifier(deps.Config.DiscordWebhookID, deps.Config.DiscordWebhookToken)
		if err != nil {
			return nil, "", fmt.Errorf("%s: %w", ErrMsgFailedCreateNotifier, err)
		}
		return n, NotifierDiscord, nil
	}
	return notify.NewLogNotifier(), NotifierLog, nil
}
