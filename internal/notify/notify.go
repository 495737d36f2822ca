// Package notify turns level-up and milestone events into celebration messages.
package notify

import (
	"context"
	"log/slog"

	"github.com/osse101/XPEngine_Go/internal/logger"
)

// Kind of celebration
type Kind string

const (
	KindMilestone Kind = "milestone"
	KindMaxLevel  Kind = "max_level"
)

// Celebration describes something worth telling a user about
type Celebration struct {
	Kind    Kind
	UserID  string
	Level   int
	Tier    string
	TotalXP int64
	Source  string
}

// Notifier delivers celebrations to some channel
type Notifier interface {
	Notify(ctx context.Context, c Celebration) error
}

// LogNotifier writes celebrations to the structured log. Used when no webhook is configured.
type LogNotifier struct {
	formatter *Formatter
}

// NewLogNotifier creates a LogNotifier
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{formatter: NewFormatter()}
}

// Notify implements Notifier
func (n *LogNotifier) Notify(ctx context.Context, c Celebration) error {
	logger.FromContext(ctx).Info(LogMsgCelebration,
		slog.String("user_id", c.UserID),
		slog.String("kind", string(c.Kind)),
		slog.Int("level", c.Level),
		slog.String("message", n.formatter.Title(c)))
	return nil
}
