package notify

// DefaultWebhookUsername is shown as the author of webhook posts
const DefaultWebhookUsername = "XP Engine"

// Log messages
const (
	LogMsgCelebration        = "Celebration"
	LogMsgCelebrationDropped = "Celebration dropped, worker queue full"
)
