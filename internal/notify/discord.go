package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
)

// webhookExecutor is the slice of *discordgo.Session used here
type webhookExecutor interface {
	WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// DiscordWebhookNotifier posts celebrations to a Discord channel webhook
type DiscordWebhookNotifier struct {
	session   webhookExecutor
	webhookID string
	token     string
	username  string
	formatter *Formatter
}

// NewDiscordWebhookNotifier creates a notifier for the given webhook.
// Webhook execution does not need a bot token, so the session is unauthenticated.
func NewDiscordWebhookNotifier(webhookID, token string) (*DiscordWebhookNotifier, error) {
	if webhookID == "" || token == "" {
		return nil, fmt.Errorf("discord webhook id and token are required")
	}
	session, err := discordgo.New("")
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	return newDiscordWebhookNotifier(session, webhookID, token), nil
}

func newDiscordWebhookNotifier(session webhookExecutor, webhookID, token string) *DiscordWebhookNotifier {
	return &DiscordWebhookNotifier{
		session:   session,
		webhookID: webhookID,
		token:     token,
		username:  DefaultWebhookUsername,
		formatter: NewFormatter(),
	}
}

// Notify implements Notifier
func (n *DiscordWebhookNotifier) Notify(ctx context.Context, c Celebration) error {
	embed := &discordgo.MessageEmbed{
		Title:       n.formatter.Title(c),
		Description: n.formatter.Description(c),
		Color:       n.formatter.Color(c),
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Footer: &discordgo.MessageEmbedFooter{
			Text: "XP Engine",
		},
	}
	if c.Source != "" {
		embed.Fields = []*discordgo.MessageEmbedField{
			{Name: "Earned from", Value: n.formatter.SourceLabel(c.Source), Inline: true},
		}
	}

	params := &discordgo.WebhookParams{
		Username: n.username,
		Embeds:   []*discordgo.MessageEmbed{embed},
	}

	if _, err := n.session.WebhookExecute(n.webhookID, n.token, false, params, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to post celebration for %s: %w", c.UserID, err)
	}
	return nil
}
