package executor

import (
	"context"
	"fmt"
	"log"

	"github.com/sakin2155/anime-auto-scraper-1/internal/clients/slack"
	"github.com/sakin2155/anime-auto-scraper-1/internal/core/domain"
)

// WebhookJobCompletionNotifier posts completion messages to a Slack-compatible webhook
type WebhookJobCompletionNotifier struct {
	client *slack.Client
}

// NewWebhookJobCompletionNotifier creates a new webhook-based notifier
func NewWebhookJobCompletionNotifier(client *slack.Client) *WebhookJobCompletionNotifier {
	return &WebhookJobCompletionNotifier{
		client: client,
	}
}

// JobComplete posts the completion message once
func (n *WebhookJobCompletionNotifier) JobComplete(ctx context.Context, notification *domain.CompletionNotification) error {
	log.Printf("Sending webhook notification for export: %s", notification.FileName)

	if err := n.client.PostMessage(ctx, BuildWebhookMessage(notification)); err != nil {
		return fmt.Errorf("webhook notification failed: %w", err)
	}

	log.Printf("Webhook notification sent for export %s", notification.FileName)
	return nil
}

// BuildWebhookMessage renders the fixed-shape completion message
func BuildWebhookMessage(notification *domain.CompletionNotification) slack.Message {
	size := fmt.Sprintf("%.2f MB", notification.SizeMiB)
	summary := fmt.Sprintf("Anime batch export completed: %s (%s)", notification.FileName, size)

	fields := []slack.Field{
		{Title: "File", Value: notification.FileName, Short: true},
		{Title: "Size", Value: size, Short: true},
		{Title: "Status", Value: notification.Status, Short: true},
	}
	if notification.RemotePath != "" {
		fields = append(fields, slack.Field{Title: "Uploaded to", Value: notification.RemotePath, Short: false})
	}

	return slack.Message{
		Text: summary,
		Attachments: []slack.Attachment{
			{
				Color:    "good",
				Fallback: summary,
				Fields:   fields,
				Footer:   "anime-auto-scraper",
				Ts:       notification.CompletedAt.Unix(),
			},
		},
	}
}
