package executor

import (
	"context"
	"log"

	"github.com/sakin2155/anime-auto-scraper-1/internal/core/domain"
	"github.com/sakin2155/anime-auto-scraper-1/internal/shell/messaging"
)

// EventPublisher publishes export completion events
type EventPublisher interface {
	SendEvent(event *messaging.ExportCompletedEvent) error
}

// KafkaJobCompletionNotifier publishes completion events to Kafka
type KafkaJobCompletionNotifier struct {
	publisher EventPublisher
}

// NewKafkaJobCompletionNotifier creates a new Kafka-based notifier
func NewKafkaJobCompletionNotifier(publisher EventPublisher) *KafkaJobCompletionNotifier {
	return &KafkaJobCompletionNotifier{
		publisher: publisher,
	}
}

// JobComplete publishes an export completed event
func (n *KafkaJobCompletionNotifier) JobComplete(ctx context.Context, notification *domain.CompletionNotification) error {
	log.Printf("Sending completion event via Kafka for run: %s", notification.RunID)

	if err := n.publisher.SendEvent(messaging.NewExportCompletedEvent(notification)); err != nil {
		log.Printf("Failed to send completion event for run %s: %v", notification.RunID, err)
		return err
	}

	log.Printf("Completion event sent successfully for run %s", notification.RunID)
	return nil
}
