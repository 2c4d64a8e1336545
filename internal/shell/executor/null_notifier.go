package executor

import (
	"context"
	"log"

	"github.com/sakin2155/anime-auto-scraper-1/internal/core/domain"
)

// NullJobCompletionNotifier is a no-op implementation of JobCompletionNotifier
// used when no webhook or event bus is configured (null object pattern)
type NullJobCompletionNotifier struct{}

// NewNullJobCompletionNotifier creates a new null notifier
func NewNullJobCompletionNotifier() *NullJobCompletionNotifier {
	return &NullJobCompletionNotifier{}
}

// JobComplete does nothing - this is a no-op implementation
func (n *NullJobCompletionNotifier) JobComplete(ctx context.Context, notification *domain.CompletionNotification) error {
	log.Printf("No notifier configured - skipping completion notification for %s", notification.FileName)
	return nil
}
