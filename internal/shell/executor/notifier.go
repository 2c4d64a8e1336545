package executor

import (
	"context"

	"github.com/sakin2155/anime-auto-scraper-1/internal/core/domain"
)

// JobCompletionNotifier defines the interface for announcing a successful export
type JobCompletionNotifier interface {
	// JobComplete sends a notification when an export completes
	JobComplete(ctx context.Context, notification *domain.CompletionNotification) error
}
