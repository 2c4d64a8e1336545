package executor

import (
	"context"
	"errors"

	"github.com/sakin2155/anime-auto-scraper-1/internal/core/domain"
)

// MultiJobCompletionNotifier fans a notification out to every configured notifier
type MultiJobCompletionNotifier struct {
	notifiers []JobCompletionNotifier
}

// NewMultiJobCompletionNotifier creates a notifier that calls each of notifiers in order
func NewMultiJobCompletionNotifier(notifiers ...JobCompletionNotifier) *MultiJobCompletionNotifier {
	return &MultiJobCompletionNotifier{
		notifiers: notifiers,
	}
}

// JobComplete calls every notifier even when an earlier one fails and joins the errors
func (m *MultiJobCompletionNotifier) JobComplete(ctx context.Context, notification *domain.CompletionNotification) error {
	var errs []error
	for _, notifier := range m.notifiers {
		if err := notifier.JobComplete(ctx, notification); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Len returns the number of wrapped notifiers
func (m *MultiJobCompletionNotifier) Len() int {
	return len(m.notifiers)
}
