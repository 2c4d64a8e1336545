package usecases

import (
	"context"

	"github.com/sakin2155/anime-auto-scraper-1/internal/core/domain"
)

type Exporter interface {
	Run(ctx context.Context, job domain.ExportJob) (domain.ExportResult, error)
}

type Uploader interface {
	Upload(ctx context.Context, localPath string) (domain.UploadOutcome, error)
}

type JobCompletionNotifier interface {
	JobComplete(ctx context.Context, notification *domain.CompletionNotification) error
}

type RunRepository interface {
	Save(run domain.Run) error
	FindByID(id string) (domain.Run, error)
	FindRecent(limit int) ([]domain.Run, error)
}

// Metrics receives stage outcomes for instrumentation
type Metrics interface {
	RunStarted()
	ExportFinished(result domain.ExportResult, err error)
	UploadFinished(outcome domain.UploadOutcome, err error)
	NotificationFinished(err error)
}

type nopMetrics struct{}

func (nopMetrics) RunStarted() {}
func (nopMetrics) ExportFinished(domain.ExportResult, error) {}
func (nopMetrics) UploadFinished(domain.UploadOutcome, error) {}
func (nopMetrics) NotificationFinished(error) {}
