package metrics

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/sakin2155/anime-auto-scraper-1/internal/core/domain"
)

// Registry holds the pipeline metrics. It is separate from the default
// registry so that a Pushgateway only receives run metrics.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	// ExportRunsTotal counts finished exports by outcome
	ExportRunsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "export_runs_total",
			Help: "Total number of export runs by status",
		},
		[]string{"status"},
	)

	// ExportBytesTotal counts bytes written by successful exports
	ExportBytesTotal = factory.NewCounter(prometheus.CounterOpts{
		Name: "export_bytes_total",
		Help: "Total bytes written by successful exports",
	})

	// ExportDuration tracks how long the exporter ran
	ExportDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Name:    "export_duration_seconds",
		Help:    "Duration of export runs in seconds",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200, 3600},
	})

	// ExportsInProgress tracks exporter processes currently running
	ExportsInProgress = factory.NewGauge(prometheus.GaugeOpts{
		Name: "exports_in_progress",
		Help: "The number of exports currently running",
	})

	// ProgressEventsTotal counts progress events reported by the exporter
	ProgressEventsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "export_progress_events_total",
			Help: "Total number of exporter progress events by kind",
		},
		[]string{"kind"},
	)

	// UploadTotal counts upload stage outcomes
	UploadTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upload_total",
			Help: "Total number of upload attempts by status",
		},
		[]string{"status"},
	)

	// NotificationsTotal counts completion notification outcomes
	NotificationsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_total",
			Help: "Total number of completion notifications by status",
		},
		[]string{"status"},
	)
)

const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// Recorder translates pipeline stage outcomes into metric updates
type Recorder struct{}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) RunStarted() {
	ExportsInProgress.Inc()
}

func (r *Recorder) ExportFinished(result domain.ExportResult, err error) {
	ExportsInProgress.Dec()
	ExportDuration.Observe(result.Duration.Seconds())

	progress := result.Progress
	ProgressEventsTotal.WithLabelValues(string(domain.ProgressItem)).Add(float64(progress.Items))
	ProgressEventsTotal.WithLabelValues(string(domain.ProgressWritten)).Add(float64(progress.Written))
	if progress.Completed {
		ProgressEventsTotal.WithLabelValues(string(domain.ProgressComplete)).Inc()
	}
	if progress.Discovered > 0 {
		ProgressEventsTotal.WithLabelValues(string(domain.ProgressDiscovered)).Inc()
	}

	if err != nil {
		ExportRunsTotal.WithLabelValues(StatusFailed).Inc()
		return
	}
	ExportRunsTotal.WithLabelValues(StatusSuccess).Inc()
	ExportBytesTotal.Add(float64(result.Bytes))
}

func (r *Recorder) UploadFinished(outcome domain.UploadOutcome, err error) {
	switch {
	case err != nil:
		UploadTotal.WithLabelValues(StatusFailed).Inc()
	case outcome.Skipped:
		UploadTotal.WithLabelValues(StatusSkipped).Inc()
	default:
		UploadTotal.WithLabelValues(StatusSuccess).Inc()
	}
}

func (r *Recorder) NotificationFinished(err error) {
	if err != nil {
		NotificationsTotal.WithLabelValues(StatusFailed).Inc()
		return
	}
	NotificationsTotal.WithLabelValues(StatusSuccess).Inc()
}

// Handler serves the pipeline metrics together with the default Go and process collectors
func Handler() http.Handler {
	return promhttp.HandlerFor(
		prometheus.Gatherers{Registry, prometheus.DefaultGatherer},
		promhttp.HandlerOpts{},
	)
}

// Push sends the pipeline metrics to a Pushgateway under the given job name
func Push(ctx context.Context, url, job string) error {
	log.Printf("[DEBUG] Metrics - pushing to %s as job %s", url, job)
	if err := push.New(url, job).Gatherer(Registry).PushContext(ctx); err != nil {
		return fmt.Errorf("failed to push metrics: %w", err)
	}
	return nil
}
