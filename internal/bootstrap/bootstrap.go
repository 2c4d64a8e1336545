package bootstrap

import (
	"fmt"
	"log"

	"github.com/sakin2155/anime-auto-scraper-1/internal/clients/ftp"
	"github.com/sakin2155/anime-auto-scraper-1/internal/clients/slack"
	"github.com/sakin2155/anime-auto-scraper-1/internal/config"
	"github.com/sakin2155/anime-auto-scraper-1/internal/core/usecases"
	"github.com/sakin2155/anime-auto-scraper-1/internal/shell/executor"
	"github.com/sakin2155/anime-auto-scraper-1/internal/shell/messaging"
	"github.com/sakin2155/anime-auto-scraper-1/internal/shell/metrics"
	"github.com/sakin2155/anime-auto-scraper-1/internal/shell/storage"
)

// Components holds the wired pipeline and the resources it owns
type Components struct {
	Pipeline   *usecases.Pipeline
	RunService *usecases.RunService
	RunStore   storage.RunStore

	closers []func() error
}

// Build wires the pipeline stages from configuration
func Build(cfg *config.Config) (*Components, error) {
	c := &Components{}

	runStore, err := storage.NewRunRepository(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize run history (%s): %w", cfg.Database.Type, err)
	}
	c.RunStore = runStore
	c.closers = append(c.closers, runStore.Close)
	log.Printf("Run history initialized (type: %s)", cfg.Database.Type)

	var producer *messaging.KafkaProducer
	if cfg.Kafka.Enabled {
		producer, err = messaging.NewKafkaProducer(cfg.Kafka)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to initialize Kafka producer: %w", err)
		}
		c.closers = append(c.closers, producer.Close)
	}

	runner := executor.NewExportRunner(cfg.Export.Program(), cfg.Export.LeadingArgs(), cfg.Export.Subcommand)
	uploader := ftp.NewClient(cfg.FTP)

	var publisher executor.EventPublisher
	if producer != nil {
		publisher = producer
	}
	notifier := NewNotifier(cfg.Notification, publisher)

	c.Pipeline = usecases.NewPipeline(cfg.Export.OutputDir, runner, uploader, notifier, runStore)
	c.Pipeline.SetMetrics(metrics.NewRecorder())
	c.RunService = usecases.NewRunService(runStore)

	return c, nil
}

// NewNotifier selects the completion notifiers enabled by configuration
func NewNotifier(cfg config.NotificationConfig, publisher executor.EventPublisher) executor.JobCompletionNotifier {
	var notifiers []executor.JobCompletionNotifier

	if cfg.Enabled() {
		notifiers = append(notifiers, executor.NewWebhookJobCompletionNotifier(slack.NewClient(cfg.WebhookURL, cfg.Timeout)))
		log.Printf("Webhook completion notifier enabled")
	}

	if publisher != nil {
		notifiers = append(notifiers, executor.NewKafkaJobCompletionNotifier(publisher))
		log.Printf("Kafka completion notifier enabled")
	}

	switch len(notifiers) {
	case 0:
		return executor.NewNullJobCompletionNotifier()
	case 1:
		return notifiers[0]
	default:
		return executor.NewMultiJobCompletionNotifier(notifiers...)
	}
}

// Close releases owned resources in reverse order of acquisition
func (c *Components) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			log.Printf("Error closing resource: %v", err)
		}
	}
	c.closers = nil
}
