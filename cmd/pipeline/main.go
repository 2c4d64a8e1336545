package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sakin2155/anime-auto-scraper-1/internal/bootstrap"
	"github.com/sakin2155/anime-auto-scraper-1/internal/config"
	"github.com/sakin2155/anime-auto-scraper-1/internal/core/usecases"
	"github.com/sakin2155/anime-auto-scraper-1/internal/shell/metrics"
)

const pushTimeout = 10 * time.Second

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "pipeline [limit]",
		Short: "Export a batch of anime as SQL, then upload and announce it",
		Long: `Runs the exporter once with the given item limit (0 exports everything),
writes its output to OUTPUT_DIR, uploads the file when FTP_HOST, FTP_USER and
FTP_PASS are set, and posts a notification when SLACK_WEBHOOK is set.

Without an argument the limit comes from EXPORT_LIMIT.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runPipeline,
	}
}

func runPipeline(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	limit, err := usecases.ResolveLimit(args, cfg.Export.Limit)
	if err != nil {
		return err
	}

	components, err := bootstrap.Build(cfg)
	if err != nil {
		return err
	}
	defer components.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_, runErr := components.Pipeline.Run(ctx, limit)

	if cfg.Metrics.PushgatewayURL != "" {
		pushCtx, cancel := context.WithTimeout(context.Background(), pushTimeout)
		if err := metrics.Push(pushCtx, cfg.Metrics.PushgatewayURL, cfg.Metrics.JobName); err != nil {
			log.Printf("Warning: %v", err)
		}
		cancel()
	}

	return runErr
}
