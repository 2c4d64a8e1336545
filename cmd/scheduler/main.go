package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sakin2155/anime-auto-scraper-1/internal/bootstrap"
	"github.com/sakin2155/anime-auto-scraper-1/internal/config"
	httpShell "github.com/sakin2155/anime-auto-scraper-1/internal/shell/http"
	"github.com/sakin2155/anime-auto-scraper-1/internal/shell/scheduler"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var runNow bool

	cmd := &cobra.Command{
		Use:   "scheduler",
		Short: "Run the anime export pipeline on EXPORT_SCHEDULE and serve its run history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScheduler(runNow)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.Flags().BoolVar(&runNow, "run-now", false, "trigger one export immediately on startup")

	return cmd
}

func runScheduler(runNow bool) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log.Printf("Starting anime export scheduler with configuration:")
	log.Printf("  Server: %s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("  Exporter: %s %s", cfg.Export.Command, cfg.Export.Subcommand)
	log.Printf("  Output directory: %s", cfg.Export.OutputDir)
	log.Printf("  Schedule: %s (limit: %d)", cfg.Export.Schedule, cfg.Export.Limit)
	log.Printf("  Database Type: %s", cfg.Database.Type)
	log.Printf("  FTP upload: %t", cfg.FTP.Configured())
	log.Printf("  Webhook notification: %t", cfg.Notification.Enabled())
	log.Printf("  Kafka: enabled=%t, brokers=%v", cfg.Kafka.Enabled, cfg.Kafka.Brokers)
	log.Printf("  Metrics: enabled=%t, port=%d", cfg.Metrics.Enabled, cfg.Metrics.Port)

	components, err := bootstrap.Build(cfg)
	if err != nil {
		return err
	}
	defer components.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cronScheduler, err := scheduler.NewCronScheduler(ctx, components.Pipeline, cfg.Export.Schedule, cfg.Export.Limit)
	if err != nil {
		return err
	}

	router := httpShell.SetupRoutes(components.RunService, cronScheduler)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		metricsAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Metrics.Port)
		metricsServer = &http.Server{
			Addr:    metricsAddr,
			Handler: httpShell.SetupMetricsRoutes(cfg.Metrics.Path),
		}

		go func() {
			log.Printf("Starting metrics server on %s%s", metricsAddr, cfg.Metrics.Path)
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("Metrics server error: %v", err)
			}
		}()
	}

	schedulerDone := make(chan struct{})
	go func() {
		cronScheduler.Start()
		close(schedulerDone)
	}()

	if runNow {
		if err := cronScheduler.Trigger(); err != nil {
			log.Printf("Failed to trigger startup export: %v", err)
		}
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Println("Shutting down server...")
	case err := <-serverErr:
		stop()
		<-schedulerDone
		cronScheduler.Stop()
		return fmt.Errorf("server failed: %w", err)
	}

	<-schedulerDone
	cronScheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("Metrics server forced to shutdown: %v", err)
		}
	}

	log.Println("Server exited")
	return nil
}
