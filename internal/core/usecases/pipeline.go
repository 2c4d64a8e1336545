package usecases

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/sakin2155/anime-auto-scraper-1/internal/core/domain"
)

// Pipeline runs export, upload and notification in sequence and records the run
type Pipeline struct {
	outputDir string
	exporter  Exporter
	uploader  Uploader
	notifier  JobCompletionNotifier
	runRepo   RunRepository
	metrics   Metrics
	console   io.Writer
	now       func() time.Time
}

func NewPipeline(outputDir string, exporter Exporter, uploader Uploader, notifier JobCompletionNotifier, runRepo RunRepository) *Pipeline {
	return &Pipeline{
		outputDir: outputDir,
		exporter:  exporter,
		uploader:  uploader,
		notifier:  notifier,
		runRepo:   runRepo,
		metrics:   nopMetrics{},
		console:   os.Stdout,
		now:       time.Now,
	}
}

func (p *Pipeline) SetMetrics(metrics Metrics) {
	p.metrics = metrics
}

// SetConsole sets where operator-facing progress lines are printed
func (p *Pipeline) SetConsole(w io.Writer) {
	p.console = w
}

func (p *Pipeline) SetClock(now func() time.Time) {
	p.now = now
}

// Run executes one pipeline invocation. The returned error is non-nil only
// when the export stage fails; upload and notification failures are logged
// and reported through the outcome.
func (p *Pipeline) Run(ctx context.Context, limit int) (domain.PipelineOutcome, error) {
	var outcome domain.PipelineOutcome

	job, err := domain.NewExportJob(p.outputDir, limit, p.now())
	if err != nil {
		return outcome, err
	}

	run := domain.NewRun(job)
	outcome.Run = run
	p.saveRun(run)
	p.metrics.RunStarted()

	p.printf("Starting anime batch export (limit: %s)\n", limitLabel(limit))
	p.printf("Output file: %s\n", job.OutputPath)

	result, err := p.exporter.Run(ctx, job)
	outcome.Export = result
	p.metrics.ExportFinished(result, err)
	if err != nil {
		run = run.WithFailed(err.Error())
		outcome.Run = run
		p.saveRun(run)
		return outcome, fmt.Errorf("export failed: %w", err)
	}

	p.printf("Export complete: %s (%d bytes, %s)\n", result.FileName(), result.Bytes, result.Duration.Round(time.Millisecond))
	if s := result.Progress; s.Discovered > 0 || s.Items > 0 || s.Written > 0 {
		p.printf("Progress: %d discovered, %d exported, %d written\n", s.Discovered, s.Items, s.Written)
	}

	upload, uploadErr := p.uploader.Upload(ctx, result.File)
	p.metrics.UploadFinished(upload, uploadErr)
	switch {
	case uploadErr != nil:
		log.Printf("Upload failed: %v", uploadErr)
		upload = domain.UploadOutcome{}
	case upload.Skipped:
		p.printf("FTP not configured, skipping upload\n")
	default:
		p.printf("Uploaded to %s\n", upload.RemotePath)
	}
	outcome.Upload = upload
	outcome.UploadErr = uploadErr

	notifyErr := p.notifier.JobComplete(ctx, domain.NewCompletionNotification(run, result, upload))
	p.metrics.NotificationFinished(notifyErr)
	if notifyErr != nil {
		log.Printf("Warning: failed to send completion notification: %v", notifyErr)
	}
	outcome.NotifyErr = notifyErr

	run = run.WithCompleted(result, upload)
	outcome.Run = run
	p.saveRun(run)

	p.printf("Done.\n")
	return outcome, nil
}

func (p *Pipeline) saveRun(run domain.Run) {
	if p.runRepo == nil {
		return
	}
	if err := p.runRepo.Save(run); err != nil {
		log.Printf("[DEBUG] Pipeline - failed to record run %s (%s): %v", run.ID, run.Status, err)
	}
}

func (p *Pipeline) printf(format string, args ...interface{}) {
	if p.console == nil {
		return
	}
	fmt.Fprintf(p.console, format, args...)
}

func limitLabel(limit int) string {
	if limit == 0 {
		return "all"
	}
	return fmt.Sprintf("%d", limit)
}
