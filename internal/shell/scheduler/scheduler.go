package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/sakin2155/anime-auto-scraper-1/internal/core/domain"
)

// PipelineRunner executes one pipeline invocation
type PipelineRunner interface {
	Run(ctx context.Context, limit int) (domain.PipelineOutcome, error)
}

// CronScheduler runs the export pipeline on a cron schedule and on demand.
// At most one pipeline runs at a time; overlapping requests are refused.
type CronScheduler struct {
	runner   PipelineRunner
	schedule string
	limit    int

	cron    *cron.Cron
	entryID cron.EntryID

	running atomic.Bool
	wg      sync.WaitGroup

	// baseCtx bounds every scheduled and triggered run
	baseCtx context.Context
}

// NewCronScheduler creates a scheduler whose runs are cancelled when ctx is done
func NewCronScheduler(ctx context.Context, runner PipelineRunner, schedule string, limit int) (*CronScheduler, error) {
	if !domain.IsValidSchedule(schedule) {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidSchedule, schedule)
	}

	s := &CronScheduler{
		runner:   runner,
		schedule: schedule,
		limit:    limit,
		// Standard 5-field format (minute hour dom month dow)
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
		baseCtx: ctx,
	}

	entryID, err := s.cron.AddFunc(schedule, s.tick)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSchedule, err)
	}
	s.entryID = entryID

	return s, nil
}

// Start runs the cron loop until the scheduler's context is cancelled
func (s *CronScheduler) Start() {
	log.Printf("Starting cron scheduler with schedule %q (limit: %d)", s.schedule, s.limit)
	s.cron.Start()
	log.Printf("Next export scheduled for %s", s.NextRun().Format(time.RFC3339))

	<-s.baseCtx.Done()
	log.Println("Scheduler context cancelled, stopping")
}

// Stop halts the cron loop and waits for an in-flight pipeline to finish
func (s *CronScheduler) Stop() {
	log.Println("Stopping cron scheduler")
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.wg.Wait()
	log.Println("Cron scheduler stopped")
}

// NextRun returns the next scheduled activation, or the zero time before Start
func (s *CronScheduler) NextRun() time.Time {
	return s.cron.Entry(s.entryID).Next
}

// Schedule returns the cron expression the scheduler was created with
func (s *CronScheduler) Schedule() string {
	return s.schedule
}

// Running reports whether a pipeline is currently executing
func (s *CronScheduler) Running() bool {
	return s.running.Load()
}

// RunOnce executes the pipeline synchronously
func (s *CronScheduler) RunOnce(ctx context.Context) (domain.PipelineOutcome, error) {
	if !s.running.CompareAndSwap(false, true) {
		return domain.PipelineOutcome{}, domain.ErrRunInProgress
	}
	defer s.running.Store(false)

	return s.runner.Run(ctx, s.limit)
}

// Trigger starts the pipeline in the background and returns immediately.
// The run is bound to the scheduler's context, not the caller's, and may be
// requested before Start.
func (s *CronScheduler) Trigger() error {
	if !s.running.CompareAndSwap(false, true) {
		return domain.ErrRunInProgress
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.running.Store(false)

		log.Printf("Executing triggered export (limit: %d)", s.limit)
		s.logOutcome(s.runner.Run(s.baseCtx, s.limit))
	}()
	return nil
}

func (s *CronScheduler) tick() {
	s.wg.Add(1)
	defer s.wg.Done()

	log.Printf("Executing scheduled export (limit: %d)", s.limit)
	outcome, err := s.RunOnce(s.baseCtx)
	if errors.Is(err, domain.ErrRunInProgress) {
		log.Printf("Export already in progress, skipping scheduled run")
		return
	}
	s.logOutcome(outcome, err)
}

func (s *CronScheduler) logOutcome(outcome domain.PipelineOutcome, err error) {
	if err != nil {
		log.Printf("Export run %s failed: %v", outcome.Run.ID, err)
		return
	}
	log.Printf("Export run %s completed: %s (%d bytes)", outcome.Run.ID, outcome.Export.FileName(), outcome.Export.Bytes)
}
