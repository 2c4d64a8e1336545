package usecases

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/sakin2155/anime-auto-scraper-1/internal/core/domain"
)

// ScheduleCalculator calculates next run times for the export schedule
type ScheduleCalculator struct {
	parser cron.Parser
}

// NewScheduleCalculator creates a new schedule calculator
func NewScheduleCalculator() *ScheduleCalculator {
	return &ScheduleCalculator{
		parser: cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow),
	}
}

// NextRun returns the first activation of schedule strictly after currentTime, in UTC
func (sc *ScheduleCalculator) NextRun(schedule string, currentTime time.Time) (time.Time, error) {
	sched, err := sc.parser.Parse(schedule)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s: %v", domain.ErrInvalidSchedule, schedule, err)
	}

	return sched.Next(currentTime.UTC()), nil
}
