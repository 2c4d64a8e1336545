package usecases

import (
	"log"

	"github.com/sakin2155/anime-auto-scraper-1/internal/core/domain"
)

const (
	DefaultRecentRuns = 20
	MaxRecentRuns     = 100
)

// RunService provides read access to the run history
type RunService struct {
	runRepo RunRepository
}

func NewRunService(runRepo RunRepository) *RunService {
	return &RunService{
		runRepo: runRepo,
	}
}

// GetRun retrieves a specific run by ID
func (s *RunService) GetRun(runID string) (domain.Run, error) {
	run, err := s.runRepo.FindByID(runID)
	if err != nil {
		return domain.Run{}, err
	}
	return run, nil
}

// ListRecentRuns returns the newest runs first. limit is clamped to
// [1, MaxRecentRuns]; zero or negative selects DefaultRecentRuns.
func (s *RunService) ListRecentRuns(limit int) ([]domain.Run, error) {
	if limit <= 0 {
		limit = DefaultRecentRuns
	}
	if limit > MaxRecentRuns {
		log.Printf("[DEBUG] RunService - clamping limit %d to %d", limit, MaxRecentRuns)
		limit = MaxRecentRuns
	}

	runs, err := s.runRepo.FindRecent(limit)
	if err != nil {
		return nil, err
	}
	return runs, nil
}
