package storage

import (
	"sort"
	"sync"

	"github.com/sakin2155/anime-auto-scraper-1/internal/core/domain"
)

// MemoryRunRepository keeps the run history for the lifetime of the process
type MemoryRunRepository struct {
	runs map[string]domain.Run
	mu   sync.RWMutex
}

func NewMemoryRunRepository() *MemoryRunRepository {
	return &MemoryRunRepository{
		runs: make(map[string]domain.Run),
		mu:   sync.RWMutex{},
	}
}

func (r *MemoryRunRepository) Save(run domain.Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.runs[run.ID] = run
	return nil
}

func (r *MemoryRunRepository) FindByID(id string) (domain.Run, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	run, exists := r.runs[id]
	if !exists {
		return domain.Run{}, domain.ErrRunNotFound
	}

	return run, nil
}

// FindRecent returns up to limit runs, newest start time first
func (r *MemoryRunRepository) FindRecent(limit int) ([]domain.Run, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	runs := make([]domain.Run, 0, len(r.runs))
	for _, run := range r.runs {
		runs = append(runs, run)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].StartTime.After(runs[j].StartTime)
	})

	if limit >= 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

func (r *MemoryRunRepository) Close() error {
	return nil
}
