package storage

import (
	"fmt"

	"github.com/sakin2155/anime-auto-scraper-1/internal/config"
	"github.com/sakin2155/anime-auto-scraper-1/internal/core/domain"
)

// RunStore is a run history backend that owns a closable resource
type RunStore interface {
	Save(run domain.Run) error
	FindByID(id string) (domain.Run, error)
	FindRecent(limit int) ([]domain.Run, error)
	Close() error
}

// NewRunRepository opens the run history backend selected by cfg.Type
func NewRunRepository(cfg config.DatabaseConfig) (RunStore, error) {
	switch cfg.Type {
	case "", "none", "memory":
		return NewMemoryRunRepository(), nil
	case "sqlite":
		return NewSQLiteRunRepository(cfg.Path)
	case "postgres":
		return NewPostgresRunRepository(cfg)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}
}
