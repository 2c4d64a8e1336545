package storage

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/sakin2155/anime-auto-scraper-1/internal/config"
	"github.com/sakin2155/anime-auto-scraper-1/internal/core/domain"
)

func newTestRun(t *testing.T, started time.Time, limit int) domain.Run {
	t.Helper()
	job, err := domain.NewExportJob("/var/exports", limit, started)
	if err != nil {
		t.Fatalf("NewExportJob failed: %v", err)
	}
	return domain.NewRun(job)
}

func TestMemoryRunRepository(t *testing.T) {
	repo := NewMemoryRunRepository()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	first := newTestRun(t, base, 10)
	second := newTestRun(t, base.Add(time.Minute), 20)
	third := newTestRun(t, base.Add(2*time.Minute), 30)

	for _, run := range []domain.Run{second, third, first} {
		if err := repo.Save(run); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	got, err := repo.FindByID(second.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if got.Limit != 20 {
		t.Errorf("Expected limit 20, got %d", got.Limit)
	}

	recent, err := repo.FindRecent(2)
	if err != nil {
		t.Fatalf("FindRecent failed: %v", err)
	}
	if len(recent) != 2 || recent[0].ID != third.ID || recent[1].ID != second.ID {
		t.Errorf("Expected newest two runs first, got %+v", recent)
	}

	if _, err := repo.FindByID("missing"); !errors.Is(err, domain.ErrRunNotFound) {
		t.Errorf("Expected ErrRunNotFound, got %v", err)
	}
}

func TestMemoryRunRepository_SaveReplaces(t *testing.T) {
	repo := NewMemoryRunRepository()
	run := newTestRun(t, time.Now(), 1)
	repo.Save(run)

	failed := run.WithFailed("export process exited with code 3")
	repo.Save(failed)

	got, _ := repo.FindByID(run.ID)
	if got.Status != domain.RunStatusFailed {
		t.Errorf("Expected failed status after update, got %s", got.Status)
	}

	recent, _ := repo.FindRecent(10)
	if len(recent) != 1 {
		t.Errorf("Expected one run after update, got %d", len(recent))
	}
}

func TestNewRunRepository(t *testing.T) {
	for _, dbType := range []string{"", "none", "memory"} {
		store, err := NewRunRepository(config.DatabaseConfig{Type: dbType})
		if err != nil {
			t.Fatalf("type %q: unexpected error: %v", dbType, err)
		}
		if _, ok := store.(*MemoryRunRepository); !ok {
			t.Errorf("type %q: expected memory repository, got %T", dbType, store)
		}
	}

	store, err := NewRunRepository(config.DatabaseConfig{Type: "sqlite", Path: filepath.Join(t.TempDir(), "runs.db")})
	if err != nil {
		t.Fatalf("sqlite: unexpected error: %v", err)
	}
	defer store.Close()
	if _, ok := store.(*SQLiteRunRepository); !ok {
		t.Errorf("Expected sqlite repository, got %T", store)
	}

	if _, err := NewRunRepository(config.DatabaseConfig{Type: "mongodb"}); err == nil {
		t.Error("Expected an error for an unsupported type")
	}
}
