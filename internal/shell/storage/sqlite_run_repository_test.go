package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sakin2155/anime-auto-scraper-1/internal/core/domain"
)

func newTestSQLiteRepo(t *testing.T) *SQLiteRunRepository {
	t.Helper()
	repo, err := NewSQLiteRunRepository(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Failed to create SQLite repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSQLiteRunRepository_Lifecycle(t *testing.T) {
	repo := newTestSQLiteRepo(t)

	run := newTestRun(t, time.Date(2024, 5, 1, 12, 30, 45, 0, time.UTC), 100)
	if err := repo.Save(run); err != nil {
		t.Fatalf("Failed to save run: %v", err)
	}

	got, err := repo.FindByID(run.ID)
	if err != nil {
		t.Fatalf("Failed to find run: %v", err)
	}

	if got.Status != domain.RunStatusRunning {
		t.Errorf("Expected status running, got %s", got.Status)
	}

	if got.EndTime != nil || got.RemotePath != nil || got.ErrorMessage != nil {
		t.Errorf("Expected no end time, remote path or error for a running run: %+v", got)
	}

	if !got.StartTime.Equal(run.StartTime) {
		t.Errorf("Expected start time %s, got %s", run.StartTime, got.StartTime)
	}

	result := domain.ExportResult{Success: true, File: run.OutputFile, Bytes: 4096}
	completed := run.WithCompleted(result, domain.UploadOutcome{RemotePath: "/exports/anime_batch_2024-05-01T12-30-45.sql"})
	if err := repo.Save(completed); err != nil {
		t.Fatalf("Failed to update run: %v", err)
	}

	got, err = repo.FindByID(run.ID)
	if err != nil {
		t.Fatalf("Failed to find run: %v", err)
	}

	if got.Status != domain.RunStatusCompleted {
		t.Errorf("Expected status completed, got %s", got.Status)
	}

	if got.Bytes != 4096 {
		t.Errorf("Expected 4096 bytes, got %d", got.Bytes)
	}

	if got.RemotePath == nil || *got.RemotePath != "/exports/anime_batch_2024-05-01T12-30-45.sql" {
		t.Errorf("Unexpected remote path: %v", got.RemotePath)
	}

	if got.EndTime == nil {
		t.Error("Expected end time to be set")
	}
}

func TestSQLiteRunRepository_FindRecent(t *testing.T) {
	repo := newTestSQLiteRepo(t)
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	var ids []string
	for i := 0; i < 5; i++ {
		run := newTestRun(t, base.Add(time.Duration(i)*time.Hour), i)
		if err := repo.Save(run); err != nil {
			t.Fatalf("Failed to save run: %v", err)
		}
		ids = append(ids, run.ID)
	}

	recent, err := repo.FindRecent(3)
	if err != nil {
		t.Fatalf("FindRecent failed: %v", err)
	}

	if len(recent) != 3 {
		t.Fatalf("Expected 3 runs, got %d", len(recent))
	}

	for i, expected := range []string{ids[4], ids[3], ids[2]} {
		if recent[i].ID != expected {
			t.Errorf("Position %d: expected %s, got %s", i, expected, recent[i].ID)
		}
	}
}

func TestSQLiteRunRepository_NotFound(t *testing.T) {
	repo := newTestSQLiteRepo(t)

	if _, err := repo.FindByID("missing"); !errors.Is(err, domain.ErrRunNotFound) {
		t.Errorf("Expected ErrRunNotFound, got %v", err)
	}
}

func TestSQLiteRunRepository_ReopenKeepsSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")

	repo, err := NewSQLiteRunRepository(path)
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	run := newTestRun(t, time.Now(), 5)
	repo.Save(run)
	repo.Close()

	reopened, err := NewSQLiteRunRepository(path)
	if err != nil {
		t.Fatalf("Failed to reopen repository: %v", err)
	}
	defer reopened.Close()

	if _, err := reopened.FindByID(run.ID); err != nil {
		t.Errorf("Expected run to survive reopening: %v", err)
	}
}

func TestSQLiteRunRepository_CreatesMissingParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fresh", "output", "runs.db")

	repo, err := NewSQLiteRunRepository(path)
	if err != nil {
		t.Fatalf("Expected repository to create its parent directory, got %v", err)
	}
	defer repo.Close()

	run := newTestRun(t, time.Now(), 1)
	if err := repo.Save(run); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("Expected database file at %s: %v", path, err)
	}
}
