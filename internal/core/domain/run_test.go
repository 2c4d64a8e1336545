package domain

import (
	"testing"
	"time"
)

func newTestJob(t *testing.T) ExportJob {
	t.Helper()
	job, err := NewExportJob("/tmp/output", 50, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("NewExportJob failed: %v", err)
	}
	return job
}

func TestNewRun(t *testing.T) {
	job := newTestJob(t)
	run := NewRun(job)

	if run.ID == "" {
		t.Error("Expected run ID to be generated")
	}

	if run.Status != RunStatusRunning {
		t.Errorf("Expected status %s, got %s", RunStatusRunning, run.Status)
	}

	if run.Limit != 50 {
		t.Errorf("Expected limit 50, got %d", run.Limit)
	}

	if run.OutputFile != job.OutputPath {
		t.Errorf("Expected output file %s, got %s", job.OutputPath, run.OutputFile)
	}

	if run.EndTime != nil {
		t.Error("Expected no end time for a running run")
	}

	other := NewRun(job)
	if other.ID == run.ID {
		t.Error("Expected distinct IDs for distinct runs")
	}
}

func TestRun_WithCompleted(t *testing.T) {
	run := NewRun(newTestJob(t))
	result := ExportResult{Success: true, File: run.OutputFile, Bytes: 4096}

	completed := run.WithCompleted(result, UploadOutcome{RemotePath: "/uploads/anime_batch_2024-05-01T12-00-00.sql"})

	if completed.Status != RunStatusCompleted {
		t.Errorf("Expected status %s, got %s", RunStatusCompleted, completed.Status)
	}

	if completed.ID != run.ID {
		t.Errorf("Expected ID %s to be preserved, got %s", run.ID, completed.ID)
	}

	if completed.EndTime == nil {
		t.Fatal("Expected end time to be set")
	}

	if completed.Bytes != 4096 {
		t.Errorf("Expected 4096 bytes, got %d", completed.Bytes)
	}

	if completed.RemotePath == nil || *completed.RemotePath != "/uploads/anime_batch_2024-05-01T12-00-00.sql" {
		t.Errorf("Expected remote path to be recorded, got %v", completed.RemotePath)
	}

	skipped := run.WithCompleted(result, UploadOutcome{Skipped: true})
	if skipped.RemotePath != nil {
		t.Errorf("Expected no remote path when upload was skipped, got %s", *skipped.RemotePath)
	}
}

func TestRun_WithFailed(t *testing.T) {
	run := NewRun(newTestJob(t))
	failed := run.WithFailed("export process exited with code 3")

	if failed.Status != RunStatusFailed {
		t.Errorf("Expected status %s, got %s", RunStatusFailed, failed.Status)
	}

	if failed.ErrorMessage == nil || *failed.ErrorMessage != "export process exited with code 3" {
		t.Errorf("Expected error message to be recorded, got %v", failed.ErrorMessage)
	}

	if failed.OutputFile != run.OutputFile {
		t.Errorf("Expected output file %s to be kept, got %s", run.OutputFile, failed.OutputFile)
	}
}

func TestIsValidRunStatus(t *testing.T) {
	for _, s := range []string{"running", "completed", "failed"} {
		if !IsValidRunStatus(s) {
			t.Errorf("Expected %q to be a valid run status", s)
		}
	}

	if IsValidRunStatus("paused") {
		t.Error("Expected 'paused' to be an invalid run status")
	}
}

func TestNewCompletionNotification(t *testing.T) {
	run := NewRun(newTestJob(t))
	result := ExportResult{Success: true, File: "/tmp/output/anime_batch_2024-05-01T12-00-00.sql", Bytes: 2097152}

	n := NewCompletionNotification(run, result, UploadOutcome{RemotePath: "/anime_batch_2024-05-01T12-00-00.sql"})

	if n.FileName != "anime_batch_2024-05-01T12-00-00.sql" {
		t.Errorf("Expected base file name, got %s", n.FileName)
	}

	if n.SizeMiB != 2.00 {
		t.Errorf("Expected size 2.00 MiB, got %v", n.SizeMiB)
	}

	if n.Status != NotificationStatusSuccess {
		t.Errorf("Expected status %q, got %q", NotificationStatusSuccess, n.Status)
	}

	if n.RunID != run.ID {
		t.Errorf("Expected run ID %s, got %s", run.ID, n.RunID)
	}

	if n.Limit != 50 {
		t.Errorf("Expected limit 50, got %d", n.Limit)
	}
}

func TestProgressSummary_Record(t *testing.T) {
	var summary ProgressSummary

	events := []ProgressEvent{
		{Kind: ProgressDiscovered, Count: 12},
		{Kind: ProgressItem},
		{Kind: ProgressWritten},
		{Kind: ProgressItem},
		{Kind: ProgressWritten},
		{Kind: ProgressDiscovered},
		{Kind: ProgressComplete},
	}
	for _, e := range events {
		summary.Record(e)
	}

	if summary.Items != 2 || summary.Written != 2 {
		t.Errorf("Expected 2 items and 2 writes, got %d and %d", summary.Items, summary.Written)
	}

	if summary.Discovered != 12 {
		t.Errorf("Expected discovery count 12 to survive a count-less event, got %d", summary.Discovered)
	}

	if !summary.Completed {
		t.Error("Expected summary to be marked completed")
	}
}
