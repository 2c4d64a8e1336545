package domain

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
)

const (
	// OutputFilePrefix and OutputFileExt frame the timestamp of every generated dump file
	OutputFilePrefix = "anime_batch_"
	OutputFileExt    = ".sql"

	// outputTimestampLayout is an ISO-8601 UTC timestamp with ':' replaced by '-', second precision
	outputTimestampLayout = "2006-01-02T15-04-05"
)

// ExportJob describes a single invocation of the external exporter
type ExportJob struct {
	// Limit is the maximum number of items to export; 0 exports everything
	Limit      int       `json:"limit"`
	OutputPath string    `json:"output_path"`
	StartedAt  time.Time `json:"started_at"`
}

// NewExportJob creates a job writing into outputDir with a file name derived from now
func NewExportJob(outputDir string, limit int, now time.Time) (ExportJob, error) {
	if limit < 0 {
		return ExportJob{}, fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
	}

	return ExportJob{
		Limit:      limit,
		OutputPath: filepath.Join(outputDir, OutputFileName(now)),
		StartedAt:  now.UTC(),
	}, nil
}

// OutputFileName returns anime_batch_<timestamp>.sql for the given instant.
// Two runs started within the same second get the same name.
func OutputFileName(t time.Time) string {
	return OutputFilePrefix + t.UTC().Format(outputTimestampLayout) + OutputFileExt
}

// ExportResult is produced exactly once by the export runner and never mutated afterwards
type ExportResult struct {
	Success     bool            `json:"success"`
	File        string          `json:"file"`
	Diagnostics string          `json:"diagnostics"`
	Bytes       int64           `json:"bytes"`
	Progress    ProgressSummary `json:"progress"`
	Duration    time.Duration   `json:"duration"`
}

// FileName returns the base name of the exported file
func (r ExportResult) FileName() string {
	return filepath.Base(r.File)
}

// ExportProcessError reports an exporter that ran but exited with a non-zero status
type ExportProcessError struct {
	ExitCode int
}

func (e *ExportProcessError) Error() string {
	return fmt.Sprintf("export process exited with code %d", e.ExitCode)
}

// UploadOutcome describes what the upload stage did with the export file
type UploadOutcome struct {
	Skipped    bool   `json:"skipped"`
	RemotePath string `json:"remote_path,omitempty"`
}

// IsValidSchedule reports whether s is a standard 5-field cron expression (minute hour dom month dow)
func IsValidSchedule(s string) bool {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	_, err := parser.Parse(s)
	return err == nil
}
