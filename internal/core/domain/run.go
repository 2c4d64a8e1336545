package domain

import (
	"time"

	"github.com/google/uuid"
)

type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Run is the history record of one pipeline invocation
type Run struct {
	ID           string     `json:"id"`
	Limit        int        `json:"limit"`
	Status       RunStatus  `json:"status"`
	StartTime    time.Time  `json:"start_time"`
	EndTime      *time.Time `json:"end_time,omitempty"`
	OutputFile   string     `json:"output_file"`
	RemotePath   *string    `json:"remote_path,omitempty"`
	Bytes        int64      `json:"bytes"`
	ErrorMessage *string    `json:"error_message,omitempty"`
}

func NewRun(job ExportJob) Run {
	return Run{
		ID:           uuid.New().String(),
		Limit:        job.Limit,
		Status:       RunStatusRunning,
		StartTime:    job.StartedAt,
		EndTime:      nil,
		OutputFile:   job.OutputPath,
		RemotePath:   nil,
		ErrorMessage: nil,
	}
}

func (r Run) WithCompleted(result ExportResult, upload UploadOutcome) Run {
	now := time.Now().UTC()

	var remotePath *string
	if !upload.Skipped && upload.RemotePath != "" {
		p := upload.RemotePath
		remotePath = &p
	}

	return Run{
		ID:           r.ID,
		Limit:        r.Limit,
		Status:       RunStatusCompleted,
		StartTime:    r.StartTime,
		EndTime:      &now,
		OutputFile:   result.File,
		RemotePath:   remotePath,
		Bytes:        result.Bytes,
		ErrorMessage: nil,
	}
}

func (r Run) WithFailed(errorMessage string) Run {
	now := time.Now().UTC()
	return Run{
		ID:           r.ID,
		Limit:        r.Limit,
		Status:       RunStatusFailed,
		StartTime:    r.StartTime,
		EndTime:      &now,
		OutputFile:   r.OutputFile,
		RemotePath:   nil,
		Bytes:        r.Bytes,
		ErrorMessage: &errorMessage,
	}
}

func IsValidRunStatus(s string) bool {
	switch RunStatus(s) {
	case RunStatusRunning, RunStatusCompleted, RunStatusFailed:
		return true
	default:
		return false
	}
}
