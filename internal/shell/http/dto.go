package http

import (
	"path/filepath"
	"time"

	"github.com/sakin2155/anime-auto-scraper-1/internal/core/domain"
)

// RunResponse is the API response model for run history records
type RunResponse struct {
	ID              string     `json:"id"`
	Limit           int        `json:"limit"`
	Status          string     `json:"status"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	DurationSeconds *float64   `json:"duration_seconds,omitempty"`
	FileName        string     `json:"file_name"`
	RemotePath      *string    `json:"remote_path,omitempty"`
	Bytes           int64      `json:"bytes"`
	SizeMiB         float64    `json:"size_mib"`
	ErrorMessage    *string    `json:"error_message,omitempty"`
}

// RunListResponse wraps a page of runs
type RunListResponse struct {
	Data []RunResponse `json:"data"`
	Meta ListMeta      `json:"meta"`
}

type ListMeta struct {
	Count int `json:"count"`
	Limit int `json:"limit"`
}

// StatusResponse describes the daemon for health checks
type StatusResponse struct {
	Status   string     `json:"status"`
	Running  bool       `json:"running"`
	Schedule string     `json:"schedule"`
	NextRun  *time.Time `json:"next_run,omitempty"`
}

// ToRunResponse converts a domain.Run to a RunResponse DTO
func ToRunResponse(run domain.Run) RunResponse {
	var duration *float64
	if run.EndTime != nil {
		d := run.EndTime.Sub(run.StartTime).Seconds()
		duration = &d
	}

	return RunResponse{
		ID:              run.ID,
		Limit:           run.Limit,
		Status:          string(run.Status),
		StartTime:       run.StartTime,
		EndTime:         run.EndTime,
		DurationSeconds: duration,
		FileName:        filepath.Base(run.OutputFile),
		RemotePath:      run.RemotePath,
		Bytes:           run.Bytes,
		SizeMiB:         domain.SizeMiB(run.Bytes),
		ErrorMessage:    run.ErrorMessage,
	}
}

// ToRunResponseList converts a slice of domain.Run to a slice of RunResponse DTOs
func ToRunResponseList(runs []domain.Run) []RunResponse {
	responses := make([]RunResponse, len(runs))
	for i, run := range runs {
		responses[i] = ToRunResponse(run)
	}
	return responses
}
