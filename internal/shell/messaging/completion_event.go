package messaging

import (
	"encoding/json"
	"time"

	"github.com/sakin2155/anime-auto-scraper-1/internal/core/domain"
)

const (
	ExportCompletedEventType    = "anime-export-completed"
	ExportCompletedEventVersion = "v1"
)

// ExportCompletedEvent is the message published when an export run succeeds
type ExportCompletedEvent struct {
	Version    string  `json:"version"`
	EventType  string  `json:"event_type"`
	Timestamp  string  `json:"timestamp"` // RFC3339 format
	RunID      string  `json:"run_id"`
	FileName   string  `json:"file_name"`
	Bytes      int64   `json:"bytes"`
	SizeMiB    float64 `json:"size_mib"`
	Limit      int     `json:"limit"`
	Status     string  `json:"status"`
	RemotePath string  `json:"remote_path,omitempty"`
}

// NewExportCompletedEvent builds the event for a completion notification
func NewExportCompletedEvent(n *domain.CompletionNotification) *ExportCompletedEvent {
	return &ExportCompletedEvent{
		Version:    ExportCompletedEventVersion,
		EventType:  ExportCompletedEventType,
		Timestamp:  n.CompletedAt.UTC().Format(time.RFC3339),
		RunID:      n.RunID,
		FileName:   n.FileName,
		Bytes:      n.Bytes,
		SizeMiB:    n.SizeMiB,
		Limit:      n.Limit,
		Status:     n.Status,
		RemotePath: n.RemotePath,
	}
}

// ToJSON converts the event to JSON bytes
func (e *ExportCompletedEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}
