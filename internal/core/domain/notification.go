package domain

import (
	"math"
	"time"
)

// NotificationStatusSuccess is the only status ever reported; failed runs are not announced
const NotificationStatusSuccess = "Success"

const bytesPerMiB = 1024 * 1024

// CompletionNotification carries what the notification stage reports about a finished run
type CompletionNotification struct {
	RunID       string
	FileName    string
	Bytes       int64
	SizeMiB     float64
	Status      string
	Limit       int
	RemotePath  string
	CompletedAt time.Time
}

// NewCompletionNotification builds the notification for a successful export
func NewCompletionNotification(run Run, result ExportResult, upload UploadOutcome) *CompletionNotification {
	return &CompletionNotification{
		RunID:       run.ID,
		FileName:    result.FileName(),
		Bytes:       result.Bytes,
		SizeMiB:     SizeMiB(result.Bytes),
		Status:      NotificationStatusSuccess,
		Limit:       run.Limit,
		RemotePath:  upload.RemotePath,
		CompletedAt: time.Now().UTC(),
	}
}

// SizeMiB converts a byte count to mebibytes rounded to two decimals
func SizeMiB(bytes int64) float64 {
	return math.Round(float64(bytes)/bytesPerMiB*100) / 100
}
