package domain

// PipelineOutcome summarises one pipeline invocation. Only the export stage
// decides success; upload and notification errors are carried for reporting.
type PipelineOutcome struct {
	Run       Run
	Export    ExportResult
	Upload    UploadOutcome
	UploadErr error
	NotifyErr error
}

// Uploaded reports whether the dump reached the remote server
func (o PipelineOutcome) Uploaded() bool {
	return o.UploadErr == nil && !o.Upload.Skipped && o.Upload.RemotePath != ""
}
