package domain

import "errors"

var (
	ErrInvalidLimit     = errors.New("invalid export limit")
	ErrExporterStart    = errors.New("failed to start export process")
	ErrOutputWrite      = errors.New("failed to write export output")
	ErrRunNotFound      = errors.New("run not found")
	ErrInvalidRunStatus = errors.New("invalid run status")
	ErrRunInProgress    = errors.New("an export run is already in progress")
	ErrInvalidSchedule  = errors.New("invalid schedule format")
)
