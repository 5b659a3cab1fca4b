package service

import "errors"

var (
	// ErrNotStarted is returned by operations that need the worker pool.
	ErrNotStarted = errors.New("service not started")
	// ErrNotConfigured is returned by Start when a collaborator is missing.
	ErrNotConfigured = errors.New("service not configured")
	// ErrBusy is returned when the export queue cannot take more work.
	ErrBusy = errors.New("export capacity exhausted")
	// ErrNoApplications is returned for job exports of a job nobody applied to.
	ErrNoApplications = errors.New("job has no applications")
)
