package queue

import "errors"

var (
	// ErrFull is returned when the queue holds its maximum number of tasks.
	ErrFull = errors.New("export queue full")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("export queue closed")
	// ErrAbandoned is the result of a task dropped by a shutting down pool.
	ErrAbandoned = errors.New("export abandoned on shutdown")
)
