package chrome

import "errors"

var (
	// ErrClosed is returned by every Surface method after Close.
	ErrClosed = errors.New("chrome surface closed")
	// ErrNoPages is returned when a PDF is requested for zero page images.
	ErrNoPages = errors.New("no page images")
)
