package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound     = errors.New("record not found")
	ErrCorrupt      = errors.New("stored record is malformed")
	ErrUnknownStore = errors.New("unknown store driver")
)
