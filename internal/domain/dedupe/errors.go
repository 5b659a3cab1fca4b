package dedupe

import "errors"

var (
	// ErrInFlight is returned when the key is already being processed.
	ErrInFlight = errors.New("already in flight")
	// ErrCapacity is returned when the tracker holds its maximum number of keys.
	ErrCapacity = errors.New("in-flight capacity reached")
)
