package repository

import (
	"time"

	"github.com/Recrutamentebr/recrutamente-sub000/pkg/logger"
)

type options struct {
	log         logger.Logger
	maxConns    int32
	busyTimeout time.Duration
}

func defaultOptions() options {
	return options{
		log:         logger.Nop(),
		busyTimeout: 5 * time.Second,
	}
}

// Option applies a configuration option to a store.
type Option func(*options)

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithMaxConns caps the Postgres pool size.
func WithMaxConns(n int32) Option {
	return func(o *options) {
		if n > 0 {
			o.maxConns = n
		}
	}
}

// WithBusyTimeout sets how long SQLite waits on a locked database.
func WithBusyTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.busyTimeout = d
		}
	}
}
