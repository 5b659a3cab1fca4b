// Package queue holds export tasks waiting for a worker.
//
// The in-memory implementation is a bounded buffered channel; a full queue
// rejects new work instead of blocking the caller.
package queue

import (
	"context"
	"sync"
	"time"

	"github.com/Recrutamentebr/recrutamente-sub000/internal/report"
	"github.com/Recrutamentebr/recrutamente-sub000/pkg/metrics"
)

const defaultQueueCapacity = 256

// Result is the single outcome of a task: a complete document or an error.
type Result struct {
	Document *report.Document
	Err      error
}

// Task is one export waiting for a worker. Reply must have room for one
// result; OnDone, if set, runs after the result was delivered.
type Task struct {
	ID       string
	Key      string
	Request  report.Request
	Enqueued time.Time
	Reply    chan<- Result
	OnDone   func()
}

// Abandon finishes a task that will never run: it delivers err as the
// task's only result and releases it.
func (t Task) Abandon(err error) { //nolint:gocritic // hugeParam: value receiver matches channel semantics
	if t.Reply != nil {
		select {
		case t.Reply <- Result{Err: err}:
		default:
		}
	}
	if t.OnDone != nil {
		t.OnDone()
	}
}

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a task. It fails with ErrFull or ErrClosed instead of blocking.
	Enqueue(ctx context.Context, t Task) error

	// Dequeue returns a channel that receives tasks as they become available.
	// The channel is closed when the queue is closed and drained.
	Dequeue(ctx context.Context) <-chan Task

	// Len returns the current number of queued tasks.
	Len(ctx context.Context) int

	// Close stops accepting tasks.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	tasks    chan Task
	capacity int
	mu       sync.RWMutex
	closed   bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity: defaultQueueCapacity,
	}
	for _, opt := range opts {
		opt(q)
	}
	q.tasks = make(chan Task, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	return q
}

// Enqueue adds a task to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, t Task) error { //nolint:gocritic // hugeParam: Task is passed by value for channel semantics
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError("closed")
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		metrics.RecordQueueEnqueueError("context_cancelled")
		return err
	}
	if t.Enqueued.IsZero() {
		t.Enqueued = time.Now()
	}

	select {
	case q.tasks <- t:
		metrics.RecordQueueEnqueue()
		metrics.UpdateQueueSize(len(q.tasks))
		return nil
	default:
		metrics.RecordQueueEnqueueError("queue_full")
		return ErrFull
	}
}

// Dequeue returns a channel that receives tasks as they become available.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Task {
	out := make(chan Task)
	go func() {
		defer close(out)
		for t := range q.tasks {
			select {
			case out <- t:
				metrics.RecordQueueDequeue()
				metrics.UpdateQueueSize(len(q.tasks))
			case <-ctx.Done():
				t.Abandon(ErrAbandoned)
				return
			}
		}
	}()
	return out
}

// Drain removes every task still queued and abandons it with err. It returns
// the number of tasks drained.
func (q *InMemoryQueue) Drain(err error) int {
	n := 0
	for {
		select {
		case t, ok := <-q.tasks:
			if !ok {
				metrics.UpdateQueueSize(0)
				return n
			}
			t.Abandon(err)
			n++
		default:
			metrics.UpdateQueueSize(len(q.tasks))
			return n
		}
	}
}

// Len returns the current number of queued tasks.
func (q *InMemoryQueue) Len(_ context.Context) int {
	size := len(q.tasks)
	metrics.UpdateQueueSize(size)
	return size
}

// Capacity returns the configured maximum.
func (q *InMemoryQueue) Capacity() int { return q.capacity }

// Close stops accepting tasks. Tasks already queued are still delivered.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.tasks)
	q.closed = true
	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
