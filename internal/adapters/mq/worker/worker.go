// Package worker runs queued exports on a fixed pool of goroutines.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/Recrutamentebr/recrutamente-sub000/internal/adapters/mq/queue"
	"github.com/Recrutamentebr/recrutamente-sub000/internal/report"
	"github.com/Recrutamentebr/recrutamente-sub000/pkg/logger"
	"github.com/Recrutamentebr/recrutamente-sub000/pkg/metrics"
)

const poolShutdownTimeout = 30 * time.Second

// Exporter produces a document for a request.
type Exporter interface {
	Export(ctx context.Context, req report.Request) (*report.Document, error)
}

// Queue defines how workers receive tasks.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Task
}

// Worker processes tasks until its queue closes or it is shut down.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown stops the worker after the task in hand, if any.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker.
type InMemoryWorker struct {
	queue    Queue
	exporter Exporter
	name     string

	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, exporter Exporter, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    q,
		exporter: exporter,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.Named(w.name)
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	// a task held by the dequeue goroutine is abandoned once Run returns
	dequeueCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	tasks := w.queue.Dequeue(dequeueCtx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case t, ok := <-tasks:
			if !ok {
				return
			}
			w.process(ctx, t)
		}
	}
}

// Shutdown stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.shutdownOnce.Do(func() { close(w.shutdown) })

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// process runs one export and delivers exactly one result.
func (w *InMemoryWorker) process(ctx context.Context, t queue.Task) { //nolint:gocritic // hugeParam: Task is passed by value for channel semantics
	metrics.IncWorkerBusy()
	start := time.Now()
	defer func() {
		metrics.DecWorkerBusy()
		metrics.RecordWorkerTaskLatency(float64(time.Since(start).Milliseconds()))
		if t.OnDone != nil {
			t.OnDone()
		}
	}()

	w.logger.Debug(ctx, "export started",
		logger.String("task", t.ID),
		logger.String("mode", string(t.Request.Mode)),
		logger.Duration("waited", start.Sub(t.Enqueued)),
	)

	doc, err := w.exporter.Export(ctx, t.Request)
	if err != nil {
		metrics.RecordWorkerError()
		w.logger.Error(ctx, "export failed",
			logger.String("task", t.ID),
			logger.Error(err),
		)
		doc = nil
	}

	if t.Reply == nil {
		return
	}
	select {
	case t.Reply <- queue.Result{Document: doc, Err: err}:
	default:
		// the reply channel is buffered by the producer; a full channel
		// means the result was already delivered
		w.logger.Warn(ctx, "result dropped", logger.String("task", t.ID))
	}
}

// Pool manages multiple workers.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	logger  logger.Logger
}

// NewPool creates a pool of workerCount workers. A count below one uses
// runtime.NumCPU.
func NewPool(workerCount int, q Queue, exporter Exporter, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	pool := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := 0; i < workerCount; i++ {
		wopts := append([]Option{WithName("worker-" + strconv.Itoa(i))}, opts...)
		pool.workers[i] = NewInMemoryWorker(q, exporter, wopts...)
	}

	metrics.UpdateWorkerCount(workerCount)
	return pool
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Shutdown closes the queue and lets the workers drain it. Workers still
// busy when ctx (or the pool timeout) expires are told to stop, and tasks
// that will no longer run are answered with queue.ErrAbandoned.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	var firstErr error
	for i, w := range p.workers {
		select {
		case <-w.done:
			continue
		case <-shutdownCtx.Done():
		}
		p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		w.shutdownOnce.Do(func() { close(w.shutdown) })
		if firstErr == nil {
			firstErr = fmt.Errorf("shutdown timed out: %w", shutdownCtx.Err())
		}
	}
	if firstErr != nil {
		if d, ok := p.queue.(interface{ Drain(err error) int }); ok {
			if n := d.Drain(queue.ErrAbandoned); n > 0 {
				p.logger.Warn(ctx, "queued exports abandoned", logger.Int("count", n))
			}
		}
	}
	metrics.UpdateWorkerCount(0)
	return firstErr
}
