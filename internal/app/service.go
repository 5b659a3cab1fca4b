// Package service wires the store, the scoring engine and the export
// pipeline into the operations served by the HTTP API and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	exportqueue "github.com/Recrutamentebr/recrutamente-sub000/internal/adapters/mq/queue"
	workerpool "github.com/Recrutamentebr/recrutamente-sub000/internal/adapters/mq/worker"
	"github.com/Recrutamentebr/recrutamente-sub000/internal/adapters/export/sheet"
	"github.com/Recrutamentebr/recrutamente-sub000/internal/adapters/repository"
	"github.com/Recrutamentebr/recrutamente-sub000/internal/domain/dedupe"
	"github.com/Recrutamentebr/recrutamente-sub000/internal/domain/model"
	"github.com/Recrutamentebr/recrutamente-sub000/internal/domain/scoring"
	"github.com/Recrutamentebr/recrutamente-sub000/internal/report"
	"github.com/Recrutamentebr/recrutamente-sub000/pkg/logger"
	"github.com/Recrutamentebr/recrutamente-sub000/pkg/metrics"
)

// Exporter produces report documents.
type Exporter = workerpool.Exporter

// Analysis is the scored view of one questionnaire.
type Analysis struct {
	ApplicationID string                     `json:"application_id,omitempty"`
	Candidate     string                     `json:"candidate,omitempty"`
	Result        scoring.AnalysisResult     `json:"result"`
	Chart         scoring.ChartDataset       `json:"chart"`
	Custom        scoring.CustomScoreSummary `json:"custom"`
}

// Service implements the API dependencies for candidate scoring and reports.
type Service struct {
	mu sync.RWMutex

	store    repository.Store
	exporter Exporter
	scorer   scoring.Scorer
	guard    dedupe.Guard
	queue    *exportqueue.InMemoryQueue
	pool     *workerpool.Pool

	workerCount  int
	queueSize    int
	inflightSize int
	now          func() time.Time

	started bool
	cancel  context.CancelFunc

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the job and application store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithExporter sets the report exporter run by the workers.
func WithExporter(exporter Exporter) Option {
	return func(s *Service) {
		s.exporter = exporter
	}
}

// WithScorer replaces the default scoring engine.
func WithScorer(scorer scoring.Scorer) Option {
	return func(s *Service) {
		if scorer != nil {
			s.scorer = scorer
		}
	}
}

// WithWorkerCount sets the number of export workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum number of queued exports.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithInflightSize caps the number of export keys tracked at once.
func WithInflightSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.inflightSize = size
		}
	}
}

// WithClock sets the clock used for generated file names.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:  runtime.NumCPU(),
		queueSize:    256,
		inflightSize: 10_000,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.scorer == nil {
		log := s.logger
		s.scorer = scoring.NewEngine(scoring.WithUnknownAnswerHook(func(ctx context.Context, answer string) {
			log.Debug(ctx, "answer not in table, default score used", logger.String("answer", answer))
		}))
	}
	return s
}

// Start creates the export queue and starts the worker pool. Workers outlive
// ctx's cancellation; they stop on Stop.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.store == nil || s.exporter == nil {
		return fmt.Errorf("%w: store and exporter are required", ErrNotConfigured)
	}

	s.logger.Info(ctx, "starting report service...")

	s.guard = dedupe.NewInMemoryGuard(dedupe.WithMaxSize(s.inflightSize))
	s.queue = exportqueue.NewInMemoryQueue(exportqueue.WithCapacity(s.queueSize))
	s.pool = workerpool.NewPool(s.workerCount, s.queue, s.exporter)

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	s.pool.Start(runCtx)

	s.started = true
	s.logger.Info(ctx, "report service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("inflightSize", s.inflightSize),
	)
	return nil
}

// Stop drains the export queue and stops the workers. The store is left
// open; its owner closes it.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := context.Background()
	s.logger.Info(ctx, "stopping report service...")

	if err := s.pool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "worker pool shutdown incomplete", logger.Error(err))
	}
	s.cancel()

	s.started = false
	s.logger.Info(ctx, "report service stopped")
}

// Analyze scores a questionnaire that is not stored.
func (s *Service) Analyze(ctx context.Context, answers map[string]string, defs []scoring.ScoredQuestionDefinition) Analysis {
	res := s.scorer.Analyze(ctx, answers)
	return Analysis{
		Result: res,
		Chart:  scoring.ChartData(res),
		Custom: s.scorer.ScoreCustom(ctx, defs, answers),
	}
}

// ValidateQuestion checks an author-scored question definition.
func (s *Service) ValidateQuestion(_ context.Context, def scoring.ScoredQuestionDefinition) error {
	return scoring.ValidateDefinition(def)
}

// ApplicationAnalysis scores a stored application against its job.
func (s *Service) ApplicationAnalysis(ctx context.Context, applicationID string) (Analysis, error) {
	app, job, err := s.loadApplication(ctx, applicationID)
	if err != nil {
		return Analysis{}, err
	}
	a := s.Analyze(ctx, app.Answers, job.ScoredDefinitions())
	a.ApplicationID = app.ID
	a.Candidate = app.Candidate.Name
	return a, nil
}

func (s *Service) loadApplication(ctx context.Context, applicationID string) (model.Application, model.Job, error) {
	app, err := s.store.GetApplication(ctx, applicationID)
	if err != nil {
		return model.Application{}, model.Job{}, err
	}
	job, err := s.store.GetJob(ctx, app.JobID)
	if err != nil {
		return model.Application{}, model.Job{}, err
	}
	return app, job, nil
}

func (s *Service) entry(ctx context.Context, app model.Application, defs []scoring.ScoredQuestionDefinition) report.Entry { //nolint:gocritic // hugeParam: read-only copy
	return report.Entry{
		Application: app,
		Analysis:    s.scorer.Analyze(ctx, app.Answers),
		Custom:      s.scorer.ScoreCustom(ctx, defs, app.Answers),
	}
}

// jobEntries loads and scores every application of a job in submission
// order.
func (s *Service) jobEntries(ctx context.Context, jobID string) (model.Job, []report.Entry, error) {
	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return model.Job{}, nil, err
	}
	apps, err := s.store.ListApplications(ctx, jobID)
	if err != nil {
		return model.Job{}, nil, err
	}
	if len(apps) == 0 {
		return job, nil, fmt.Errorf("job %s: %w", jobID, ErrNoApplications)
	}

	defs := job.ScoredDefinitions()
	entries := make([]report.Entry, len(apps))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i := range apps {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			entries[i] = s.entry(gctx, apps[i], defs)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return model.Job{}, nil, err
	}
	return job, entries, nil
}

// ApplicationReport exports the full report of one candidate.
func (s *Service) ApplicationReport(ctx context.Context, applicationID string) (*report.Document, error) {
	app, job, err := s.loadApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	req := report.Request{
		Mode:    report.ModeSingle,
		Job:     job,
		Entries: []report.Entry{s.entry(ctx, app, job.ScoredDefinitions())},
	}
	return s.export(ctx, exportKey(report.ModeSingle, applicationID), req)
}

// JobReport exports every candidate of a job in roster or batch mode.
func (s *Service) JobReport(ctx context.Context, jobID string, mode report.Mode) (*report.Document, error) {
	if mode != report.ModeRoster && mode != report.ModeBatch {
		return nil, fmt.Errorf("%w: job reports are roster or batch, got %q", report.ErrInvalidRequest, mode)
	}
	job, entries, err := s.jobEntries(ctx, jobID)
	if err != nil {
		return nil, err
	}
	req := report.Request{Mode: mode, Job: job, Entries: entries}
	return s.export(ctx, exportKey(mode, jobID), req)
}

// JobSpreadsheet writes the roster workbook of a job to w and returns its
// file name.
func (s *Service) JobSpreadsheet(ctx context.Context, jobID string, w io.Writer) (string, error) {
	job, entries, err := s.jobEntries(ctx, jobID)
	if err != nil && !errors.Is(err, ErrNoApplications) {
		return "", err
	}
	now := s.now()
	if err := sheet.WriteRoster(w, job, entries, now); err != nil {
		return "", err
	}
	return sheet.Filename(job.Title, now), nil
}

func exportKey(mode report.Mode, id string) string {
	return string(mode) + ":" + id
}

// export hands req to the worker pool and waits for its single result. A
// second export of the same key while the first runs fails with
// dedupe.ErrInFlight. The key is released by the worker, so a caller that
// gives up does not free it early.
func (s *Service) export(ctx context.Context, key string, req report.Request) (*report.Document, error) {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return nil, ErrNotStarted
	}

	if err := s.guard.Acquire(ctx, key); err != nil {
		metrics.RecordExportRejected()
		if errors.Is(err, dedupe.ErrCapacity) {
			return nil, fmt.Errorf("%w: %w", ErrBusy, err)
		}
		return nil, err
	}

	reply := make(chan exportqueue.Result, 1)
	task := exportqueue.Task{
		ID:       uuid.NewString(),
		Key:      key,
		Request:  req,
		Enqueued: time.Now(),
		Reply:    reply,
		OnDone: func() {
			s.guard.Release(context.Background(), key)
			metrics.DecExportsInFlight()
		},
	}
	metrics.IncExportsInFlight()
	if err := s.queue.Enqueue(ctx, task); err != nil {
		metrics.DecExportsInFlight()
		s.guard.Release(ctx, key)
		metrics.RecordExportRejected()
		if errors.Is(err, exportqueue.ErrFull) || errors.Is(err, exportqueue.ErrClosed) {
			return nil, fmt.Errorf("%w: %w", ErrBusy, err)
		}
		return nil, err
	}

	s.logger.Debug(ctx, "export queued",
		logger.String("task", task.ID),
		logger.String("key", key),
		logger.Int("candidates", len(req.Entries)),
	)

	select {
	case res := <-reply:
		if errors.Is(res.Err, exportqueue.ErrAbandoned) {
			return nil, fmt.Errorf("%w: %w", ErrBusy, res.Err)
		}
		return res.Document, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// InFlight lists the exports currently held by the guard.
func (s *Service) InFlight() []dedupe.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.guard == nil {
		return nil
	}
	return s.guard.Snapshot()
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":      s.started,
		"workerCount":  s.workerCount,
		"queueSize":    s.queueSize,
		"inflightSize": s.inflightSize,
	}
	if s.started {
		stats["queueLength"] = s.queue.Len(context.Background())
		stats["inFlight"] = s.guard.Size()
	}
	return stats
}
