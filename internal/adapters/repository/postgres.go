package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Recrutamentebr/recrutamente-sub000/internal/domain/model"
	"github.com/Recrutamentebr/recrutamente-sub000/pkg/logger"
)

const (
	pgSelectJob = `SELECT id, title, company, COALESCE(location, ''), custom_questions, scored_questions, created_at
		FROM jobs WHERE id = $1`
	pgSelectApplication = `SELECT id, job_id, name, COALESCE(email, ''), COALESCE(phone, ''),
		COALESCE(city, ''), COALESCE(state, ''), COALESCE(linkedin, ''), COALESCE(education, ''),
		COALESCE(experience, ''), COALESCE(resume_path, ''), answers, COALESCE(status, ''), submitted_at
		FROM applications`
)

// Postgres is a Store over a pgx connection pool.
type Postgres struct {
	pool *pgxpool.Pool
	log  logger.Logger
}

// NewPostgres connects to databaseURL and verifies the connection.
func NewPostgres(ctx context.Context, databaseURL string, opts ...Option) (*Postgres, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}
	if o.maxConns > 0 {
		cfg.MaxConns = o.maxConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &Postgres{pool: pool, log: o.log.Named("postgres")}, nil
}

// GetJob implements Store.
func (p *Postgres) GetJob(ctx context.Context, id string) (job model.Job, err error) {
	defer observe(DriverPostgres, "get_job")(&err)

	var rawSet, rawScored []byte
	err = p.pool.QueryRow(ctx, pgSelectJob, id).Scan(
		&job.ID, &job.Title, &job.Company, &job.Location, &rawSet, &rawScored, &job.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Job{}, fmt.Errorf("job %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Job{}, fmt.Errorf("failed to load job %s: %w", id, err)
	}
	job.Questions, job.ScoredQuestions, err = decodeQuestions(rawSet, rawScored)
	if err != nil {
		return model.Job{}, fmt.Errorf("job %s: %w", id, err)
	}
	return job, nil
}

func scanApplication(row pgx.Row) (model.Application, error) {
	var (
		a   model.Application
		raw []byte
	)
	c := &a.Candidate
	err := row.Scan(&a.ID, &a.JobID, &c.Name, &c.Email, &c.Phone, &c.City, &c.State,
		&c.LinkedIn, &c.Education, &c.Experience, &c.ResumePath, &raw, &a.Status, &a.SubmittedAt)
	if err != nil {
		return model.Application{}, err
	}
	if a.Answers, err = decodeAnswers(raw); err != nil {
		return model.Application{}, fmt.Errorf("application %s: %w", a.ID, err)
	}
	return a, nil
}

// GetApplication implements Store.
func (p *Postgres) GetApplication(ctx context.Context, id string) (app model.Application, err error) {
	defer observe(DriverPostgres, "get_application")(&err)

	app, err = scanApplication(p.pool.QueryRow(ctx, pgSelectApplication+` WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Application{}, fmt.Errorf("application %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Application{}, fmt.Errorf("failed to load application %s: %w", id, err)
	}
	return app, nil
}

// ListApplications implements Store.
func (p *Postgres) ListApplications(ctx context.Context, jobID string) (apps []model.Application, err error) {
	defer observe(DriverPostgres, "list_applications")(&err)

	rows, err := p.pool.Query(ctx, pgSelectApplication+` WHERE job_id = $1 ORDER BY submitted_at, id`, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications of %s: %w", jobID, err)
	}
	defer rows.Close()

	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list applications of %s: %w", jobID, err)
	}
	p.log.Debug(ctx, "applications listed", logger.String("job", jobID), logger.Int("count", len(apps)))
	return apps, nil
}

// Close implements Store.
func (p *Postgres) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}
