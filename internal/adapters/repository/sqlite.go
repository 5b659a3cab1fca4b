package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/Recrutamentebr/recrutamente-sub000/internal/domain/model"
	"github.com/Recrutamentebr/recrutamente-sub000/pkg/logger"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS jobs (
	id               TEXT PRIMARY KEY,
	title            TEXT NOT NULL,
	company          TEXT NOT NULL DEFAULT '',
	location         TEXT,
	custom_questions TEXT,
	scored_questions TEXT,
	created_at       TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS applications (
	id           TEXT PRIMARY KEY,
	job_id       TEXT NOT NULL REFERENCES jobs(id),
	name         TEXT NOT NULL,
	email        TEXT,
	phone        TEXT,
	city         TEXT,
	state        TEXT,
	linkedin     TEXT,
	education    TEXT,
	experience   TEXT,
	resume_path  TEXT,
	answers      TEXT,
	status       TEXT,
	submitted_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_applications_job ON applications(job_id, submitted_at);
`

const (
	sqlSelectJob = `SELECT id, title, company, COALESCE(location, ''), custom_questions, scored_questions, created_at
		FROM jobs WHERE id = ?`
	sqlSelectApplication = `SELECT id, job_id, name, COALESCE(email, ''), COALESCE(phone, ''),
		COALESCE(city, ''), COALESCE(state, ''), COALESCE(linkedin, ''), COALESCE(education, ''),
		COALESCE(experience, ''), COALESCE(resume_path, ''), answers, COALESCE(status, ''), submitted_at
		FROM applications`
)

// SQLite is a Store over a local database file, used for development and
// seeding.
type SQLite struct {
	db  *sql.DB
	log logger.Logger
}

// NewSQLite opens the database at path. ":memory:" gives a private
// in-memory database.
func NewSQLite(ctx context.Context, path string, opts ...Option) (*SQLite, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite %s: %w", path, err)
	}
	// one connection keeps ":memory:" databases shared and serializes writers
	db.SetMaxOpenConns(1)

	pragma := fmt.Sprintf("PRAGMA busy_timeout = %d; PRAGMA foreign_keys = ON;", o.busyTimeout.Milliseconds())
	if _, err := db.ExecContext(ctx, pragma); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to configure sqlite: %w", err)
	}
	return &SQLite{db: db, log: o.log.Named("sqlite")}, nil
}

// Migrate creates the schema if it does not exist.
func (s *SQLite) Migrate(ctx context.Context) (err error) {
	defer observe(DriverSQLite, "migrate")(&err)
	if _, err = s.db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("failed to migrate sqlite: %w", err)
	}
	return nil
}

// SaveJob inserts or replaces a job.
func (s *SQLite) SaveJob(ctx context.Context, job model.Job) (err error) {
	defer observe(DriverSQLite, "save_job")(&err)

	set, scored, err := encodeQuestions(job)
	if err != nil {
		return fmt.Errorf("failed to encode job %s: %w", job.ID, err)
	}
	created := job.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO jobs (id, title, company, location, custom_questions, scored_questions, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		job.ID, job.Title, job.Company, job.Location, string(set), string(scored), formatTime(created),
	)
	if err != nil {
		return fmt.Errorf("failed to save job %s: %w", job.ID, err)
	}
	return nil
}

// SaveApplication inserts or replaces an application. Nil answers are stored
// as NULL.
func (s *SQLite) SaveApplication(ctx context.Context, app model.Application) (err error) {
	defer observe(DriverSQLite, "save_application")(&err)

	var answers any
	if app.Answers != nil {
		raw, err := json.Marshal(app.Answers)
		if err != nil {
			return fmt.Errorf("failed to encode application %s: %w", app.ID, err)
		}
		answers = string(raw)
	}
	submitted := app.SubmittedAt
	if submitted.IsZero() {
		submitted = time.Now()
	}
	c := app.Candidate
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO applications (id, job_id, name, email, phone, city, state, linkedin,
			education, experience, resume_path, answers, status, submitted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		app.ID, app.JobID, c.Name, c.Email, c.Phone, c.City, c.State, c.LinkedIn,
		c.Education, c.Experience, c.ResumePath, answers, app.Status, formatTime(submitted),
	)
	if err != nil {
		return fmt.Errorf("failed to save application %s: %w", app.ID, err)
	}
	return nil
}

// GetJob implements Store.
func (s *SQLite) GetJob(ctx context.Context, id string) (job model.Job, err error) {
	defer observe(DriverSQLite, "get_job")(&err)

	var (
		rawSet, rawScored sql.NullString
		created           string
	)
	err = s.db.QueryRowContext(ctx, sqlSelectJob, id).Scan(
		&job.ID, &job.Title, &job.Company, &job.Location, &rawSet, &rawScored, &created,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Job{}, fmt.Errorf("job %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Job{}, fmt.Errorf("failed to load job %s: %w", id, err)
	}
	if job.CreatedAt, err = parseTime(created); err != nil {
		return model.Job{}, fmt.Errorf("job %s: %w", id, err)
	}
	job.Questions, job.ScoredQuestions, err = decodeQuestions([]byte(rawSet.String), []byte(rawScored.String))
	if err != nil {
		return model.Job{}, fmt.Errorf("job %s: %w", id, err)
	}
	return job, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteApplication(row rowScanner) (model.Application, error) {
	var (
		a         model.Application
		raw       sql.NullString
		submitted string
	)
	c := &a.Candidate
	err := row.Scan(&a.ID, &a.JobID, &c.Name, &c.Email, &c.Phone, &c.City, &c.State,
		&c.LinkedIn, &c.Education, &c.Experience, &c.ResumePath, &raw, &a.Status, &submitted)
	if err != nil {
		return model.Application{}, err
	}
	if a.SubmittedAt, err = parseTime(submitted); err != nil {
		return model.Application{}, fmt.Errorf("application %s: %w", a.ID, err)
	}
	if a.Answers, err = decodeAnswers([]byte(raw.String)); err != nil {
		return model.Application{}, fmt.Errorf("application %s: %w", a.ID, err)
	}
	return a, nil
}

// GetApplication implements Store.
func (s *SQLite) GetApplication(ctx context.Context, id string) (app model.Application, err error) {
	defer observe(DriverSQLite, "get_application")(&err)

	app, err = scanSQLiteApplication(s.db.QueryRowContext(ctx, sqlSelectApplication+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Application{}, fmt.Errorf("application %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Application{}, fmt.Errorf("failed to load application %s: %w", id, err)
	}
	return app, nil
}

// ListApplications implements Store.
func (s *SQLite) ListApplications(ctx context.Context, jobID string) (apps []model.Application, err error) {
	defer observe(DriverSQLite, "list_applications")(&err)

	rows, err := s.db.QueryContext(ctx, sqlSelectApplication+` WHERE job_id = ? ORDER BY submitted_at, id`, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications of %s: %w", jobID, err)
	}
	defer rows.Close()

	for rows.Next() {
		a, err := scanSQLiteApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list applications of %s: %w", jobID, err)
	}
	s.log.Debug(ctx, "applications listed", logger.String("job", jobID), logger.Int("count", len(apps)))
	return apps, nil
}

// Close implements Store.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Timestamps are stored as fixed-width UTC text so they sort correctly.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		t, err = time.Parse(time.RFC3339Nano, s)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: timestamp %q", ErrCorrupt, s)
	}
	return t, nil
}
