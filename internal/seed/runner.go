package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Recrutamentebr/recrutamente-sub000/internal/domain/model"
	"github.com/Recrutamentebr/recrutamente-sub000/pkg/logger"
)

const directoryPermission = 0o750

// ErrInvalidConfig is returned for non-positive sizes.
var ErrInvalidConfig = errors.New("invalid seed config")

// Saver persists generated records.
type Saver interface {
	SaveJob(ctx context.Context, job model.Job) error
	SaveApplication(ctx context.Context, app model.Application) error
}

// Run generates a dataset and saves it through s.
func Run(ctx context.Context, cfg Config, s Saver) (Dataset, Stats, error) {
	stats := Stats{StartTime: time.Now()}
	if cfg.Jobs < 1 || cfg.ApplicationsPerJob < 0 {
		return Dataset{}, stats, fmt.Errorf("%w: jobs=%d applications=%d", ErrInvalidConfig, cfg.Jobs, cfg.ApplicationsPerJob)
	}

	ds, err := generate(ctx, cfg, &stats)
	if err != nil {
		return Dataset{}, stats, fmt.Errorf("generation failed: %w", err)
	}

	for _, job := range ds.Jobs {
		if err := s.SaveJob(ctx, job); err != nil {
			return ds, stats, fmt.Errorf("save job %s: %w", job.ID, err)
		}
		stats.JobsSaved++
	}
	for _, app := range ds.Applications {
		if err := s.SaveApplication(ctx, app); err != nil {
			return ds, stats, fmt.Errorf("save application %s: %w", app.ID, err)
		}
		stats.ApplicationsSaved++
	}

	if cfg.OutputFile != "" {
		if err := saveToFile(ctx, cfg.OutputFile, ds); err != nil {
			logger.Get().Warn(ctx, "failed to save dataset to file", logger.Error(err))
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	logger.Get().Info(ctx, "seed finished",
		logger.Int("jobs", stats.JobsSaved),
		logger.Int("applications", stats.ApplicationsSaved),
		logger.Int("answers", stats.AnswersGenerated),
		logger.Int("unknownAnswers", stats.UnknownAnswers),
		logger.Duration("duration", stats.Duration),
	)
	return ds, stats, nil
}

// saveToFile writes the dataset as indented JSON.
func saveToFile(ctx context.Context, filename string, ds Dataset) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal dataset: %w", err)
	}
	if err := os.WriteFile(filename, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	logger.Get().Info(ctx, "dataset saved to file", logger.String("filename", filename))
	return nil
}
