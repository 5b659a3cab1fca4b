package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Recrutamentebr/recrutamente-sub000/internal/adapters/repository"
	"github.com/Recrutamentebr/recrutamente-sub000/internal/seed"
	"github.com/Recrutamentebr/recrutamente-sub000/pkg/logger"
)

var (
	seedCfg    = seed.DefaultConfig()
	seedSQLite string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill a local SQLite store with sample jobs and applications",
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&seedSQLite, "sqlite", "", "SQLite database path (default: RECRUTA_STORE__SQLITE_PATH)")
	seedCmd.Flags().IntVar(&seedCfg.Jobs, "jobs", seedCfg.Jobs, "Number of jobs")
	seedCmd.Flags().IntVar(&seedCfg.ApplicationsPerJob, "applications", seedCfg.ApplicationsPerJob, "Applications per job")
	seedCmd.Flags().IntVar(&seedCfg.Workers, "workers", seedCfg.Workers, "Concurrent generators")
	seedCmd.Flags().Float64Var(&seedCfg.SkipRatio, "skip-ratio", seedCfg.SkipRatio, "Share of taxonomy questions left blank")
	seedCmd.Flags().Float64Var(&seedCfg.UnknownRatio, "unknown-ratio", seedCfg.UnknownRatio, "Share of answers outside the answer table")
	seedCmd.Flags().StringVarP(&seedCfg.OutputFile, "out", "o", "", "Also write the generated data as JSON")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg, err := setup(ctx, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	path := seedSQLite
	if path == "" {
		path = cfg.Store.SQLitePath
	}

	store, err := repository.NewSQLite(ctx, path, repository.WithLogger(logger.Named("store")))
	if err != nil {
		return fmt.Errorf("failed to open sqlite store: %w", err)
	}
	defer store.Close()
	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate sqlite store: %w", err)
	}

	ds, _, err := seed.Run(ctx, seedCfg, store)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, job := range ds.Jobs {
		fmt.Fprintf(out, "job\t%s\t%s\n", job.ID, job.Title)
	}
	for _, app := range ds.Applications {
		fmt.Fprintf(out, "application\t%s\t%s\t%s\n", app.ID, app.JobID, app.Candidate.Name)
	}
	return nil
}
