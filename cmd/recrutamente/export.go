package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	service "github.com/Recrutamentebr/recrutamente-sub000/internal/app"
	"github.com/Recrutamentebr/recrutamente-sub000/internal/report"
	"github.com/Recrutamentebr/recrutamente-sub000/pkg/logger"
)

const modeSheet = "sheet"

var (
	exportApplicationID string
	exportJobID         string
	exportMode          string
	exportOutDir        string
	exportOutFile       string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a report for a stored application or job",
	Long: `Export a report and write it to disk.

  --application <id>                    single candidate PDF
  --job <id> --mode roster|batch        job PDF
  --job <id> --mode sheet               job roster workbook (.xlsx)`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportApplicationID, "application", "", "Application ID for a single candidate report")
	exportCmd.Flags().StringVar(&exportJobID, "job", "", "Job ID for a roster, batch or sheet export")
	exportCmd.Flags().StringVar(&exportMode, "mode", string(report.ModeRoster), "Job export mode: roster, batch or sheet")
	exportCmd.Flags().StringVarP(&exportOutDir, "out-dir", "d", ".", "Directory the file is written to")
	exportCmd.Flags().StringVarP(&exportOutFile, "out", "o", "", "Output file name (default: generated)")
	rootCmd.AddCommand(exportCmd)
}

func validateExportFlags() error {
	switch {
	case exportApplicationID != "" && exportJobID != "":
		return errors.New("cannot use --application with --job")
	case exportApplicationID == "" && exportJobID == "":
		return errors.New("must provide either --application or --job")
	case exportJobID != "" && exportMode != modeSheet &&
		exportMode != string(report.ModeRoster) && exportMode != string(report.ModeBatch):
		return fmt.Errorf("unknown --mode %q: want roster, batch or sheet", exportMode)
	}
	return nil
}

func runExport(cmd *cobra.Command, _ []string) error {
	if err := validateExportFlags(); err != nil {
		return err
	}
	ctx := cmd.Context()
	cfg, err := setup(ctx, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	log := logger.Get()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	compositor, err := newCompositor(cfg)
	if err != nil {
		return fmt.Errorf("failed to create compositor: %w", err)
	}
	svc := service.New(
		service.WithStore(store),
		service.WithExporter(compositor),
		service.WithWorkerCount(1),
		service.WithQueueSize(1),
		service.WithLogger(logger.Named("service")),
	)

	var (
		name string
		body []byte
	)
	if exportJobID != "" && exportMode == modeSheet {
		var buf bytes.Buffer
		if name, err = svc.JobSpreadsheet(ctx, exportJobID, &buf); err != nil {
			return fmt.Errorf("failed to export spreadsheet: %w", err)
		}
		body = buf.Bytes()
	} else {
		if err := svc.Start(ctx); err != nil {
			return fmt.Errorf("failed to start service: %w", err)
		}
		defer svc.Stop()

		var doc *report.Document
		if exportApplicationID != "" {
			doc, err = svc.ApplicationReport(ctx, exportApplicationID)
		} else {
			doc, err = svc.JobReport(ctx, exportJobID, report.Mode(exportMode))
		}
		if err != nil {
			return fmt.Errorf("failed to export report: %w", err)
		}
		name, body = doc.Filename, doc.PDF
		log.Info(ctx, "report exported",
			logger.Int("pages", doc.Pages),
			logger.Bool("fallback", doc.Fallback),
			logger.Int("overflow", doc.Overflow),
		)
	}

	if exportOutFile != "" {
		name = exportOutFile
	}
	path := filepath.Join(exportOutDir, name)
	if err := os.WriteFile(path, body, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}
