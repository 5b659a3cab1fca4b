package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	service "github.com/Recrutamentebr/recrutamente-sub000/internal/app"
	"github.com/Recrutamentebr/recrutamente-sub000/internal/domain/scoring"
	"github.com/Recrutamentebr/recrutamente-sub000/pkg/logger"
)

var scoreInputFile string

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a questionnaire read from a file or stdin",
	Long: `Score a questionnaire without a store. The input is JSON:
{"answers": {"ingles": "Fluente", ...}, "scored_questions": [...]}`,
	RunE: runScore,
}

func init() {
	scoreCmd.Flags().StringVarP(&scoreInputFile, "in", "i", "", "Path to the questionnaire JSON (default: stdin)")
	rootCmd.AddCommand(scoreCmd)
}

type scoreInput struct {
	Answers         map[string]string                  `json:"answers"`
	ScoredQuestions []scoring.ScoredQuestionDefinition `json:"scored_questions"`
}

func runScore(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if _, err := setup(ctx, cmd.ErrOrStderr()); err != nil {
		return err
	}

	var in io.Reader = cmd.InOrStdin()
	if scoreInputFile != "" {
		f, err := os.Open(scoreInputFile)
		if err != nil {
			return fmt.Errorf("failed to open input file: %w", err)
		}
		defer f.Close()
		in = f
	}

	var input scoreInput
	if err := json.NewDecoder(in).Decode(&input); err != nil {
		return fmt.Errorf("failed to decode questionnaire: %w", err)
	}
	if input.Answers == nil {
		return errors.New("questionnaire has no answers field")
	}
	for _, def := range input.ScoredQuestions {
		if err := scoring.ValidateDefinition(def); err != nil {
			return fmt.Errorf("question %q: %w", def.ID, err)
		}
	}

	svc := service.New(service.WithLogger(logger.Named("score")))
	analysis := svc.Analyze(ctx, input.Answers, input.ScoredQuestions)

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(analysis)
}
