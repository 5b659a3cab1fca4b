// Package main provides the recrutamente command: the report API server and
// offline scoring, export and seeding tools.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Recrutamentebr/recrutamente-sub000/internal/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "recrutamente",
	Short:         "Candidate scoring and report export",
	Long:          "RecrutaMente scores candidate questionnaires against a competency taxonomy and exports paginated PDF reports.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		if configPath != "" {
			return os.Setenv(config.EnvConfigPath, configPath)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file (overrides "+config.EnvConfigPath+")")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
