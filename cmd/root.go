package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ytheys/agency-radar/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "agency-radar",
	Short: "Agency discovery directory and scoring engine",
	Long:  "Enriches a curated agency seed list with live repository metadata, classifies each agency by domain and popularity, and serves relevance-matched and trending views over HTTP or the CLI.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
