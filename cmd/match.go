package main

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ytheys/agency-radar/internal/enrich"
)

var matchCmd = &cobra.Command{
	Use:   "match <prompt...>",
	Short: "Match agencies against a project description",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("cli"); err != nil {
			return err
		}

		env, err := initDirectory(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		if err := env.Service.Load(ctx); err != nil {
			return err
		}
		logFetchStats(env.Loader)

		result := env.Service.Match(strings.Join(args, " "))

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func logFetchStats(loader *enrich.Loader) {
	stats := loader.Stats()
	zap.L().Info("enrichment complete",
		zap.Int64("fetch_ok", stats.FetchOK),
		zap.Int64("fetch_failed", stats.FetchFailed),
		zap.Int64("cache_hits", stats.CacheHits),
		zap.Int64("cache_misses", stats.CacheMisses),
	)
}

func init() {
	rootCmd.AddCommand(matchCmd)
}
