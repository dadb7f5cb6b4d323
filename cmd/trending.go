package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/ytheys/agency-radar/internal/model"
	"github.com/ytheys/agency-radar/internal/rank"
)

var (
	trendingQuery      string
	trendingDomain     string
	trendingPopularity string
	trendingLimit      int
)

var trendingCmd = &cobra.Command{
	Use:   "trending",
	Short: "Print agencies ranked by trending score",
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

		entries := env.Service.Filter(rank.FilterCriteria{
			Query:      trendingQuery,
			Domain:     trendingDomain,
			Popularity: model.PopularityTier(trendingPopularity),
		})
		if trendingLimit > 0 && len(entries) > trendingLimit {
			entries = entries[:trendingLimit]
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	},
}

func init() {
	trendingCmd.Flags().StringVar(&trendingQuery, "query", "", "substring filter on name, domain or services")
	trendingCmd.Flags().StringVar(&trendingDomain, "domain", "", "exact domain filter")
	trendingCmd.Flags().StringVar(&trendingPopularity, "popularity", "", "popularity tier filter (legendary, famous, popular, rising)")
	trendingCmd.Flags().IntVar(&trendingLimit, "limit", 0, "cap the number of entries (0 = all)")
	rootCmd.AddCommand(trendingCmd)
}
