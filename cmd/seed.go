package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/tealeg/xlsx/v2"
	"gopkg.in/yaml.v3"

	"github.com/ytheys/agency-radar/internal/model"
	"github.com/ytheys/agency-radar/internal/seed"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Inspect and convert agency seed datasets",
}

var seedValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a seed dataset (defaults to the embedded one)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		}

		seeds, err := seed.Load(path)
		if err != nil {
			return err
		}

		source := path
		if source == "" {
			source = "embedded"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d seed records, all valid\n", source, len(seeds))
		return nil
	},
}

var seedConvertOut string

var seedConvertCmd = &cobra.Command{
	Use:   "convert <file>",
	Short: "Convert a seed dataset between formats",
	Long:  "Reads a seed dataset in any supported format (json, yaml, csv, xlsx) and writes it to --out, dispatching on the output extension.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		seeds, err := seed.Load(args[0])
		if err != nil {
			return err
		}

		if err := writeSeeds(seedConvertOut, seeds); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d seed records to %s\n", len(seeds), seedConvertOut)
		return nil
	},
}

func writeSeeds(path string, seeds []model.SeedRecord) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err := json.MarshalIndent(seeds, "", "  ")
		if err != nil {
			return eris.Wrap(err, "marshal seeds")
		}
		return os.WriteFile(path, data, 0o644)
	case ".yaml", ".yml":
		data, err := yaml.Marshal(seeds)
		if err != nil {
			return eris.Wrap(err, "marshal seeds")
		}
		return os.WriteFile(path, data, 0o644)
	case ".csv":
		return writeSeedsCSV(path, seeds)
	case ".xlsx":
		return writeSeedsXLSX(path, seeds)
	default:
		return eris.Errorf("unsupported output format %q", filepath.Ext(path))
	}
}

var seedColumns = []string{"company", "repo", "logo", "rating_count", "projects_count", "website"}

func seedRow(s model.SeedRecord) []string {
	rating, projects := "", ""
	if s.RatingCount != nil {
		rating = strconv.FormatFloat(*s.RatingCount, 'f', -1, 64)
	}
	if s.ProjectsCount != nil {
		projects = strconv.Itoa(*s.ProjectsCount)
	}
	return []string{s.Company, s.Repo, s.Logo, rating, projects, s.Website}
}

func writeSeedsCSV(path string, seeds []model.SeedRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "create %s", path)
	}
	defer f.Close() //nolint:errcheck

	w := csv.NewWriter(f)
	if err := w.Write(seedColumns); err != nil {
		return eris.Wrap(err, "write header")
	}
	for _, s := range seeds {
		if err := w.Write(seedRow(s)); err != nil {
			return eris.Wrap(err, "write row")
		}
	}
	w.Flush()
	return eris.Wrap(w.Error(), "flush csv")
}

func writeSeedsXLSX(path string, seeds []model.SeedRecord) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("seeds")
	if err != nil {
		return eris.Wrap(err, "add sheet")
	}

	header := sheet.AddRow()
	for _, name := range seedColumns {
		header.AddCell().SetString(name)
	}
	for _, s := range seeds {
		row := sheet.AddRow()
		for _, val := range seedRow(s) {
			row.AddCell().SetString(val)
		}
	}

	return eris.Wrapf(f.Save(path), "save %s", path)
}

func init() {
	seedConvertCmd.Flags().StringVar(&seedConvertOut, "out", "", "output file (extension selects the format)")
	_ = seedConvertCmd.MarkFlagRequired("out")

	seedCmd.AddCommand(seedValidateCmd)
	seedCmd.AddCommand(seedConvertCmd)
	rootCmd.AddCommand(seedCmd)
}
