package seed

import (
	"encoding/csv"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/ytheys/agency-radar/internal/model"
)

func loadJSONFile(path string) ([]model.SeedRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "seed: read %s", path)
	}
	return parseJSON(data)
}

func loadYAMLFile(path string) ([]model.SeedRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "seed: read %s", path)
	}
	return parseYAML(data)
}

// loadCSVFile reads a curated spreadsheet export. The header row names the
// columns; order does not matter.
func loadCSVFile(path string) ([]model.SeedRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "seed: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // allow variable fields

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrapf(err, "seed: parse csv %s", path)
	}
	return rowsToSeeds(rows)
}

func loadXLSXFile(path string) ([]model.SeedRecord, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "seed: open xlsx %s", path)
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Errorf("seed: xlsx %s has no sheets", path)
	}

	var rows [][]string
	for _, row := range f.Sheets[0].Rows {
		cells := make([]string, len(row.Cells))
		for i, c := range row.Cells {
			cells[i] = c.String()
		}
		rows = append(rows, cells)
	}
	return rowsToSeeds(rows)
}

// rowsToSeeds maps tabular rows to seed records via the header row.
func rowsToSeeds(rows [][]string) ([]model.SeedRecord, error) {
	if len(rows) == 0 {
		return nil, eris.New("seed: dataset is empty")
	}

	col := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := col["company"]; !ok {
		return nil, eris.New("seed: missing required column: company")
	}
	if _, ok := col["repo"]; !ok {
		return nil, eris.New("seed: missing required column: repo")
	}

	cell := func(row []string, name string) string {
		idx, ok := col[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	seeds := make([]model.SeedRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rec := model.SeedRecord{
			Company: cell(row, "company"),
			Repo:    cell(row, "repo"),
			Logo:    cell(row, "logo"),
			Website: cell(row, "website"),
		}
		if raw := cell(row, "rating_count"); raw != "" {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, eris.Wrapf(err, "seed: row %d: rating_count", i+2)
			}
			rec.RatingCount = &v
		}
		if raw := cell(row, "projects_count"); raw != "" {
			v, err := strconv.Atoi(raw)
			if err != nil {
				return nil, eris.Wrapf(err, "seed: row %d: projects_count", i+2)
			}
			rec.ProjectsCount = &v
		}
		seeds = append(seeds, rec)
	}

	return validate(seeds)
}
