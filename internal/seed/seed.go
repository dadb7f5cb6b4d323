// Package seed loads the static agency dataset that drives enrichment.
// The dataset is read-only configuration: an embedded default ships with
// the binary, and a file override can supply JSON, YAML, CSV or XLSX.
package seed

import (
	_ "embed"
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/ytheys/agency-radar/internal/model"
)

//go:embed seeds.json
var embeddedSeeds []byte

// Default returns the embedded seed dataset.
func Default() ([]model.SeedRecord, error) {
	return parseJSON(embeddedSeeds)
}

// Load reads seed records from the given file, dispatching on extension.
// An empty path falls back to the embedded dataset.
func Load(path string) ([]model.SeedRecord, error) {
	if path == "" {
		return Default()
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return loadJSONFile(path)
	case ".yaml", ".yml":
		return loadYAMLFile(path)
	case ".csv":
		return loadCSVFile(path)
	case ".xlsx":
		return loadXLSXFile(path)
	default:
		return nil, eris.Errorf("seed: unsupported dataset format %q", filepath.Ext(path))
	}
}

func parseJSON(data []byte) ([]model.SeedRecord, error) {
	var seeds []model.SeedRecord
	if err := json.Unmarshal(data, &seeds); err != nil {
		return nil, eris.Wrap(err, "seed: parse json")
	}
	return validate(seeds)
}

func parseYAML(data []byte) ([]model.SeedRecord, error) {
	var seeds []model.SeedRecord
	if err := yaml.Unmarshal(data, &seeds); err != nil {
		return nil, eris.Wrap(err, "seed: parse yaml")
	}
	return validate(seeds)
}

// validate rejects records missing the two required fields. A broken
// dataset fails as a whole: partial seed lists would silently shrink the
// directory, which is worse than an explicit error.
func validate(seeds []model.SeedRecord) ([]model.SeedRecord, error) {
	for i, s := range seeds {
		if s.Company == "" {
			return nil, eris.Errorf("seed: record %d: company is required", i)
		}
		if s.Repo == "" {
			return nil, eris.Errorf("seed: record %d (%s): repo is required", i, s.Company)
		}
	}
	return seeds, nil
}
