package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jengzang/llm-benchmarks-backend/internal/models"
)

// Sentinel errors for this package
var (
	ErrMalformedObservation = errors.New("malformed observation")
	ErrIngestCancelled      = errors.New("ingestion cancelled")
)

// Item is one result row of an import file
type Item struct {
	Date        string          `json:"date" yaml:"date"`
	ModelName   string          `json:"modelName" yaml:"modelName"`
	BenchmarkID string          `json:"benchmarkId" yaml:"benchmarkId"`
	Score       *float64        `json:"score" yaml:"score"`
	OpenClosed  models.Category `json:"openClosed" yaml:"openClosed"`
}

// LoadFile reads an import file. Files ending in .yaml or .yml are parsed as
// YAML, everything else as JSON. Both hold a top-level list of items.
func LoadFile(path string) ([]Item, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read import file: %w", err)
	}

	var items []Item
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &items)
	default:
		err = json.Unmarshal(raw, &items)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedObservation, filepath.Base(path), err)
	}
	return items, nil
}

// Validate checks every item and returns copies with normalised dates.
// The first invalid item aborts validation.
func Validate(items []Item) ([]Item, error) {
	out := make([]Item, 0, len(items))
	for i, item := range items {
		var missing []string
		if item.Date == "" {
			missing = append(missing, "date")
		}
		if item.ModelName == "" {
			missing = append(missing, "modelName")
		}
		if item.BenchmarkID == "" {
			missing = append(missing, "benchmarkId")
		}
		if item.Score == nil {
			missing = append(missing, "score")
		}
		if item.OpenClosed == "" {
			missing = append(missing, "openClosed")
		}
		if len(missing) > 0 {
			return nil, fmt.Errorf("%w: item %d: missing %s", ErrMalformedObservation, i, strings.Join(missing, ", "))
		}

		date, err := NormaliseDate(item.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: item %d: %v", ErrMalformedObservation, i, err)
		}
		if !item.OpenClosed.Valid() {
			return nil, fmt.Errorf("%w: item %d: openClosed must be 'Open' or 'Closed', got %q", ErrMalformedObservation, i, item.OpenClosed)
		}

		item.Date = date
		out = append(out, item)
	}
	return out, nil
}
