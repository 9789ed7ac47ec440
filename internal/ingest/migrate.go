package ingest

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/jengzang/llm-benchmarks-backend/internal/models"
	"github.com/jengzang/llm-benchmarks-backend/internal/repository"
)

// ImportReport summarises a flat-file import
type ImportReport struct {
	Models     int `json:"models"`
	Benchmarks int `json:"benchmarks"`
	Results    int `json:"results"`
	Skipped    int `json:"skipped"`
}

// ImportAll copies a flat-file snapshot into the SQL store in one transaction.
// Rows that already exist are left alone, so re-running an import is safe.
// Results referencing an unknown model or benchmark are skipped.
func ImportAll(ctx context.Context, store *repository.SQLStore, data *models.AllData) (*ImportReport, error) {
	report := &ImportReport{}

	err := store.InTx(ctx, func(r repository.Repositories) error {
		for _, m := range data.Models {
			if !m.OpenClosed.Valid() {
				log.Warn().Str("model", m.Name).Str("openClosed", string(m.OpenClosed)).Msg("Skipping model with unknown category")
				continue
			}
			created, err := r.Models.InsertIfAbsent(ctx, m)
			if err != nil {
				return err
			}
			if created {
				report.Models++
			}
		}

		for _, b := range data.Benchmarks {
			err := r.Benchmarks.Insert(ctx, b)
			switch {
			case errors.Is(err, repository.ErrConflict):
			case err != nil:
				return err
			default:
				report.Benchmarks++
			}
		}

		names, err := r.Models.Names(ctx)
		if err != nil {
			return err
		}
		knownModels := make(map[string]bool, len(names))
		for _, n := range names {
			knownModels[n] = true
		}
		knownBenchmarks, err := r.Benchmarks.IDs(ctx)
		if err != nil {
			return err
		}

		for _, res := range data.Results {
			if !knownModels[res.ModelName] || !knownBenchmarks[res.BenchmarkID] {
				report.Skipped++
				continue
			}

			existing, err := r.Results.Find(ctx, res.Date, res.ModelName, res.BenchmarkID)
			if err == nil && existing.Score == res.Score {
				report.Skipped++
				continue
			}
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return err
			}

			if _, err := r.Results.Insert(ctx, res); err != nil {
				return err
			}
			report.Results++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Int("models", report.Models).
		Int("benchmarks", report.Benchmarks).
		Int("results", report.Results).
		Int("skipped", report.Skipped).
		Msg("Import committed")
	return report, nil
}
