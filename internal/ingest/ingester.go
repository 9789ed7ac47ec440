package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/jengzang/llm-benchmarks-backend/internal/models"
	"github.com/jengzang/llm-benchmarks-backend/internal/repository"
	"github.com/jengzang/llm-benchmarks-backend/pkg/metrics"
)

// ConfirmFunc is asked whether unknown benchmark ids may be created
type ConfirmFunc func(newBenchmarks []string) (bool, error)

// Report summarises one ingestion run
type Report struct {
	Inserted          int    `json:"inserted"`
	Updated           int    `json:"updated"`
	Skipped           int    `json:"skipped"`
	ModelsCreated     int    `json:"modelsCreated"`
	BenchmarksCreated int    `json:"benchmarksCreated"`
	BackupPath        string `json:"backupPath,omitempty"`
}

// Option configures an Ingester
type Option func(*Ingester)

// WithMatcher replaces the default Dice matcher
func WithMatcher(m Matcher) Option {
	return func(in *Ingester) {
		if m != nil {
			in.matcher = m
		}
	}
}

// WithConfirm sets the callback consulted before new benchmarks are created
func WithConfirm(fn ConfirmFunc) Option {
	return func(in *Ingester) {
		in.confirm = fn
	}
}

// WithMetrics records row outcomes
func WithMetrics(m *metrics.Manager) Option {
	return func(in *Ingester) {
		in.metrics = m
	}
}

// WithoutBackup skips the pre-ingestion snapshot
func WithoutBackup() Option {
	return func(in *Ingester) {
		in.backup = false
	}
}

// Ingester upserts validated items into a SQL store in one transaction
type Ingester struct {
	store   *repository.SQLStore
	matcher Matcher
	confirm ConfirmFunc
	metrics *metrics.Manager
	backup  bool
}

// New creates an ingester. Without WithConfirm, runs that introduce new
// benchmarks are cancelled.
func New(store *repository.SQLStore, opts ...Option) *Ingester {
	in := &Ingester{
		store:   store,
		matcher: NewDiceMatcher(DefaultSimilarityThreshold),
		backup:  true,
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Run validates items, snapshots the store and applies every item inside one
// transaction. Any failure rolls the whole run back.
func (in *Ingester) Run(ctx context.Context, items []Item) (*Report, error) {
	valid, err := Validate(items)
	if err != nil {
		return nil, err
	}

	report := &Report{}
	if in.backup {
		path, err := in.store.Backup(ctx)
		switch {
		case errors.Is(err, repository.ErrBackupUnsupported):
			log.Warn().Str("driver", in.store.Driver()).Msg("Skipping pre-ingestion backup")
		case err != nil:
			return nil, fmt.Errorf("pre-ingestion backup failed: %w", err)
		default:
			report.BackupPath = path
		}
	}

	err = in.store.InTx(ctx, func(r repository.Repositories) error {
		created, err := in.createBenchmarks(ctx, r, valid)
		if err != nil {
			return err
		}
		report.BenchmarksCreated = created

		names, err := r.Models.Names(ctx)
		if err != nil {
			return err
		}

		for _, item := range valid {
			if err := in.apply(ctx, r, item, &names, report); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	in.metrics.RecordIngestRows(metrics.IngestInserted, report.Inserted)
	in.metrics.RecordIngestRows(metrics.IngestUpdated, report.Updated)
	in.metrics.RecordIngestRows(metrics.IngestSkipped, report.Skipped)

	log.Info().
		Int("inserted", report.Inserted).
		Int("updated", report.Updated).
		Int("skipped", report.Skipped).
		Int("models_created", report.ModelsCreated).
		Int("benchmarks_created", report.BenchmarksCreated).
		Msg("Ingestion committed")
	return report, nil
}

// createBenchmarks inserts unknown benchmark ids (named after themselves)
// once the confirm callback agrees
func (in *Ingester) createBenchmarks(ctx context.Context, r repository.Repositories, items []Item) (int, error) {
	known, err := r.Benchmarks.IDs(ctx)
	if err != nil {
		return 0, err
	}

	var fresh []string
	seen := make(map[string]bool)
	for _, item := range items {
		if !known[item.BenchmarkID] && !seen[item.BenchmarkID] {
			seen[item.BenchmarkID] = true
			fresh = append(fresh, item.BenchmarkID)
		}
	}
	if len(fresh) == 0 {
		return 0, nil
	}

	log.Info().Strs("benchmarks", fresh).Msg("New benchmarks detected")
	ok := false
	if in.confirm != nil {
		if ok, err = in.confirm(fresh); err != nil {
			return 0, err
		}
	}
	if !ok {
		return 0, fmt.Errorf("%w: new benchmarks %v not approved", ErrIngestCancelled, fresh)
	}

	for _, id := range fresh {
		if err := r.Benchmarks.Insert(ctx, models.Benchmark{ID: id, Name: id}); err != nil {
			return 0, err
		}
	}
	return len(fresh), nil
}

func (in *Ingester) apply(ctx context.Context, r repository.Repositories, item Item, names *[]string, report *Report) error {
	name := NormaliseModelName(item.ModelName)
	if canonical, ok := in.matcher.Match(name, *names); ok {
		name = canonical
	}

	author := repository.DefaultAuthor
	created, err := r.Models.InsertIfAbsent(ctx, models.Model{Name: name, Author: &author, OpenClosed: item.OpenClosed})
	if err != nil {
		return err
	}
	if created {
		report.ModelsCreated++
		*names = append(*names, name)
	}

	existing, err := r.Results.Find(ctx, item.Date, name, item.BenchmarkID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		_, err = r.Results.Insert(ctx, models.Result{
			Date:        item.Date,
			ModelName:   name,
			BenchmarkID: item.BenchmarkID,
			Score:       *item.Score,
		})
		if err != nil {
			return err
		}
		report.Inserted++
	case err != nil:
		return err
	case existing.Score != *item.Score:
		if err := r.Results.UpdateScore(ctx, existing.ID, *item.Score); err != nil {
			return err
		}
		report.Updated++
	default:
		log.Debug().Str("model", name).Str("benchmark", item.BenchmarkID).Msg("Skipping duplicate result")
		report.Skipped++
	}
	return nil
}
