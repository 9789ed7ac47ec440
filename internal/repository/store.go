package repository

import (
	"context"
	"errors"

	"github.com/jengzang/llm-benchmarks-backend/internal/models"
)

// Sentinel errors shared by every Store implementation
var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("already exists")
	ErrBackupUnsupported = errors.New("backup not supported by this store")
)

// DefaultAuthor is recorded for models created implicitly by a saved result
const DefaultAuthor = "Unknown"

// Store is the storage capability the services depend on. SQLStore and
// JSONStore are interchangeable implementations.
type Store interface {
	// Driver names the backing implementation (sqlite, postgres, json)
	Driver() string

	ListModels(ctx context.Context) ([]models.Model, error)
	ListBenchmarks(ctx context.Context) ([]models.Benchmark, error)
	ListResults(ctx context.Context) ([]models.Result, error)

	// AllData returns models, benchmarks and results in one consistent read
	AllData(ctx context.Context) (*models.AllData, error)

	// Observations joins a benchmark's results with each model's category.
	// Results whose model is unknown are omitted. Order is insertion order.
	Observations(ctx context.Context, benchmarkID string) ([]models.Observation, error)

	GetBenchmark(ctx context.Context, id string) (*models.Benchmark, error)

	// AddBenchmark fails with ErrConflict when the id or name is taken
	AddBenchmark(ctx context.Context, b models.Benchmark) error

	// DeleteBenchmarkByName removes a benchmark and its results; ErrNotFound when absent
	DeleteBenchmarkByName(ctx context.Context, name string) (*models.Benchmark, error)

	// SaveResult appends r, creating model first when no model of that name
	// exists. The benchmark must exist (ErrNotFound otherwise).
	SaveResult(ctx context.Context, model models.Model, r models.Result) (modelCreated bool, err error)

	// DeleteModels removes the named models and all their results
	DeleteModels(ctx context.Context, names []string) (int64, error)

	Status(ctx context.Context) (*models.StoreStatus, error)
	Ping(ctx context.Context) error

	// Backup snapshots the store and returns the snapshot location
	Backup(ctx context.Context) (string, error)

	Close() error
}

var (
	_ Store = (*SQLStore)(nil)
	_ Store = (*JSONStore)(nil)
)
