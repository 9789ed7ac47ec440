package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jengzang/llm-benchmarks-backend/internal/database"
	"github.com/jengzang/llm-benchmarks-backend/internal/models"
)

// Repositories bundles the table repositories over one connection or transaction
type Repositories struct {
	Models     *ModelRepository
	Benchmarks *BenchmarkRepository
	Results    *ResultRepository
}

// NewRepositories binds all table repositories to db
func NewRepositories(db sqlx.ExtContext) Repositories {
	return Repositories{
		Models:     NewModelRepository(db),
		Benchmarks: NewBenchmarkRepository(db),
		Results:    NewResultRepository(db),
	}
}

// SQLStore implements Store over sqlite or postgres
type SQLStore struct {
	db        *sqlx.DB
	repos     Repositories
	timeout   time.Duration
	backupDir string
}

// NewSQLStore creates a store over an open database. Each call is bounded by
// timeout when it is positive.
func NewSQLStore(db *sqlx.DB, timeout time.Duration, backupDir string) *SQLStore {
	return &SQLStore{
		db:        db,
		repos:     NewRepositories(db),
		timeout:   timeout,
		backupDir: backupDir,
	}
}

// DB returns the underlying connection
func (s *SQLStore) DB() *sqlx.DB {
	return s.db
}

// InTx runs fn with repositories bound to a single transaction
func (s *SQLStore) InTx(ctx context.Context, fn func(Repositories) error) error {
	return database.Transaction(ctx, s.db, func(tx *sqlx.Tx) error {
		return fn(NewRepositories(tx))
	})
}

func (s *SQLStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// Driver implements Store
func (s *SQLStore) Driver() string {
	return s.db.DriverName()
}

// ListModels implements Store
func (s *SQLStore) ListModels(ctx context.Context) ([]models.Model, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repos.Models.List(ctx)
}

// ListBenchmarks implements Store
func (s *SQLStore) ListBenchmarks(ctx context.Context) ([]models.Benchmark, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repos.Benchmarks.List(ctx)
}

// ListResults implements Store
func (s *SQLStore) ListResults(ctx context.Context) ([]models.Result, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repos.Results.List(ctx)
}

// AllData implements Store
func (s *SQLStore) AllData(ctx context.Context) (*models.AllData, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	data := &models.AllData{}
	err := s.InTx(ctx, func(r Repositories) error {
		var err error
		if data.Models, err = r.Models.List(ctx); err != nil {
			return err
		}
		if data.Benchmarks, err = r.Benchmarks.List(ctx); err != nil {
			return err
		}
		data.Results, err = r.Results.List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Observations implements Store
func (s *SQLStore) Observations(ctx context.Context, benchmarkID string) ([]models.Observation, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repos.Results.Observations(ctx, benchmarkID)
}

// GetBenchmark implements Store
func (s *SQLStore) GetBenchmark(ctx context.Context, id string) (*models.Benchmark, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repos.Benchmarks.Get(ctx, id)
}

// AddBenchmark implements Store
func (s *SQLStore) AddBenchmark(ctx context.Context, b models.Benchmark) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repos.Benchmarks.Insert(ctx, b)
}

// DeleteBenchmarkByName implements Store
func (s *SQLStore) DeleteBenchmarkByName(ctx context.Context, name string) (*models.Benchmark, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var deleted *models.Benchmark
	err := s.InTx(ctx, func(r Repositories) error {
		b, err := r.Benchmarks.GetByName(ctx, name)
		if err != nil {
			return err
		}
		if _, err := r.Results.DeleteByBenchmark(ctx, b.ID); err != nil {
			return err
		}
		if err := r.Benchmarks.Delete(ctx, b.ID); err != nil {
			return err
		}
		deleted = b
		return nil
	})
	return deleted, err
}

// SaveResult implements Store
func (s *SQLStore) SaveResult(ctx context.Context, model models.Model, res models.Result) (bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var created bool
	err := s.InTx(ctx, func(r Repositories) error {
		if _, err := r.Benchmarks.Get(ctx, res.BenchmarkID); err != nil {
			return err
		}

		var err error
		if created, err = r.Models.InsertIfAbsent(ctx, model); err != nil {
			return err
		}
		_, err = r.Results.Insert(ctx, res)
		return err
	})
	return created, err
}

// DeleteModels implements Store
func (s *SQLStore) DeleteModels(ctx context.Context, names []string) (int64, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var removed int64
	err := s.InTx(ctx, func(r Repositories) error {
		if _, err := r.Results.DeleteByModels(ctx, names); err != nil {
			return err
		}
		var err error
		removed, err = r.Models.DeleteByNames(ctx, names)
		return err
	})
	return removed, err
}

// Status implements Store
func (s *SQLStore) Status(ctx context.Context) (*models.StoreStatus, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	status := &models.StoreStatus{Driver: s.Driver()}
	var err error
	if status.ModelCount, err = s.repos.Models.Count(ctx); err != nil {
		return nil, err
	}
	if status.BenchmarkCount, err = s.repos.Benchmarks.Count(ctx); err != nil {
		return nil, err
	}
	if status.ResultCount, err = s.repos.Results.Count(ctx); err != nil {
		return nil, err
	}
	return status, nil
}

// Ping implements Store
func (s *SQLStore) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.db.PingContext(ctx)
}

// Backup implements Store. Only sqlite databases can be snapshotted in-process.
func (s *SQLStore) Backup(ctx context.Context) (string, error) {
	if s.Driver() != database.DriverSQLite {
		return "", fmt.Errorf("%s: %w", s.Driver(), ErrBackupUnsupported)
	}
	if s.backupDir == "" {
		return "", errors.New("backup directory not configured")
	}
	return database.BackupSQLite(ctx, s.db, s.backupDir)
}

// Close implements Store
func (s *SQLStore) Close() error {
	return s.db.Close()
}
