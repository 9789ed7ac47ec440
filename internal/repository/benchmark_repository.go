package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jengzang/llm-benchmarks-backend/internal/models"
)

// BenchmarkRepository handles database operations for benchmarks
type BenchmarkRepository struct {
	db sqlx.ExtContext
}

// NewBenchmarkRepository creates a new benchmark repository
func NewBenchmarkRepository(db sqlx.ExtContext) *BenchmarkRepository {
	return &BenchmarkRepository{db: db}
}

// List returns every benchmark in insertion order
func (r *BenchmarkRepository) List(ctx context.Context) ([]models.Benchmark, error) {
	list := []models.Benchmark{}
	// rowid keeps sqlite in insertion order; postgres falls back to name
	query := `SELECT id, name FROM benchmarks ORDER BY name`
	if r.db.DriverName() == "sqlite" {
		query = `SELECT id, name FROM benchmarks ORDER BY rowid`
	}
	if err := sqlx.SelectContext(ctx, r.db, &list, query); err != nil {
		return nil, fmt.Errorf("failed to query benchmarks: %w", err)
	}
	return list, nil
}

// Get retrieves a benchmark by id
func (r *BenchmarkRepository) Get(ctx context.Context, id string) (*models.Benchmark, error) {
	return r.getBy(ctx, "id", id)
}

// GetByName retrieves a benchmark by its unique name
func (r *BenchmarkRepository) GetByName(ctx context.Context, name string) (*models.Benchmark, error) {
	return r.getBy(ctx, "name", name)
}

func (r *BenchmarkRepository) getBy(ctx context.Context, column, value string) (*models.Benchmark, error) {
	var b models.Benchmark
	query := r.db.Rebind(`SELECT id, name FROM benchmarks WHERE ` + column + ` = ?`)
	if err := sqlx.GetContext(ctx, r.db, &b, query, value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("benchmark %q: %w", value, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get benchmark: %w", err)
	}
	return &b, nil
}

// Insert adds a benchmark; ErrConflict when the id or name already exists
func (r *BenchmarkRepository) Insert(ctx context.Context, b models.Benchmark) error {
	query := r.db.Rebind(`INSERT INTO benchmarks (id, name) VALUES (?, ?) ON CONFLICT DO NOTHING`)
	res, err := r.db.ExecContext(ctx, query, b.ID, b.Name)
	if err != nil {
		return fmt.Errorf("failed to insert benchmark: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("benchmark %q: %w", b.Name, ErrConflict)
	}
	return nil
}

// Delete removes a benchmark by id. Results must be removed first.
func (r *BenchmarkRepository) Delete(ctx context.Context, id string) error {
	query := r.db.Rebind(`DELETE FROM benchmarks WHERE id = ?`)
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete benchmark: %w", err)
	}
	return nil
}

// IDs returns the set of known benchmark ids
func (r *BenchmarkRepository) IDs(ctx context.Context) (map[string]bool, error) {
	var ids []string
	if err := sqlx.SelectContext(ctx, r.db, &ids, `SELECT id FROM benchmarks`); err != nil {
		return nil, fmt.Errorf("failed to query benchmark ids: %w", err)
	}

	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

// Count returns the number of benchmarks
func (r *BenchmarkRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := sqlx.GetContext(ctx, r.db, &n, `SELECT COUNT(*) FROM benchmarks`); err != nil {
		return 0, fmt.Errorf("failed to count benchmarks: %w", err)
	}
	return n, nil
}
