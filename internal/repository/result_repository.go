package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jengzang/llm-benchmarks-backend/internal/models"
)

// ResultRepository handles database operations for benchmark results
type ResultRepository struct {
	db sqlx.ExtContext
}

// NewResultRepository creates a new result repository
func NewResultRepository(db sqlx.ExtContext) *ResultRepository {
	return &ResultRepository{db: db}
}

// List returns every result ordered by id
func (r *ResultRepository) List(ctx context.Context) ([]models.Result, error) {
	list := []models.Result{}
	query := `SELECT id, date, model_name, benchmark_id, score FROM results ORDER BY id`
	if err := sqlx.SelectContext(ctx, r.db, &list, query); err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	return list, nil
}

// Observations joins a benchmark's results with their model categories
func (r *ResultRepository) Observations(ctx context.Context, benchmarkID string) ([]models.Observation, error) {
	list := []models.Observation{}
	query := r.db.Rebind(`SELECT r.date, r.model_name, r.benchmark_id, r.score, m.open_closed
		FROM results r
		JOIN models m ON m.name = r.model_name
		WHERE r.benchmark_id = ?
		ORDER BY r.id`)
	if err := sqlx.SelectContext(ctx, r.db, &list, query, benchmarkID); err != nil {
		return nil, fmt.Errorf("failed to query observations: %w", err)
	}
	return list, nil
}

// Find retrieves the result for a (date, model, benchmark) triple
func (r *ResultRepository) Find(ctx context.Context, date, modelName, benchmarkID string) (*models.Result, error) {
	var res models.Result
	query := r.db.Rebind(`SELECT id, date, model_name, benchmark_id, score
		FROM results
		WHERE date = ? AND model_name = ? AND benchmark_id = ?
		ORDER BY id
		LIMIT 1`)
	if err := sqlx.GetContext(ctx, r.db, &res, query, date, modelName, benchmarkID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find result: %w", err)
	}
	return &res, nil
}

// Insert appends a result and returns its id
func (r *ResultRepository) Insert(ctx context.Context, res models.Result) (int64, error) {
	var id int64
	query := r.db.Rebind(`INSERT INTO results (date, model_name, benchmark_id, score)
		VALUES (?, ?, ?, ?)
		RETURNING id`)
	if err := sqlx.GetContext(ctx, r.db, &id, query, res.Date, res.ModelName, res.BenchmarkID, res.Score); err != nil {
		return 0, fmt.Errorf("failed to insert result: %w", err)
	}
	return id, nil
}

// UpdateScore replaces the score of a result
func (r *ResultRepository) UpdateScore(ctx context.Context, id int64, score float64) error {
	query := r.db.Rebind(`UPDATE results SET score = ? WHERE id = ?`)
	if _, err := r.db.ExecContext(ctx, query, score, id); err != nil {
		return fmt.Errorf("failed to update result: %w", err)
	}
	return nil
}

// DeleteByModels removes every result of the named models
func (r *ResultRepository) DeleteByModels(ctx context.Context, names []string) (int64, error) {
	if len(names) == 0 {
		return 0, nil
	}

	query, args, err := sqlx.In(`DELETE FROM results WHERE model_name IN (?)`, names)
	if err != nil {
		return 0, fmt.Errorf("failed to build delete: %w", err)
	}

	res, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete results: %w", err)
	}
	return res.RowsAffected()
}

// DeleteByBenchmark removes every result reported against a benchmark
func (r *ResultRepository) DeleteByBenchmark(ctx context.Context, benchmarkID string) (int64, error) {
	query := r.db.Rebind(`DELETE FROM results WHERE benchmark_id = ?`)
	res, err := r.db.ExecContext(ctx, query, benchmarkID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete results: %w", err)
	}
	return res.RowsAffected()
}

// Count returns the number of results
func (r *ResultRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := sqlx.GetContext(ctx, r.db, &n, `SELECT COUNT(*) FROM results`); err != nil {
		return 0, fmt.Errorf("failed to count results: %w", err)
	}
	return n, nil
}
