package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jengzang/llm-benchmarks-backend/internal/models"
)

// ModelRepository handles database operations for models
type ModelRepository struct {
	db sqlx.ExtContext
}

// NewModelRepository creates a new model repository. db may be a *sqlx.DB or a *sqlx.Tx.
func NewModelRepository(db sqlx.ExtContext) *ModelRepository {
	return &ModelRepository{db: db}
}

// List returns every model ordered by id
func (r *ModelRepository) List(ctx context.Context) ([]models.Model, error) {
	list := []models.Model{}
	query := `SELECT id, name, params, author, open_closed FROM models ORDER BY id`
	if err := sqlx.SelectContext(ctx, r.db, &list, query); err != nil {
		return nil, fmt.Errorf("failed to query models: %w", err)
	}
	return list, nil
}

// Names returns every model name
func (r *ModelRepository) Names(ctx context.Context) ([]string, error) {
	names := []string{}
	if err := sqlx.SelectContext(ctx, r.db, &names, `SELECT name FROM models ORDER BY id`); err != nil {
		return nil, fmt.Errorf("failed to query model names: %w", err)
	}
	return names, nil
}

// GetByName retrieves a model by its unique name
func (r *ModelRepository) GetByName(ctx context.Context, name string) (*models.Model, error) {
	var m models.Model
	query := r.db.Rebind(`SELECT id, name, params, author, open_closed FROM models WHERE name = ?`)
	if err := sqlx.GetContext(ctx, r.db, &m, query, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("model %q: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get model: %w", err)
	}
	return &m, nil
}

// InsertIfAbsent inserts m unless a model with the same name exists and
// reports whether a row was created
func (r *ModelRepository) InsertIfAbsent(ctx context.Context, m models.Model) (bool, error) {
	query := r.db.Rebind(`INSERT INTO models (name, params, author, open_closed)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (name) DO NOTHING`)

	res, err := r.db.ExecContext(ctx, query, m.Name, m.Params, m.Author, m.OpenClosed)
	if err != nil {
		return false, fmt.Errorf("failed to insert model: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n > 0, nil
}

// DeleteByNames deletes the named models and returns how many were removed.
// Results must be removed first.
func (r *ModelRepository) DeleteByNames(ctx context.Context, names []string) (int64, error) {
	if len(names) == 0 {
		return 0, nil
	}

	query, args, err := sqlx.In(`DELETE FROM models WHERE name IN (?)`, names)
	if err != nil {
		return 0, fmt.Errorf("failed to build delete: %w", err)
	}

	res, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete models: %w", err)
	}
	return res.RowsAffected()
}

// Count returns the number of models
func (r *ModelRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := sqlx.GetContext(ctx, r.db, &n, `SELECT COUNT(*) FROM models`); err != nil {
		return 0, fmt.Errorf("failed to count models: %w", err)
	}
	return n, nil
}
