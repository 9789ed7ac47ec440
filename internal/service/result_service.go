package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jengzang/llm-benchmarks-backend/internal/ingest"
	"github.com/jengzang/llm-benchmarks-backend/internal/models"
	"github.com/jengzang/llm-benchmarks-backend/internal/repository"
	"github.com/jengzang/llm-benchmarks-backend/internal/trend"
)

// ResultService handles result and model mutations
type ResultService struct {
	store repository.Store
	data  *DataService
	now   func() time.Time
}

// NewResultService creates a new result service
func NewResultService(store repository.Store, data *DataService) *ResultService {
	return &ResultService{store: store, data: data, now: time.Now}
}

// SaveResult appends one score, registering the model when it is new.
// An empty date means the current month.
func (s *ResultService) SaveResult(ctx context.Context, req models.SaveResultRequest) (*models.Result, error) {
	if strings.TrimSpace(req.ModelName) == "" || req.BenchmarkID == "" || req.Score == nil {
		return nil, fmt.Errorf("%w: modelName, benchmarkId and score are required", ErrInvalidRequest)
	}
	if !req.OpenClosed.Valid() {
		return nil, fmt.Errorf("%w: openClosed must be 'Open' or 'Closed'", ErrInvalidRequest)
	}

	date := trend.MonthOf(s.now()).String()
	if req.Date != "" {
		var err error
		if date, err = ingest.NormaliseDate(req.Date); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
	}

	author := repository.DefaultAuthor
	model := models.Model{Name: strings.TrimSpace(req.ModelName), Author: &author, OpenClosed: req.OpenClosed}
	result := models.Result{Date: date, ModelName: model.Name, BenchmarkID: req.BenchmarkID, Score: *req.Score}

	created, err := s.store.SaveResult(ctx, model, result)
	if err != nil {
		return nil, err
	}
	s.data.Invalidate(ctx)

	log.Info().
		Str("model", model.Name).
		Str("benchmark", req.BenchmarkID).
		Str("date", date).
		Bool("model_created", created).
		Msg("Result saved")
	return &result, nil
}

// DeleteModels removes the named models together with their results
func (s *ResultService) DeleteModels(ctx context.Context, names []string) (int64, error) {
	if len(names) == 0 {
		return 0, fmt.Errorf("%w: modelNames must not be empty", ErrInvalidRequest)
	}

	removed, err := s.store.DeleteModels(ctx, names)
	if err != nil {
		return 0, err
	}
	s.data.Invalidate(ctx)
	log.Info().Strs("models", names).Int64("removed", removed).Msg("Models deleted")
	return removed, nil
}

// BenchmarkService handles benchmark registration
type BenchmarkService struct {
	store repository.Store
	data  *DataService
	newID func() string
}

// NewBenchmarkService creates a new benchmark service
func NewBenchmarkService(store repository.Store, data *DataService) *BenchmarkService {
	return &BenchmarkService{store: store, data: data, newID: uuid.NewString}
}

// AddBenchmark registers a benchmark under a generated id
func (s *BenchmarkService) AddBenchmark(ctx context.Context, name string) (*models.Benchmark, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: benchmark name must not be empty", ErrInvalidRequest)
	}

	b := models.Benchmark{ID: s.newID(), Name: name}
	if err := s.store.AddBenchmark(ctx, b); err != nil {
		return nil, err
	}
	s.data.Invalidate(ctx)
	log.Info().Str("id", b.ID).Str("name", b.Name).Msg("Benchmark added")
	return &b, nil
}

// DeleteBenchmark removes a benchmark by name with all of its results
func (s *BenchmarkService) DeleteBenchmark(ctx context.Context, name string) (*models.Benchmark, error) {
	b, err := s.store.DeleteBenchmarkByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, err
	}
	s.data.Invalidate(ctx)
	log.Info().Str("id", b.ID).Str("name", b.Name).Msg("Benchmark deleted")
	return b, nil
}
