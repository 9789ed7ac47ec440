package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/jengzang/llm-benchmarks-backend/internal/models"
	"github.com/jengzang/llm-benchmarks-backend/internal/repository"
	"github.com/jengzang/llm-benchmarks-backend/internal/stats"
)

// Ranking sort orders
const (
	SortAverageScore = "averageScore"
	SortMostRecent   = "mostRecent"
	SortAlphabetical = "alphabetical"
)

// ModelService ranks registered models
type ModelService struct {
	store repository.Store
}

// NewModelService creates a new model service
func NewModelService(store repository.Store) *ModelService {
	return &ModelService{store: store}
}

// Rankings lists every model with its mean raw score and latest result date.
// Sort defaults to averageScore; ties are broken by name.
func (s *ModelService) Rankings(ctx context.Context, filter models.RankingFilter) ([]models.ModelRanking, error) {
	order := filter.Sort
	if order == "" {
		order = SortAverageScore
	}
	switch order {
	case SortAverageScore, SortMostRecent, SortAlphabetical:
	default:
		return nil, fmt.Errorf("%w: unknown sort %q", ErrInvalidRequest, filter.Sort)
	}

	list, err := s.store.ListModels(ctx)
	if err != nil {
		return nil, err
	}
	results, err := s.store.ListResults(ctx)
	if err != nil {
		return nil, err
	}

	scores := make(map[string][]float64)
	latest := make(map[string]string)
	for _, r := range results {
		scores[r.ModelName] = append(scores[r.ModelName], r.Score)
		if r.Date > latest[r.ModelName] {
			latest[r.ModelName] = r.Date
		}
	}

	rankings := make([]models.ModelRanking, 0, len(list))
	for _, m := range list {
		rankings = append(rankings, models.ModelRanking{
			Name:         m.Name,
			OpenClosed:   m.OpenClosed,
			AverageScore: stats.Mean(scores[m.Name]),
			MostRecent:   latest[m.Name],
			ResultCount:  len(scores[m.Name]),
		})
	}

	sort.SliceStable(rankings, func(i, j int) bool {
		a, b := rankings[i], rankings[j]
		switch order {
		case SortAverageScore:
			if a.AverageScore != b.AverageScore {
				return a.AverageScore > b.AverageScore
			}
		case SortMostRecent:
			if a.MostRecent != b.MostRecent {
				return a.MostRecent > b.MostRecent
			}
		}
		return a.Name < b.Name
	})
	return rankings, nil
}
