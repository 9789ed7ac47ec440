package trend

import (
	"github.com/jengzang/llm-benchmarks-backend/internal/models"
	"github.com/jengzang/llm-benchmarks-backend/internal/stats"
)

// BenchmarkObservations groups one benchmark's observations
type BenchmarkObservations struct {
	BenchmarkID  string
	Name         string
	Observations []models.Observation
}

type mergeKey struct {
	date     string
	category models.Category
}

// MergeNormalized folds several benchmarks into one synthetic series.
// When normalize is set, each benchmark's scores are first mapped to [0, 1]
// using that benchmark's own min and max. Scores sharing a (date, category)
// are then averaged across benchmarks. Output order is first-seen order, so
// the result depends only on the order of groups.
func MergeNormalized(groups []BenchmarkObservations, normalize bool) []models.Observation {
	var order []mergeKey
	sums := make(map[mergeKey][]float64)

	for _, g := range groups {
		if len(g.Observations) == 0 {
			continue
		}

		scores := make([]float64, len(g.Observations))
		for i, o := range g.Observations {
			scores[i] = o.Score
		}
		min, max := stats.Min(scores), stats.Max(scores)

		for _, o := range g.Observations {
			score := o.Score
			if normalize {
				score = stats.NormalizeValue(score, min, max)
			}

			date := o.Date
			if m, err := ParseMonth(date); err == nil {
				date = m.String()
			}
			key := mergeKey{date: date, category: o.Category}
			if _, ok := sums[key]; !ok {
				order = append(order, key)
			}
			sums[key] = append(sums[key], score)
		}
	}

	merged := make([]models.Observation, 0, len(order))
	for _, key := range order {
		merged = append(merged, models.Observation{
			Date:     key.date,
			Score:    stats.Mean(sums[key]),
			Category: key.category,
		})
	}
	return merged
}
