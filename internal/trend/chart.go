package trend

import (
	"errors"

	"github.com/jengzang/llm-benchmarks-backend/internal/models"
)

// AverageChartID identifies the synthetic cross-benchmark chart
const AverageChartID = "average"

// Options configures one pipeline run
type Options struct {
	TrendDataPoints  int // Trailing window size K
	PredictionMonths int // Months projected past the last observation
	Clamp            Clamp
}

// Chart is the presentation payload for one benchmark
type Chart struct {
	BenchmarkID       string     `json:"benchmarkId"`
	Name              string     `json:"name"`
	Labels            []string   `json:"labels"`
	OpenMax           []*float64 `json:"openMax"`
	ClosedMax         []*float64 `json:"closedMax"`
	OpenModels        []*string  `json:"openModels"`
	ClosedModels      []*string  `json:"closedModels"`
	PredictLabels     []string   `json:"predictLabels"`
	OpenPredictions   []float64  `json:"openPredictions"`
	ClosedPredictions []float64  `json:"closedPredictions"`
	OpenFit           *Fit       `json:"openFit,omitempty"`
	ClosedFit         *Fit       `json:"closedFit,omitempty"`
}

// Empty reports whether the chart has no observed data
func (c Chart) Empty() bool {
	return len(c.Labels) == 0
}

// CategoryOutcome records whether a category could be projected
type CategoryOutcome struct {
	Category     models.Category
	Insufficient bool
}

// BuildChart runs Series Builder -> Trend Fitter -> Projector for one benchmark.
// Categories without enough data get empty predictions; an empty input yields an
// empty chart. The result depends only on its arguments.
func BuildChart(id, name string, observations []models.Observation, opts Options) Chart {
	chart, _ := buildChart(id, name, observations, opts)
	return chart
}

// BuildChartWithOutcomes is BuildChart that also reports per-category fit outcomes
func BuildChartWithOutcomes(id, name string, observations []models.Observation, opts Options) (Chart, []CategoryOutcome) {
	return buildChart(id, name, observations, opts)
}

func buildChart(id, name string, observations []models.Observation, opts Options) (Chart, []CategoryOutcome) {
	series := BuildSeries(observations)

	chart := Chart{
		BenchmarkID:       id,
		Name:              name,
		Labels:            make([]string, series.Len()),
		OpenMax:           nullable(series.Open),
		ClosedMax:         nullable(series.Closed),
		OpenModels:        nullableStrings(series.OpenModels),
		ClosedModels:      nullableStrings(series.ClosedModels),
		PredictLabels:     []string{},
		OpenPredictions:   []float64{},
		ClosedPredictions: []float64{},
	}
	for i, d := range series.Dates {
		chart.Labels[i] = d.String()
	}

	if series.Len() == 0 {
		return chart, nil
	}

	last := series.Dates[series.Len()-1]
	chart.PredictLabels = ProjectLabels(last, opts.PredictionMonths)

	var outcomes []CategoryOutcome
	for _, c := range []models.Category{models.CategoryOpen, models.CategoryClosed} {
		predictions, fit, err := predict(series, c, last, opts)
		outcomes = append(outcomes, CategoryOutcome{
			Category:     c,
			Insufficient: errors.Is(err, ErrInsufficientData),
		})
		if err != nil {
			continue
		}

		switch c {
		case models.CategoryOpen:
			chart.OpenPredictions = predictions
			chart.OpenFit = fit
		case models.CategoryClosed:
			chart.ClosedPredictions = predictions
			chart.ClosedFit = fit
		}
	}

	return chart, outcomes
}

func predict(series Series, c models.Category, last Month, opts Options) ([]float64, *Fit, error) {
	_, lastValue, ok := series.Last(c)
	if !ok {
		return nil, nil, ErrInsufficientData
	}

	fit, err := FitTrailing(series.Values(c), opts.TrendDataPoints)
	if err != nil {
		return nil, nil, err
	}

	projections := Project(fit, last, lastValue, opts.PredictionMonths, opts.Clamp)
	values := make([]float64, len(projections))
	for i, p := range projections {
		values[i] = p.Value
	}
	return values, &fit, nil
}

func nullable(values []float64) []*float64 {
	out := make([]*float64, len(values))
	for i := range values {
		if HasValue(values[i]) {
			v := values[i]
			out[i] = &v
		}
	}
	return out
}

func nullableStrings(values []string) []*string {
	out := make([]*string, len(values))
	for i := range values {
		if values[i] != "" {
			v := values[i]
			out[i] = &v
		}
	}
	return out
}
