package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/jengzang/llm-benchmarks-backend/internal/models"
	"github.com/jengzang/llm-benchmarks-backend/internal/repository"
	"github.com/jengzang/llm-benchmarks-backend/internal/trend"
	"github.com/jengzang/llm-benchmarks-backend/pkg/metrics"
)

// AverageChartName labels the cross-benchmark chart
const AverageChartName = "Average"

// Chart kinds reported to metrics
const (
	chartKindBenchmark = "benchmark"
	chartKindAverage   = "average"
)

// MaxChartWindow and MaxChartMonths bound per-request overrides
const (
	MaxChartWindow = 120
	MaxChartMonths = 60
)

// DashboardSettings holds the configured pipeline options
type DashboardSettings struct {
	Benchmark        trend.Options // Per-benchmark charts
	Average          trend.Options // Cross-benchmark chart
	AverageNormalize bool          // Map each benchmark to [0, 1] before averaging
}

// DashboardService builds trend charts
type DashboardService struct {
	store    repository.Store
	settings DashboardSettings
	metrics  *metrics.Manager
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(store repository.Store, settings DashboardSettings, m *metrics.Manager) *DashboardService {
	return &DashboardService{store: store, settings: settings, metrics: m}
}

// Dashboard is the full chart payload: the average chart first, then one per benchmark
type Dashboard struct {
	Average    trend.Chart   `json:"average"`
	Benchmarks []trend.Chart `json:"benchmarks"`
}

// resolve applies query overrides to the configured options
func resolve(base trend.Options, filter models.ChartFilter) (trend.Options, error) {
	opts := base
	if filter.Window < 0 || filter.Window > MaxChartWindow {
		return opts, fmt.Errorf("%w: window must be between 0 and %d (0 uses the configured default)", ErrInvalidRequest, MaxChartWindow)
	}
	if filter.Months < 0 || filter.Months > MaxChartMonths {
		return opts, fmt.Errorf("%w: months must be between 0 and %d", ErrInvalidRequest, MaxChartMonths)
	}
	if filter.Window > 0 {
		opts.TrendDataPoints = filter.Window
	}
	if filter.Months > 0 {
		opts.PredictionMonths = filter.Months
	}
	if filter.Clamp != "" {
		mode, err := trend.ParseClampMode(filter.Clamp)
		if err != nil {
			return opts, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		opts.Clamp.Mode = mode
	}
	if opts.Clamp.Mode == trend.ClampRange && !(opts.Clamp.Min < opts.Clamp.Max) {
		return opts, fmt.Errorf("%w: clamp range %g..%g is empty", ErrInvalidRequest, opts.Clamp.Min, opts.Clamp.Max)
	}
	return opts, nil
}

// Charts builds the average chart and one chart per benchmark in store order.
// Pipelines run concurrently; a benchmark whose observations cannot be read
// gets an empty chart.
func (s *DashboardService) Charts(ctx context.Context, filter models.ChartFilter) (*Dashboard, error) {
	benchOpts, err := resolve(s.settings.Benchmark, filter)
	if err != nil {
		return nil, err
	}
	avgOpts, err := resolve(s.settings.Average, filter)
	if err != nil {
		return nil, err
	}

	benchmarks, err := s.store.ListBenchmarks(ctx)
	if err != nil {
		return nil, err
	}

	groups := make([]trend.BenchmarkObservations, len(benchmarks))
	for i, b := range benchmarks {
		obs, err := s.store.Observations(ctx, b.ID)
		if err != nil {
			log.Warn().Err(err).Str("benchmark", b.ID).Msg("Failed to load observations, charting as empty")
			obs = nil
		}
		groups[i] = trend.BenchmarkObservations{BenchmarkID: b.ID, Name: b.Name, Observations: obs}
	}

	dashboard := &Dashboard{Benchmarks: make([]trend.Chart, len(groups))}

	var wg sync.WaitGroup
	for i, g := range groups {
		wg.Add(1)
		go func(i int, g trend.BenchmarkObservations) {
			defer wg.Done()
			dashboard.Benchmarks[i] = s.build(g.BenchmarkID, g.Name, g.Observations, benchOpts, chartKindBenchmark)
		}(i, g)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		merged := trend.MergeNormalized(groups, s.settings.AverageNormalize)
		dashboard.Average = s.build(trend.AverageChartID, AverageChartName, merged, avgOpts, chartKindAverage)
	}()
	wg.Wait()

	return dashboard, nil
}

// Chart builds the chart of a single benchmark
func (s *DashboardService) Chart(ctx context.Context, benchmarkID string, filter models.ChartFilter) (*trend.Chart, error) {
	opts, err := resolve(s.settings.Benchmark, filter)
	if err != nil {
		return nil, err
	}

	b, err := s.store.GetBenchmark(ctx, benchmarkID)
	if err != nil {
		return nil, err
	}
	obs, err := s.store.Observations(ctx, b.ID)
	if err != nil {
		return nil, err
	}

	chart := s.build(b.ID, b.Name, obs, opts, chartKindBenchmark)
	return &chart, nil
}

func (s *DashboardService) build(id, name string, obs []models.Observation, opts trend.Options, kind string) trend.Chart {
	chart, outcomes := trend.BuildChartWithOutcomes(id, name, obs, opts)

	s.metrics.RecordChartBuilt(kind)
	for _, o := range outcomes {
		outcome := metrics.FitOK
		if o.Insufficient {
			outcome = metrics.FitInsufficient
			log.Debug().Str("chart", id).Str("category", string(o.Category)).Msg("Not enough data to project")
		}
		s.metrics.RecordTrendFit(string(o.Category), outcome)
	}
	return chart
}
