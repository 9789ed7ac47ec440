package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jengzang/llm-benchmarks-backend/internal/models"
	"github.com/jengzang/llm-benchmarks-backend/internal/repository"
	"github.com/jengzang/llm-benchmarks-backend/internal/service"
	"github.com/jengzang/llm-benchmarks-backend/internal/trend"
)

// trendsCmd prints running maxima and projections
var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Print benchmark trend projections",
	Long: `Build the same charts the dashboard serves and print them as tables.
Without --benchmark the average chart and every benchmark are printed.

Examples:
  benchctl trends
  benchctl trends --benchmark mmlu --window 6 --months 12 --clamp range`,
	RunE: runTrends,
}

var (
	trendsBenchmark string
	trendsFilter    models.ChartFilter
)

func init() {
	rootCmd.AddCommand(trendsCmd)

	trendsCmd.Flags().StringVar(&trendsBenchmark, "benchmark", "", "Benchmark id (default: all)")
	trendsCmd.Flags().IntVar(&trendsFilter.Window, "window", 0, "Trailing window size (default from config)")
	trendsCmd.Flags().IntVar(&trendsFilter.Months, "months", 0, "Months to project (default from config)")
	trendsCmd.Flags().StringVar(&trendsFilter.Clamp, "clamp", "", "Clamp mode: none, unit or range")
}

func runTrends(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, err := repository.Open(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer store.Close()

	dashboard := service.NewDashboardService(store, service.DashboardSettings{
		Benchmark:        cfg.TrendOptions(),
		Average:          cfg.AverageOptions(),
		AverageNormalize: cfg.Trend.AverageNormalize,
	}, nil)

	var charts []trend.Chart
	if trendsBenchmark != "" {
		chart, err := dashboard.Chart(ctx, trendsBenchmark, trendsFilter)
		if err != nil {
			return err
		}
		charts = append(charts, *chart)
	} else {
		dash, err := dashboard.Charts(ctx, trendsFilter)
		if err != nil {
			return err
		}
		charts = append(charts, dash.Average)
		charts = append(charts, dash.Benchmarks...)
	}

	for _, c := range charts {
		fmt.Fprintln(cmd.OutOrStdout(), renderChart(c))
	}
	return nil
}
