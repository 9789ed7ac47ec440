package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/llm-benchmarks-backend/internal/models"
	"github.com/jengzang/llm-benchmarks-backend/internal/trend"
)

func obs(date string, v float64, c models.Category) models.Observation {
	return models.Observation{Date: date, ModelName: "m", BenchmarkID: "b", Score: v, Category: c}
}

func TestRenderChart(t *testing.T) {
	var input []models.Observation
	for i, v := range []float64{10, 20, 30, 40, 50, 60} {
		input = append(input, obs(trend.MustParseMonth("2024-06").AddMonths(i).String(), v, models.CategoryOpen))
	}
	chart := trend.BuildChart("b", "Bench", input, trend.Options{TrendDataPoints: 6, PredictionMonths: 2})

	out := renderChart(chart)
	assert.Contains(t, out, "Bench (b)")
	assert.Contains(t, out, "2024-06")
	assert.Contains(t, out, "60.00")
	assert.Contains(t, out, "2025-01")
	assert.Contains(t, out, "80.00")
	assert.Equal(t, 1, strings.Count(out, "2024-11"), "the anchor month is printed once")

	empty := renderChart(trend.BuildChart("x", "Empty", nil, trend.Options{TrendDataPoints: 6}))
	assert.Contains(t, empty, "no results")
}

func TestRenderSummarySkipsBlankValues(t *testing.T) {
	out := renderSummary("Done", [][2]string{{"Inserted", "3"}, {"Backup", ""}})
	assert.Contains(t, out, "Inserted")
	assert.NotContains(t, out, "Backup")
}

func TestPromptConfirm(t *testing.T) {
	var out bytes.Buffer
	confirm := promptConfirm(strings.NewReader("yes\nn\n"), &out)

	ok, err := confirm([]string{"mmlu", "gpqa"})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, out.String(), "Create 2 new benchmark(s): mmlu, gpqa?")

	ok, err = confirm([]string{"mmlu"})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = confirm([]string{"mmlu"})
	require.NoError(t, err)
	assert.False(t, ok, "EOF declines")
}
