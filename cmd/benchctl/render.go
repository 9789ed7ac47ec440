package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jengzang/llm-benchmarks-backend/internal/trend"
)

var (
	boxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	projectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))
)

// renderSummary draws a titled key/value box
func renderSummary(title string, rows [][2]string) string {
	var sb strings.Builder
	sb.WriteString(headerStyle.Render(title))
	for _, r := range rows {
		if r[1] == "" {
			continue
		}
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%-20s %s", r[0], r[1]))
	}
	return boxStyle.Render(sb.String())
}

// renderChart draws a chart as a month/open/closed table. Observed running
// maxima come first, then the projected months.
func renderChart(c trend.Chart) string {
	var sb strings.Builder
	sb.WriteString(headerStyle.Render(fmt.Sprintf("%s (%s)", c.Name, c.BenchmarkID)))
	sb.WriteString("\n")

	if c.Empty() {
		sb.WriteString(mutedStyle.Render("no results"))
		return boxStyle.Render(sb.String())
	}

	sb.WriteString(mutedStyle.Render(fmt.Sprintf("%-9s %10s %10s", "month", "open", "closed")))
	for i, label := range c.Labels {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%-9s %10s %10s", label, cell(c.OpenMax[i]), cell(c.ClosedMax[i])))
	}

	// The first projected month repeats the last observed one
	for i := 1; i < len(c.PredictLabels); i++ {
		line := fmt.Sprintf("%-9s %10s %10s", c.PredictLabels[i], at(c.OpenPredictions, i), at(c.ClosedPredictions, i))
		sb.WriteString("\n")
		sb.WriteString(projectedStyle.Render(line))
	}
	return boxStyle.Render(sb.String())
}

func cell(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *v)
}

func at(values []float64, i int) string {
	if i >= len(values) {
		return "-"
	}
	return fmt.Sprintf("%.2f", values[i])
}
