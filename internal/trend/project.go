package trend

import (
	"fmt"

	"github.com/jengzang/llm-benchmarks-backend/internal/stats"
)

// ClampMode selects how projected values are bounded
type ClampMode string

// ClampMode constants
const (
	ClampNone  ClampMode = "none"
	ClampUnit  ClampMode = "unit"  // [0, 1], for normalized scores
	ClampRange ClampMode = "range" // [Min, Max]
)

// ParseClampMode validates a clamp mode name; empty means none
func ParseClampMode(s string) (ClampMode, error) {
	switch ClampMode(s) {
	case "", ClampNone:
		return ClampNone, nil
	case ClampUnit, ClampRange:
		return ClampMode(s), nil
	}
	return "", fmt.Errorf("unknown clamp mode %q", s)
}

// Clamp bounds projected values
type Clamp struct {
	Mode ClampMode
	Min  float64
	Max  float64
}

// Apply bounds v according to the clamp mode
func (c Clamp) Apply(v float64) float64 {
	switch c.Mode {
	case ClampUnit:
		return stats.Clamp(v, 0, 1)
	case ClampRange:
		return stats.Clamp(v, c.Min, c.Max)
	}
	return v
}

// Projection is one point of a projected trend line
type Projection struct {
	Date  Month
	Value float64
}

// Project extends fit for `months` calendar months past last.
// The first element repeats (last, lastValue) so a rendered line has no gap;
// month m is evaluated at index fit.N-1+m, continuing the fitted window.
func Project(fit Fit, last Month, lastValue float64, months int, clamp Clamp) []Projection {
	if months < 0 {
		months = 0
	}

	out := make([]Projection, 0, months+1)
	out = append(out, Projection{Date: last, Value: lastValue})
	for m := 1; m <= months; m++ {
		x := float64(fit.N - 1 + m)
		out = append(out, Projection{
			Date:  last.AddMonths(m),
			Value: clamp.Apply(fit.At(x)),
		})
	}
	return out
}

// ProjectLabels returns the anchor month followed by the next `months` months
func ProjectLabels(last Month, months int) []string {
	if months < 0 {
		months = 0
	}
	labels := make([]string, 0, months+1)
	for m := 0; m <= months; m++ {
		labels = append(labels, last.AddMonths(m).String())
	}
	return labels
}
