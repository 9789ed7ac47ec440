package trend

import (
	"errors"
	"fmt"

	"github.com/jengzang/llm-benchmarks-backend/internal/stats"
)

// ErrInsufficientData is returned when a trend window holds fewer than two points
var ErrInsufficientData = errors.New("insufficient data for trend fit")

// Fit is a least-squares line over window-relative indices 0..N-1
type Fit struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	N         int     `json:"n"`
}

// At evaluates the line at index x
func (f Fit) At(x float64) float64 {
	return f.Slope*x + f.Intercept
}

// FitTrailing fits a line to the last `window` real values of a running-max
// sequence. No-data sentinels are skipped before the window is taken.
func FitTrailing(values []float64, window int) (Fit, error) {
	if window < 2 {
		return Fit{}, fmt.Errorf("window of %d: %w", window, ErrInsufficientData)
	}

	y := make([]float64, 0, window)
	for i := len(values) - 1; i >= 0 && len(y) < window; i-- {
		if HasValue(values[i]) {
			y = append(y, values[i])
		}
	}
	// collected newest first
	for i, j := 0, len(y)-1; i < j; i, j = i+1, j-1 {
		y[i], y[j] = y[j], y[i]
	}

	x := make([]float64, len(y))
	for i := range x {
		x[i] = float64(i)
	}

	slope, intercept, ok := stats.LinearRegression(x, y)
	if !ok {
		return Fit{}, fmt.Errorf("%d points in window: %w", len(y), ErrInsufficientData)
	}
	return Fit{Slope: slope, Intercept: intercept, N: len(y)}, nil
}
