package trend

import (
	"math"
	"sort"

	"github.com/jengzang/llm-benchmarks-backend/internal/models"
)

// noValue marks a category that has not been observed yet at a given date
var noValue = math.Inf(-1)

// RunningMaxPoint is the best score seen for a category at or before Date
type RunningMaxPoint struct {
	Date       Month
	Category   models.Category
	ValueSoFar float64
}

// Series holds the running maxima of both categories, aligned to one date axis.
// Open and Closed carry -Inf until the category's first observation.
type Series struct {
	Dates        []Month
	Open         []float64
	Closed       []float64
	OpenModels   []string // Model observed at that index, empty otherwise
	ClosedModels []string
	Skipped      int // Observations dropped for an unparseable date, unknown category or NaN score
}

type datedObservation struct {
	month Month
	obs   models.Observation
}

// BuildSeries sorts observations by month (stable on ties) and computes the
// running maximum of each category, emitting one aligned point per observation.
func BuildSeries(observations []models.Observation) Series {
	dated := make([]datedObservation, 0, len(observations))
	var s Series
	for _, o := range observations {
		m, err := ParseMonth(o.Date)
		if err != nil || !o.Category.Valid() || math.IsNaN(o.Score) {
			s.Skipped++
			continue
		}
		dated = append(dated, datedObservation{month: m, obs: o})
	}

	sort.SliceStable(dated, func(i, j int) bool {
		return dated[i].month.Before(dated[j].month)
	})

	s.Dates = make([]Month, 0, len(dated))
	s.Open = make([]float64, 0, len(dated))
	s.Closed = make([]float64, 0, len(dated))
	s.OpenModels = make([]string, 0, len(dated))
	s.ClosedModels = make([]string, 0, len(dated))

	openMax, closedMax := noValue, noValue
	for _, d := range dated {
		openModel, closedModel := "", ""
		switch d.obs.Category {
		case models.CategoryOpen:
			openMax = math.Max(openMax, d.obs.Score)
			openModel = d.obs.ModelName
		case models.CategoryClosed:
			closedMax = math.Max(closedMax, d.obs.Score)
			closedModel = d.obs.ModelName
		}

		s.Dates = append(s.Dates, d.month)
		s.Open = append(s.Open, openMax)
		s.Closed = append(s.Closed, closedMax)
		s.OpenModels = append(s.OpenModels, openModel)
		s.ClosedModels = append(s.ClosedModels, closedModel)
	}

	return s
}

// Len returns the number of points on the date axis
func (s Series) Len() int {
	return len(s.Dates)
}

// Values returns the running maximum sequence of a category
func (s Series) Values(c models.Category) []float64 {
	switch c {
	case models.CategoryOpen:
		return s.Open
	case models.CategoryClosed:
		return s.Closed
	}
	return nil
}

// Points returns the running maximum of a category as dated points
func (s Series) Points(c models.Category) []RunningMaxPoint {
	values := s.Values(c)
	points := make([]RunningMaxPoint, len(values))
	for i, v := range values {
		points[i] = RunningMaxPoint{Date: s.Dates[i], Category: c, ValueSoFar: v}
	}
	return points
}

// Last returns the final date and the latest known value of a category.
// ok is false when the category has no data.
func (s Series) Last(c models.Category) (date Month, value float64, ok bool) {
	values := s.Values(c)
	if len(values) == 0 {
		return Month{}, 0, false
	}
	v := values[len(values)-1]
	if !HasValue(v) {
		return Month{}, 0, false
	}
	return s.Dates[len(s.Dates)-1], v, true
}

// HasValue reports whether v is a real observation rather than the no-data sentinel
func HasValue(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}
