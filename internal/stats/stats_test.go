package stats_test

import (
	"testing"

	"github.com/jengzang/llm-benchmarks-backend/internal/stats"
	"github.com/smartystreets/goconvey/convey"
)

func TestLinearRegression(t *testing.T) {
	convey.Convey("Given evenly spaced points on a line", t, func() {
		x := []float64{0, 1, 2, 3, 4, 5}
		y := []float64{10, 20, 30, 40, 50, 60}

		convey.Convey("Then slope and intercept are recovered exactly", func() {
			slope, intercept, ok := stats.LinearRegression(x, y)
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(slope, convey.ShouldEqual, 10)
			convey.So(intercept, convey.ShouldEqual, 10)
		})
	})

	convey.Convey("Given degenerate input", t, func() {
		convey.Convey("A single point is not a fit", func() {
			_, _, ok := stats.LinearRegression([]float64{0}, []float64{1})
			convey.So(ok, convey.ShouldBeFalse)
		})

		convey.Convey("Identical x values are not a fit", func() {
			_, _, ok := stats.LinearRegression([]float64{2, 2, 2}, []float64{1, 2, 3})
			convey.So(ok, convey.ShouldBeFalse)
		})

		convey.Convey("Mismatched lengths are not a fit", func() {
			_, _, ok := stats.LinearRegression([]float64{0, 1}, []float64{1})
			convey.So(ok, convey.ShouldBeFalse)
		})
	})
}

func TestAggregation(t *testing.T) {
	convey.Convey("Given a set of scores", t, func() {
		values := []float64{0.5, 0.75, 1.0}

		convey.So(stats.Mean(values), convey.ShouldEqual, 0.75)
		convey.So(stats.Min(values), convey.ShouldEqual, 0.5)
		convey.So(stats.Max(values), convey.ShouldEqual, 1.0)
		convey.So(stats.Normalize(values), convey.ShouldResemble, []float64{0, 0.5, 1})
	})

	convey.Convey("Given an empty slice", t, func() {
		convey.So(stats.Mean(nil), convey.ShouldEqual, 0)
		convey.So(stats.Min(nil), convey.ShouldEqual, 0)
		convey.So(stats.Max(nil), convey.ShouldEqual, 0)
	})

	convey.Convey("Given a zero-width range", t, func() {
		convey.So(stats.Normalize([]float64{3, 3}), convey.ShouldResemble, []float64{0, 0})
	})

	convey.Convey("Clamp limits values to the range", t, func() {
		convey.So(stats.Clamp(1.5, 0, 1), convey.ShouldEqual, 1)
		convey.So(stats.Clamp(-0.5, 0, 1), convey.ShouldEqual, 0)
		convey.So(stats.Clamp(0.3, 0, 1), convey.ShouldEqual, 0.3)
	})
}
