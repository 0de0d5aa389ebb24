// Package returns converts and reduces arrays of investment returns.
//
// Returns come in two representations: geometric (price ratio minus one) and
// logarithmic (natural log of the price ratio). A 1-D series carries an
// implicit time axis; a 2-D panel is time-major with the portfolio axis as
// columns. Reducing over time and reducing over the portfolio axis do not
// commute, so the combined reductions expose both orders explicitly: the
// static-weight form reduces time first (buy once, never rebalance), the
// dynamic-weight form averages the cross-section at every step first
// (rebalance every step). Every method returns a new value, so reductions
// chain left to right.
package returns

import (
	"fmt"
	"math"
)

// GeomSeries is a 1-D array of geometric returns.
type GeomSeries []float64

// GeomPanel is a 2-D array of geometric returns, indexed [time][instrument].
type GeomPanel [][]float64

func (g GeomSeries) ToLog() LogSeries {
	out := make(LogSeries, len(g))
	for i, r := range g {
		out[i] = math.Log(1 + r)
	}
	return out
}

func (g GeomPanel) ToLog() LogPanel {
	out := make(LogPanel, len(g))
	for t, row := range g {
		out[t] = GeomSeries(row).ToLog()
	}
	return out
}

// AverageOverPortfolio treats the series as a portfolio cross-section and
// averages it: the plain arithmetic mean when weights is nil, the weighted
// sum otherwise. Non-nil weights must match the series length; a mismatch
// panics.
func (g GeomSeries) AverageOverPortfolio(weights []float64) float64 {
	if weights == nil {
		return mean(g)
	}
	return dot(g, weights)
}

// AverageOverTime is the geometric mean over the time axis.
func (g GeomSeries) AverageOverTime() float64 {
	return math.Pow(1+g.CompoundOverTime(), 1/float64(len(g))) - 1
}

// CompoundOverTime is the total return over the time axis.
func (g GeomSeries) CompoundOverTime() float64 {
	acc := 1.0
	for _, r := range g {
		acc *= 1 + r
	}
	return acc - 1
}

// AccumulateOverTime is the running total return, one value per prefix.
func (g GeomSeries) AccumulateOverTime() GeomSeries {
	out := make(GeomSeries, len(g))
	acc := 1.0
	for i, r := range g {
		acc *= 1 + r
		out[i] = acc - 1
	}
	return out
}

// AverageOverPortfolio reduces the portfolio axis at every time step with
// static weights (nil means equal weight), yielding a time series.
func (g GeomPanel) AverageOverPortfolio(weights []float64) GeomSeries {
	out := make(GeomSeries, len(g))
	for t, row := range g {
		out[t] = GeomSeries(row).AverageOverPortfolio(weights)
	}
	return out
}

// AverageOverPortfolioDynamic reduces the portfolio axis with per-step
// weights, one weight row per time step. Each weight row must match its
// return row; a mismatch panics.
func (g GeomPanel) AverageOverPortfolioDynamic(weights [][]float64) GeomSeries {
	if len(weights) != len(g) {
		panic(fmt.Sprintf("returns: %d weight rows for %d time steps", len(weights), len(g)))
	}
	out := make(GeomSeries, len(g))
	for t, row := range g {
		out[t] = dot(row, weights[t])
	}
	return out
}

// AverageOverTime reduces the time axis per instrument (geometric mean),
// yielding a portfolio cross-section.
func (g GeomPanel) AverageOverTime() GeomSeries {
	out := make(GeomSeries, g.cols())
	for i := range out {
		out[i] = g.column(i).AverageOverTime()
	}
	return out
}

// CompoundOverTime reduces the time axis per instrument (total return),
// yielding a portfolio cross-section.
func (g GeomPanel) CompoundOverTime() GeomSeries {
	out := make(GeomSeries, g.cols())
	for i := range out {
		out[i] = g.column(i).CompoundOverTime()
	}
	return out
}

// AccumulateOverTime accumulates each instrument's running total return.
func (g GeomPanel) AccumulateOverTime() GeomPanel {
	out := make(GeomPanel, len(g))
	acc := make([]float64, g.cols())
	for i := range acc {
		acc[i] = 1
	}
	for t, row := range g {
		outRow := make([]float64, len(row))
		for i, r := range row {
			acc[i] *= 1 + r
			outRow[i] = acc[i] - 1
		}
		out[t] = outRow
	}
	return out
}

// AverageOverPortfolioAndTime holds static weights: each instrument is
// averaged over time first, then the cross-section is averaged.
func (g GeomPanel) AverageOverPortfolioAndTime(weights []float64) float64 {
	return g.AverageOverTime().AverageOverPortfolio(weights)
}

// AverageOverPortfolioAndTimeDynamic rebalances every step: the cross-section
// is averaged per step first, then the resulting series is averaged over time.
func (g GeomPanel) AverageOverPortfolioAndTimeDynamic(weights [][]float64) float64 {
	return g.AverageOverPortfolioDynamic(weights).AverageOverTime()
}

// CompoundOverPortfolioAndTime holds static weights: compound each instrument
// over time, then average the cross-section. This models buying once and
// never rebalancing.
func (g GeomPanel) CompoundOverPortfolioAndTime(weights []float64) float64 {
	return g.CompoundOverTime().AverageOverPortfolio(weights)
}

// CompoundOverPortfolioAndTimeDynamic rebalances every step: average the
// cross-section per step, then compound the resulting series. In general this
// differs from the static-weight order even for equal weights.
func (g GeomPanel) CompoundOverPortfolioAndTimeDynamic(weights [][]float64) float64 {
	return g.AverageOverPortfolioDynamic(weights).CompoundOverTime()
}

// AccumulateOverPortfolioAndTime holds static weights: accumulate each
// instrument over time, then average the cross-section per step.
func (g GeomPanel) AccumulateOverPortfolioAndTime(weights []float64) GeomSeries {
	return g.AccumulateOverTime().AverageOverPortfolio(weights)
}

// AccumulateOverPortfolioAndTimeDynamic rebalances every step: average the
// cross-section per step, then accumulate the resulting series.
func (g GeomPanel) AccumulateOverPortfolioAndTimeDynamic(weights [][]float64) GeomSeries {
	return g.AverageOverPortfolioDynamic(weights).AccumulateOverTime()
}

func (g GeomPanel) cols() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

func (g GeomPanel) column(i int) GeomSeries {
	col := make(GeomSeries, len(g))
	for t, row := range g {
		col[t] = row[i]
	}
	return col
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func dot(xs, ws []float64) float64 {
	if len(ws) != len(xs) {
		panic(fmt.Sprintf("returns: %d weights for a cross-section of %d", len(ws), len(xs)))
	}
	sum := 0.0
	for i, x := range xs {
		sum += x * ws[i]
	}
	return sum
}
