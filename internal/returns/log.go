package returns

import (
	"fmt"
	"math"
)

// LogSeries is a 1-D array of logarithmic returns.
type LogSeries []float64

// LogPanel is a 2-D array of logarithmic returns, indexed [time][instrument].
type LogPanel [][]float64

func (l LogSeries) ToGeom() GeomSeries {
	out := make(GeomSeries, len(l))
	for i, r := range l {
		out[i] = math.Exp(r) - 1
	}
	return out
}

func (l LogPanel) ToGeom() GeomPanel {
	out := make(GeomPanel, len(l))
	for t, row := range l {
		out[t] = LogSeries(row).ToGeom()
	}
	return out
}

// AverageOverPortfolio averages the cross-section in the geometric domain and
// maps the result back: log returns do not add across a portfolio. Nil
// weights mean an equal-weight average; non-nil weights must match the
// series length.
func (l LogSeries) AverageOverPortfolio(weights []float64) float64 {
	if weights == nil {
		return math.Log(mean(expAll(l)))
	}
	return math.Log(1 + dot(l.ToGeom(), weights))
}

// AverageOverTime is the arithmetic mean: log returns add over time.
func (l LogSeries) AverageOverTime() float64 {
	return mean(l)
}

// CompoundOverTime is the sum over the time axis.
func (l LogSeries) CompoundOverTime() float64 {
	sum := 0.0
	for _, r := range l {
		sum += r
	}
	return sum
}

// AccumulateOverTime is the running sum, one value per prefix.
func (l LogSeries) AccumulateOverTime() LogSeries {
	out := make(LogSeries, len(l))
	sum := 0.0
	for i, r := range l {
		sum += r
		out[i] = sum
	}
	return out
}

// AverageOverPortfolio reduces the portfolio axis at every time step with
// static weights (nil means equal weight), yielding a time series.
func (l LogPanel) AverageOverPortfolio(weights []float64) LogSeries {
	out := make(LogSeries, len(l))
	for t, row := range l {
		out[t] = LogSeries(row).AverageOverPortfolio(weights)
	}
	return out
}

// AverageOverPortfolioDynamic reduces the portfolio axis with per-step
// weights, one weight row per time step. Each weight row must match its
// return row; a mismatch panics.
func (l LogPanel) AverageOverPortfolioDynamic(weights [][]float64) LogSeries {
	if len(weights) != len(l) {
		panic(fmt.Sprintf("returns: %d weight rows for %d time steps", len(weights), len(l)))
	}
	out := make(LogSeries, len(l))
	for t, row := range l {
		out[t] = math.Log(1 + dot(LogSeries(row).ToGeom(), weights[t]))
	}
	return out
}

// AverageOverTime reduces the time axis per instrument (arithmetic mean),
// yielding a portfolio cross-section.
func (l LogPanel) AverageOverTime() LogSeries {
	out := make(LogSeries, l.cols())
	for i := range out {
		out[i] = l.column(i).AverageOverTime()
	}
	return out
}

// CompoundOverTime reduces the time axis per instrument (sum), yielding a
// portfolio cross-section.
func (l LogPanel) CompoundOverTime() LogSeries {
	out := make(LogSeries, l.cols())
	for i := range out {
		out[i] = l.column(i).CompoundOverTime()
	}
	return out
}

// AccumulateOverTime accumulates each instrument's running sum.
func (l LogPanel) AccumulateOverTime() LogPanel {
	out := make(LogPanel, len(l))
	acc := make([]float64, l.cols())
	for t, row := range l {
		outRow := make([]float64, len(row))
		for i, r := range row {
			acc[i] += r
			outRow[i] = acc[i]
		}
		out[t] = outRow
	}
	return out
}

// AverageOverPortfolioAndTime holds static weights: time axis first, then the
// cross-section.
func (l LogPanel) AverageOverPortfolioAndTime(weights []float64) float64 {
	return l.AverageOverTime().AverageOverPortfolio(weights)
}

// AverageOverPortfolioAndTimeDynamic rebalances every step: cross-section
// first, then the time axis.
func (l LogPanel) AverageOverPortfolioAndTimeDynamic(weights [][]float64) float64 {
	return l.AverageOverPortfolioDynamic(weights).AverageOverTime()
}

// CompoundOverPortfolioAndTime holds static weights: sum each instrument over
// time, then average the cross-section.
func (l LogPanel) CompoundOverPortfolioAndTime(weights []float64) float64 {
	return l.CompoundOverTime().AverageOverPortfolio(weights)
}

// CompoundOverPortfolioAndTimeDynamic rebalances every step: average the
// cross-section per step, then sum the resulting series.
func (l LogPanel) CompoundOverPortfolioAndTimeDynamic(weights [][]float64) float64 {
	return l.AverageOverPortfolioDynamic(weights).CompoundOverTime()
}

// AccumulateOverPortfolioAndTime holds static weights: accumulate each
// instrument, then average the cross-section per step.
func (l LogPanel) AccumulateOverPortfolioAndTime(weights []float64) LogSeries {
	return l.AccumulateOverTime().AverageOverPortfolio(weights)
}

// AccumulateOverPortfolioAndTimeDynamic rebalances every step: average the
// cross-section per step, then accumulate the resulting series.
func (l LogPanel) AccumulateOverPortfolioAndTimeDynamic(weights [][]float64) LogSeries {
	return l.AverageOverPortfolioDynamic(weights).AccumulateOverTime()
}

func (l LogPanel) cols() int {
	if len(l) == 0 {
		return 0
	}
	return len(l[0])
}

func (l LogPanel) column(i int) LogSeries {
	col := make(LogSeries, len(l))
	for t, row := range l {
		col[t] = row[i]
	}
	return col
}

func expAll(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = math.Exp(x)
	}
	return out
}
