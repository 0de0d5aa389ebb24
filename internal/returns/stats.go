package returns

import "math"

// AnnualizedReturn scales a total log return to a yearly drift. years is the
// span the input covers, in years: a single average monthly return has
// years = 1/12, a three-year total has years = 3.
func AnnualizedReturn(totalLogReturn, years float64) float64 {
	return totalLogReturn / years
}

// Volatility is the population standard deviation of a log return series.
func Volatility(l LogSeries) float64 {
	if len(l) == 0 {
		return 0
	}
	m := mean(l)
	sum := 0.0
	for _, r := range l {
		d := r - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(l)))
}

// PortfolioVolatility reduces the portfolio axis with static weights first
// (nil means equal weight), then takes the volatility of the resulting
// per-step portfolio series.
func PortfolioVolatility(l LogPanel, weights []float64) float64 {
	return Volatility(l.AverageOverPortfolio(weights))
}

// AnnualizedVolatility scales a per-step volatility by the step size.
// stepYears is the time between datapoints per unit year (monthly data has
// stepYears = 1/12).
func AnnualizedVolatility(volatility, stepYears float64) float64 {
	return volatility / math.Sqrt(stepYears)
}
