// Package risk provides quantile-based summaries of return arrays.
package risk

import (
	"errors"
	"math"
	"sort"

	"github.com/montanaflynn/stats"
)

var ErrNoReturns = errors.New("no returns to evaluate")

// VaR is the value at risk of a return array: the q-quantile of the
// distribution, interpolated linearly between order statistics
// (rank h = (n-1)q).
func VaR(returns []float64, q float64) (float64, error) {
	if len(returns) == 0 {
		return 0, ErrNoReturns
	}
	sorted := append([]float64(nil), returns...)
	sort.Float64s(sorted)

	h := float64(len(sorted)-1) * q
	lo := int(math.Floor(h))
	hi := int(math.Ceil(h))
	if lo < 0 {
		return sorted[0], nil
	}
	if hi >= len(sorted) {
		return sorted[len(sorted)-1], nil
	}
	return sorted[lo] + (h-float64(lo))*(sorted[hi]-sorted[lo]), nil
}

// CVaR is the conditional value at risk: the mean of all returns at or below
// VaR(q).
func CVaR(returns []float64, q float64) (float64, error) {
	v, err := VaR(returns, q)
	if err != nil {
		return 0, err
	}
	var tail []float64
	for _, r := range returns {
		if r <= v {
			tail = append(tail, r)
		}
	}
	if len(tail) == 0 {
		return v, nil
	}
	return stats.Mean(tail)
}
