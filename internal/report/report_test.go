package report

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backtester/internal/risk"
	"backtester/types"
)

func TestSummarizeConstantReturns(t *testing.T) {
	lr := math.Log(1.1)
	res := &types.StrategyResult{
		Strategy:    "MarketStrategy",
		Dates:       []string{"2020-01", "2020-02"},
		GeomReturns: []float64{0.1, 0.1},
		LogReturns:  []float64{lr, lr},
	}

	s, err := Summarize(res, 12)
	require.NoError(t, err)

	assert.Equal(t, "MarketStrategy", s.Strategy)
	assert.Equal(t, "2020-01", s.From)
	assert.Equal(t, "2020-02", s.To)
	assert.Equal(t, 2, s.Periods)

	assert.InDelta(t, 0.1, s.AvgGeomReturn, 1e-12)
	assert.InDelta(t, lr, s.AvgLogReturn, 1e-12)
	assert.InDelta(t, 0.0, s.Volatility, 1e-12)
	// Monthly log returns annualize linearly.
	assert.InDelta(t, 12*lr, s.AnnualizedReturn, 1e-12)
	assert.InDelta(t, 0.0, s.AnnualizedVolatility, 1e-12)

	// With every observation equal, the tail statistics collapse to it.
	assert.InDelta(t, lr, s.VaR, 1e-12)
	assert.InDelta(t, lr, s.CVaR, 1e-12)
}

func TestSummarizeEmptyResult(t *testing.T) {
	_, err := Summarize(&types.StrategyResult{Strategy: "empty"}, 12)
	assert.ErrorIs(t, err, risk.ErrNoReturns)
}

func TestWriteReturnsCSV(t *testing.T) {
	res := &types.StrategyResult{
		Strategy:    "BestBPStrategy",
		Dates:       []string{"d1", "d2"},
		GeomReturns: []float64{0.5, -0.25},
		LogReturns:  []float64{0.25, 0.125},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteReturnsCSV(&buf, res))

	want := "date,geom_return,log_return\n" +
		"d1,0.5,0.25\n" +
		"d2,-0.25,0.125\n"
	assert.Equal(t, want, buf.String())
}

func TestRenderTable(t *testing.T) {
	summaries := []Summary{
		{
			Strategy:      "MarketStrategy",
			From:          "d1",
			To:            "d3",
			Periods:       3,
			AvgGeomReturn: 0.012345,
		},
	}

	var buf bytes.Buffer
	RenderTable(&buf, summaries)

	out := buf.String()
	assert.Contains(t, out, "MarketStrategy")
	assert.Contains(t, out, "+0.012345")
	assert.True(t, strings.Contains(out, "VaR(5%)"))
}
