// Package report summarizes strategy results for the CLI.
package report

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"backtester/internal/returns"
	"backtester/internal/risk"
	"backtester/types"
)

// RiskQuantile is the quantile used for the VaR/CVaR columns.
const RiskQuantile = 0.05

// Summary condenses one strategy result into the headline figures.
type Summary struct {
	Strategy string
	From     string
	To       string
	Periods  int

	AvgGeomReturn float64 // geometric mean per period
	AvgLogReturn  float64
	Volatility    float64 // stddev of log returns, per period

	AnnualizedReturn     float64
	AnnualizedVolatility float64

	VaR  float64 // of log returns, at RiskQuantile
	CVaR float64
}

// Summarize computes the summary figures for one result. stepsPerYear is the
// number of return periods per year (12 for monthly data).
func Summarize(res *types.StrategyResult, stepsPerYear float64) (Summary, error) {
	if len(res.Dates) == 0 {
		return Summary{}, risk.ErrNoReturns
	}

	geom := returns.GeomSeries(res.GeomReturns)
	logs := returns.LogSeries(res.LogReturns)

	vol := returns.Volatility(logs)
	avgLog := logs.AverageOverTime()

	vaR, err := risk.VaR(res.LogReturns, RiskQuantile)
	if err != nil {
		return Summary{}, err
	}
	cvaR, err := risk.CVaR(res.LogReturns, RiskQuantile)
	if err != nil {
		return Summary{}, err
	}

	return Summary{
		Strategy:             res.Strategy,
		From:                 res.Dates[0],
		To:                   res.Dates[len(res.Dates)-1],
		Periods:              len(res.Dates),
		AvgGeomReturn:        geom.AverageOverTime(),
		AvgLogReturn:         avgLog,
		Volatility:           vol,
		AnnualizedReturn:     returns.AnnualizedReturn(avgLog, 1/stepsPerYear),
		AnnualizedVolatility: returns.AnnualizedVolatility(vol, 1/stepsPerYear),
		VaR:                  vaR,
		CVaR:                 cvaR,
	}, nil
}

// RenderTable writes the summaries as a terminal table.
func RenderTable(w io.Writer, summaries []Summary) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{
		"Strategy", "From", "To", "Periods",
		"Avg Geom", "Avg Log", "Volatility",
		"Ann. Return", "Ann. Vol",
		"VaR(5%)", "CVaR(5%)",
	})
	for _, s := range summaries {
		t.AppendRow(table.Row{
			s.Strategy, s.From, s.To, s.Periods,
			formatReturn(s.AvgGeomReturn),
			formatReturn(s.AvgLogReturn),
			formatReturn(s.Volatility),
			formatReturn(s.AnnualizedReturn),
			formatReturn(s.AnnualizedVolatility),
			formatReturn(s.VaR),
			formatReturn(s.CVaR),
		})
	}
	t.Render()
}

func formatReturn(v float64) string {
	return fmt.Sprintf("%+.6f", v)
}
