package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backtester/internal/market"
	"backtester/types"
)

func newFixtureMarket(t *testing.T, codes []string, bp map[string]map[string]float64) *market.Market {
	t.Helper()

	returns := make(map[string]map[string]float64, len(codes))
	for _, code := range codes {
		returns[code] = map[string]float64{"d1": 0}
	}

	m := market.NewMarket()
	require.NoError(t, m.AddDataSource(market.NewMemoryConnector(market.SourceReturns, []string{"d1"}, codes, returns)))
	require.NoError(t, m.AddDataSource(market.NewMemoryConnector(market.SourceBookToPrice, []string{"d1"}, codes, bp)))
	return m
}

func TestBestBPSortsDescending(t *testing.T) {
	m := newFixtureMarket(t, []string{"1", "2", "3"}, map[string]map[string]float64{
		"1": {"d1": 0.5},
		"2": {"d1": 1.5},
		"3": {"d1": 1.0},
	})

	got, err := BestBP(m, "d1")
	require.NoError(t, err)
	assert.Equal(t, []types.Entry{
		{Code: "2", Value: 1.5},
		{Code: "3", Value: 1.0},
		{Code: "1", Value: 0.5},
	}, got)
}

func TestWorstBPSortsAscending(t *testing.T) {
	m := newFixtureMarket(t, []string{"1", "2", "3"}, map[string]map[string]float64{
		"1": {"d1": 0.5},
		"2": {"d1": 1.5},
		"3": {"d1": 1.0},
	})

	got, err := WorstBP(m, "d1")
	require.NoError(t, err)
	assert.Equal(t, []types.Entry{
		{Code: "1", Value: 0.5},
		{Code: "3", Value: 1.0},
		{Code: "2", Value: 1.5},
	}, got)
}

// Ties preserve the market's instrument iteration order, keeping rankings
// reproducible.
func TestRankingIsStableOnTies(t *testing.T) {
	m := newFixtureMarket(t, []string{"5", "3", "9"}, map[string]map[string]float64{
		"5": {"d1": 1.0},
		"3": {"d1": 1.0},
		"9": {"d1": 1.0},
	})

	best, err := BestBP(m, "d1")
	require.NoError(t, err)
	assert.Equal(t, []string{"5", "3", "9"}, Codes(best))

	worst, err := WorstBP(m, "d1")
	require.NoError(t, err)
	assert.Equal(t, []string{"5", "3", "9"}, Codes(worst))
}

func TestRankingPropagatesMissingData(t *testing.T) {
	m := newFixtureMarket(t, []string{"1"}, map[string]map[string]float64{
		"1": {"d1": 1.0},
	})

	_, err := BestBP(m, "d2")
	assert.ErrorIs(t, err, market.ErrDateNotFound)
}
