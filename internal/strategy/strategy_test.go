package strategy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backtester/internal/market"
)

var (
	fixtureDates = []string{"d1", "d2", "d3"}
	fixtureCodes = []string{"A", "B"}

	fixtureReturns = map[string]map[string]float64{
		"A": {"d1": 0.10, "d2": 0.20, "d3": -0.10},
		"B": {"d1": 0.30, "d2": 0.05, "d3": 0.10},
	}
	// A ranks best on d1, B ranks best on d2.
	fixtureBP = map[string]map[string]float64{
		"A": {"d1": 2.0, "d2": 1.0, "d3": 1.0},
		"B": {"d1": 1.0, "d2": 2.0, "d3": 3.0},
	}
)

func newFixtureMarket(t *testing.T) *market.Market {
	t.Helper()
	m := market.NewMarket()
	require.NoError(t, m.AddDataSource(market.NewMemoryConnector(market.SourceReturns, fixtureDates, fixtureCodes, fixtureReturns)))
	require.NoError(t, m.AddDataSource(market.NewMemoryConnector(market.SourceBookToPrice, fixtureDates, fixtureCodes, fixtureBP)))
	return m
}

// A buy-and-hold market portfolio realizes the equal-weight average return at
// every date, including the date it was established.
func TestMarketStrategyEndToEnd(t *testing.T) {
	s := NewMarketStrategy(newFixtureMarket(t))

	res, err := s.Eval(nil)
	require.NoError(t, err)

	// Same length as the timeframe: no decision lag for a static allocation.
	assert.Equal(t, fixtureDates, res.Dates)
	require.Len(t, res.GeomReturns, 3)

	want := []float64{(0.10 + 0.30) / 2, (0.20 + 0.05) / 2, (-0.10 + 0.10) / 2}
	for i := range want {
		assert.InDelta(t, want[i], res.GeomReturns[i], 1e-12)
		assert.InDelta(t, math.Log(1+want[i]), res.LogReturns[i], 1e-12)
	}
}

// Ranked strategies decide at t_i and realize the return at t_{i+1}, so their
// result arrays are one shorter than the timeframe.
func TestBestBPStrategyNoLookahead(t *testing.T) {
	s, err := NewBestBPStrategy(newFixtureMarket(t), 0.5)
	require.NoError(t, err)

	res, err := s.Eval(nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"d2", "d3"}, res.Dates)
	require.Len(t, res.GeomReturns, 2)

	// d1 ranks A best: hold A over (d1,d2]. d2 ranks B best: hold B over (d2,d3].
	assert.InDelta(t, 0.20, res.GeomReturns[0], 1e-12)
	assert.InDelta(t, 0.10, res.GeomReturns[1], 1e-12)
}

func TestWorstBPStrategyShortsTheBottom(t *testing.T) {
	s, err := NewWorstBPStrategy(newFixtureMarket(t), 0.5)
	require.NoError(t, err)

	res, err := s.Eval(nil)
	require.NoError(t, err)

	// d1 ranks B worst: short B over (d1,d2]. d2 ranks A worst: short A.
	require.Len(t, res.GeomReturns, 2)
	assert.InDelta(t, -0.05, res.GeomReturns[0], 1e-12)
	assert.InDelta(t, 0.10, res.GeomReturns[1], 1e-12)
}

func TestLongShortBPStrategy(t *testing.T) {
	s, err := NewLongShortBPStrategy(newFixtureMarket(t), 0.5)
	require.NoError(t, err)

	res, err := s.Eval(nil)
	require.NoError(t, err)

	require.Len(t, res.GeomReturns, 2)
	assert.InDelta(t, 0.20-0.05, res.GeomReturns[0], 1e-12)
	assert.InDelta(t, 0.10+0.10, res.GeomReturns[1], 1e-12)
}

func TestSelectionBounds(t *testing.T) {
	m := newFixtureMarket(t)

	tests := []struct {
		name      string
		selection float64
		wantErr   bool
	}{
		{"zero", 0.0, true},
		{"negative", -0.1, true},
		{"above half", 0.6, true},
		{"lower edge", 0.01, false},
		{"upper edge", 0.5, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBestBPStrategy(m, tt.selection)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSelection)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// A selection that floors to zero names is legal and yields an empty leg with
// zero contribution.
func TestSelectionFlooringToZeroNames(t *testing.T) {
	s, err := NewBestBPStrategy(newFixtureMarket(t), 0.2)
	require.NoError(t, err)

	res, err := s.Eval(nil)
	require.NoError(t, err)
	for _, r := range res.GeomReturns {
		assert.Equal(t, 0.0, r)
	}
}

func TestEvalExplicitTimeframe(t *testing.T) {
	s, err := NewBestBPStrategy(newFixtureMarket(t), 0.5)
	require.NoError(t, err)

	res, err := s.Eval([]string{"d1", "d2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"d2"}, res.Dates)
	require.Len(t, res.GeomReturns, 1)
	assert.InDelta(t, 0.20, res.GeomReturns[0], 1e-12)
}

func TestEvalEmptyMarket(t *testing.T) {
	m := market.NewMarket()

	s := NewMarketStrategy(m)
	_, err := s.Eval(nil)
	assert.ErrorIs(t, err, ErrEmptyTimeframe)
}

func TestRegistry(t *testing.T) {
	m := newFixtureMarket(t)

	for _, name := range Names() {
		s, err := New(name, m, DefaultSelection)
		require.NoError(t, err)
		assert.Equal(t, name, s.Name())
	}

	_, err := New("MomentumStrategy", m, DefaultSelection)
	assert.ErrorIs(t, err, ErrUnknownStrategy)

	assert.Equal(t, []string{"BestBPStrategy", "LongShortBPStrategy", "MarketStrategy", "WorstBPStrategy"}, Names())
}
