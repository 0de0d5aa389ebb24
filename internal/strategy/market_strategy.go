package strategy

import (
	"backtester/internal/instrument"
	"backtester/internal/market"
	"backtester/types"
)

// MarketStrategy longs an equal-weight portfolio of the entire market and
// never rebalances after the initial purchase.
type MarketStrategy struct {
	market    *market.Market
	portfolio *instrument.Portfolio
}

func NewMarketStrategy(m *market.Market) *MarketStrategy {
	return &MarketStrategy{market: m}
}

func (s *MarketStrategy) Name() string { return "MarketStrategy" }

func (s *MarketStrategy) createPortfolio() {
	s.portfolio = instrument.NewPortfolio(s.market, s.market.GetInstruments(), nil)
}

func (s *MarketStrategy) updatePortfolio(date string) {
	if s.portfolio == nil {
		s.createPortfolio()
	}
	// Holding the market portfolio; membership never changes.
}

// Eval evaluates the buy-and-hold allocation. Since there is no decision to
// lag behind, the return is realized at the same date the portfolio is
// (lazily) established, and the result arrays cover the whole timeframe: the
// first entry is the no-op initial return. The ranked strategies use the
// offset convention instead; see rankedStrategy.Eval.
func (s *MarketStrategy) Eval(timeframe []string) (*types.StrategyResult, error) {
	if len(timeframe) == 0 {
		timeframe = s.market.GetTimeframe()
	}
	if len(timeframe) == 0 {
		return nil, ErrEmptyTimeframe
	}

	res := &types.StrategyResult{
		Strategy:    s.Name(),
		Dates:       append([]string(nil), timeframe...),
		GeomReturns: make([]float64, len(timeframe)),
		LogReturns:  make([]float64, len(timeframe)),
	}
	for i, date := range timeframe {
		s.updatePortfolio(date)
		r, err := s.portfolio.GetReturn(date)
		if err != nil {
			return nil, err
		}
		lr, err := s.portfolio.GetLogReturn(date)
		if err != nil {
			return nil, err
		}
		res.GeomReturns[i] = r
		res.LogReturns[i] = lr
	}
	return res, nil
}
