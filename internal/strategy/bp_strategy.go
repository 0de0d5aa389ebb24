package strategy

import (
	"fmt"

	"backtester/internal/instrument"
	"backtester/internal/market"
	"backtester/internal/signal"
	"backtester/types"
)

// pickFunc selects the target long and short legs for one date, using only
// data available at or before that date.
type pickFunc func(m *market.Market, date string, selection float64) (long, short []string, err error)

// rankedStrategy is the shared simulation core of the book-to-price variants.
// It decides at t_i and realizes the return at t_{i+1}.
type rankedStrategy struct {
	name      string
	market    *market.Market
	selection float64
	portfolio *instrument.Portfolio
	pick      pickFunc
}

func newRankedStrategy(name string, m *market.Market, selection float64, pick pickFunc) (*rankedStrategy, error) {
	if selection <= 0.0 || selection > 0.5 {
		return nil, fmt.Errorf("selection %v: %w", selection, ErrInvalidSelection)
	}
	return &rankedStrategy{
		name:      name,
		market:    m,
		selection: selection,
		pick:      pick,
	}, nil
}

func (s *rankedStrategy) Name() string { return s.name }

func (s *rankedStrategy) Selection() float64 { return s.selection }

// Portfolio exposes the current holding for inspection. It is nil before the
// first update.
func (s *rankedStrategy) Portfolio() *instrument.Portfolio { return s.portfolio }

func (s *rankedStrategy) updatePortfolio(date string) error {
	if s.portfolio == nil {
		s.portfolio = instrument.NewPortfolio(s.market, nil, nil)
	}
	long, short, err := s.pick(s.market, date, s.selection)
	if err != nil {
		return err
	}
	s.portfolio.DiffUpdate(long, short)
	return nil
}

// Eval walks consecutive date pairs: the selection decided at timeframe[i] is
// held over the following period and its return realized at timeframe[i+1].
// The result arrays are one shorter than the timeframe, with dates
// timeframe[1:] (the first date only seeds the initial decision).
// MarketStrategy uses the same-date convention instead; see its Eval.
func (s *rankedStrategy) Eval(timeframe []string) (*types.StrategyResult, error) {
	if len(timeframe) == 0 {
		timeframe = s.market.GetTimeframe()
	}
	if len(timeframe) == 0 {
		return nil, ErrEmptyTimeframe
	}

	res := &types.StrategyResult{
		Strategy:    s.name,
		Dates:       append([]string(nil), timeframe[1:]...),
		GeomReturns: make([]float64, len(timeframe)-1),
		LogReturns:  make([]float64, len(timeframe)-1),
	}
	for i := 0; i+1 < len(timeframe); i++ {
		if err := s.updatePortfolio(timeframe[i]); err != nil {
			return nil, fmt.Errorf("%s on %s: %w", s.name, timeframe[i], err)
		}
		r, err := s.portfolio.GetReturn(timeframe[i+1])
		if err != nil {
			return nil, fmt.Errorf("%s on %s: %w", s.name, timeframe[i+1], err)
		}
		lr, err := s.portfolio.GetLogReturn(timeframe[i+1])
		if err != nil {
			return nil, fmt.Errorf("%s on %s: %w", s.name, timeframe[i+1], err)
		}
		res.GeomReturns[i] = r
		res.LogReturns[i] = lr
	}
	return res, nil
}

// truncate keeps the selected fraction from the front of a ranked slice.
// A selection small enough to floor to zero names is legal and leaves the
// leg empty.
func truncate(entries []types.Entry, selection float64) []string {
	n := int(selection * float64(len(entries)))
	return signal.Codes(entries[:n])
}

// NewBestBPStrategy longs the names with the highest book-to-price ratios.
func NewBestBPStrategy(m *market.Market, selection float64) (Strategy, error) {
	return newRankedStrategy("BestBPStrategy", m, selection,
		func(m *market.Market, date string, sel float64) ([]string, []string, error) {
			best, err := signal.BestBP(m, date)
			if err != nil {
				return nil, nil, err
			}
			return truncate(best, sel), nil, nil
		})
}

// NewWorstBPStrategy shorts the names with the lowest book-to-price ratios.
func NewWorstBPStrategy(m *market.Market, selection float64) (Strategy, error) {
	return newRankedStrategy("WorstBPStrategy", m, selection,
		func(m *market.Market, date string, sel float64) ([]string, []string, error) {
			worst, err := signal.WorstBP(m, date)
			if err != nil {
				return nil, nil, err
			}
			return nil, truncate(worst, sel), nil
		})
}

// NewLongShortBPStrategy longs the highest and shorts the lowest
// book-to-price ratios.
func NewLongShortBPStrategy(m *market.Market, selection float64) (Strategy, error) {
	return newRankedStrategy("LongShortBPStrategy", m, selection,
		func(m *market.Market, date string, sel float64) ([]string, []string, error) {
			best, err := signal.BestBP(m, date)
			if err != nil {
				return nil, nil, err
			}
			worst, err := signal.WorstBP(m, date)
			if err != nil {
				return nil, nil, err
			}
			return truncate(best, sel), truncate(worst, sel), nil
		})
}
