// Package strategy drives the backtest simulation loop: at each date a
// strategy selects holdings and realizes the portfolio return of the
// following period.
package strategy

import (
	"errors"
	"fmt"
	"sort"

	"backtester/internal/market"
	"backtester/types"
)

var (
	ErrInvalidSelection = errors.New("selection must be in (0.0, 0.5]")
	ErrUnknownStrategy  = errors.New("unknown strategy name")
	ErrEmptyTimeframe   = errors.New("timeframe has no dates")
)

// Strategy evaluates itself over a timeframe and reports realized returns.
// A strategy exclusively owns its portfolio; instances must not be shared
// across goroutines.
type Strategy interface {
	Name() string
	// Eval runs the simulation over the given timeframe. A nil or empty
	// timeframe defaults to the market's full timeframe. A decision made at
	// one date may only use data available at or before that date.
	Eval(timeframe []string) (*types.StrategyResult, error)
}

// DefaultSelection is the fraction of ranked names the book-to-price
// strategies hold per leg unless configured otherwise.
const DefaultSelection = 0.2

type factory func(m *market.Market, selection float64) (Strategy, error)

var registry = map[string]factory{
	"MarketStrategy": func(m *market.Market, _ float64) (Strategy, error) {
		return NewMarketStrategy(m), nil
	},
	"BestBPStrategy": func(m *market.Market, selection float64) (Strategy, error) {
		return NewBestBPStrategy(m, selection)
	},
	"WorstBPStrategy": func(m *market.Market, selection float64) (Strategy, error) {
		return NewWorstBPStrategy(m, selection)
	},
	"LongShortBPStrategy": func(m *market.Market, selection float64) (Strategy, error) {
		return NewLongShortBPStrategy(m, selection)
	},
}

// New constructs a registered strategy by name.
func New(name string, m *market.Market, selection float64) (Strategy, error) {
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownStrategy)
	}
	return f(m, selection)
}

// Names lists the registered strategy names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
