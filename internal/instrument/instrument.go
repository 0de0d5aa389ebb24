// Package instrument defines the tradable instrument capability and its two
// variants: a single listed stock and a composite long/short portfolio.
package instrument

import "backtester/internal/market"

// Instrument is anything with a per-date geometric return.
type Instrument interface {
	// GetReturn is the geometric return realized over the period ending at
	// date. The date is an opaque key into the market data context.
	GetReturn(date string) (float64, error)
	// Multiplier is the position-size scaling of the instrument. Default 1.
	Multiplier() int
}

// Stock is a single listed instrument identified by its code.
type Stock struct {
	market     *market.Market
	code       string
	name       string
	multiplier int
}

func NewStock(m *market.Market, code string) *Stock {
	code = market.NormalizeCode(code)
	return &Stock{
		market:     m,
		code:       code,
		name:       m.GetName(code),
		multiplier: 1,
	}
}

func (s *Stock) Code() string { return s.code }

func (s *Stock) Name() string { return s.name }

func (s *Stock) Multiplier() int { return s.multiplier }

func (s *Stock) SetMultiplier(v int) { s.multiplier = v }

func (s *Stock) GetReturn(date string) (float64, error) {
	return s.market.GetReturn(s.code, date)
}
