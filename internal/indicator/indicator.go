// Package indicator computes per-instrument ranking indicators.
package indicator

import "backtester/internal/market"

// BookToPrice is the book value of an instrument divided by its market price.
type BookToPrice struct {
	market *market.Market
}

func NewBookToPrice(m *market.Market) *BookToPrice {
	return &BookToPrice{market: m}
}

func (b *BookToPrice) Value(code, date string) (float64, error) {
	return b.market.GetBP(code, date)
}
