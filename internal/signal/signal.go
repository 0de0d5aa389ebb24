// Package signal ranks the market's instruments by an indicator value.
package signal

import (
	"sort"

	"backtester/internal/indicator"
	"backtester/internal/market"
	"backtester/types"
)

// BestBP ranks every available instrument by book-to-price ratio at the given
// date, best (highest) first.
func BestBP(m *market.Market, date string) ([]types.Entry, error) {
	entries, err := rank(m, date)
	if err != nil {
		return nil, err
	}
	// Stable so ties keep the market's instrument iteration order.
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Value > entries[j].Value })
	return entries, nil
}

// WorstBP ranks every available instrument by book-to-price ratio at the
// given date, worst (lowest) first.
func WorstBP(m *market.Market, date string) ([]types.Entry, error) {
	entries, err := rank(m, date)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Value < entries[j].Value })
	return entries, nil
}

func rank(m *market.Market, date string) ([]types.Entry, error) {
	ind := indicator.NewBookToPrice(m)
	codes := m.GetInstruments()
	entries := make([]types.Entry, 0, len(codes))
	for _, code := range codes {
		v, err := ind.Value(code, date)
		if err != nil {
			return nil, err
		}
		entries = append(entries, types.Entry{Code: code, Value: v})
	}
	return entries, nil
}

// Codes projects the code column of a ranked slice.
func Codes(entries []types.Entry) []string {
	codes := make([]string, len(entries))
	for i, e := range entries {
		codes[i] = e.Code
	}
	return codes
}
