package instrument

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"backtester/internal/market"
	"backtester/types"
)

var ErrTotalLoss = errors.New("log return undefined for a return of -100% or worse")

type holding struct {
	instrument Instrument
	weight     float64
}

// Portfolio is a composite instrument holding an equal-weighted long leg and
// an equal-weighted short leg. Long weights are 1/len(leg), short weights are
// -1/len(leg); an empty leg contributes zero. A Portfolio is exclusively
// owned by one strategy and must not be shared across goroutines.
type Portfolio struct {
	market     *market.Market
	long       map[string]*holding
	short      map[string]*holding
	multiplier int
}

func NewPortfolio(m *market.Market, codesLong, codesShort []string) *Portfolio {
	p := &Portfolio{
		market:     m,
		long:       make(map[string]*holding, len(codesLong)),
		short:      make(map[string]*holding, len(codesShort)),
		multiplier: 1,
	}
	for _, code := range codesLong {
		code = market.NormalizeCode(code)
		p.long[code] = &holding{
			instrument: NewStock(m, code),
			weight:     1 / float64(len(codesLong)),
		}
	}
	for _, code := range codesShort {
		code = market.NormalizeCode(code)
		p.short[code] = &holding{
			instrument: NewStock(m, code),
			weight:     -1 / float64(len(codesShort)),
		}
	}
	return p
}

func (p *Portfolio) Multiplier() int { return p.multiplier }

// DiffUpdate executes the buy/sell trades needed to match the target holding,
// touching only the symmetric difference of each leg. Fresh additions enter
// at 1/len(target) (long) or -1/len(target) (short); members present in both
// the old and the new set keep their stored weight, even though the leg's
// cardinality may have changed. Rebalancing is change-only, so retained
// weights can drift away from 1/N until the member is itself replaced.
//
// The returned orders are deterministic: additions in target order, then
// removals in code order, long leg before short leg.
func (p *Portfolio) DiffUpdate(targetLong, targetShort []string) []types.Order {
	var orders []types.Order
	orders = append(orders, p.diffLeg(p.long, targetLong, false)...)
	orders = append(orders, p.diffLeg(p.short, targetShort, true)...)
	return orders
}

func (p *Portfolio) diffLeg(leg map[string]*holding, target []string, short bool) []types.Order {
	want := make(map[string]bool, len(target))
	for _, code := range target {
		want[market.NormalizeCode(code)] = true
	}

	addSide, removeSide := types.SideTypeBuy, types.SideTypeSell
	weight := 1 / float64(len(target))
	if short {
		// Entering a short position sells the instrument; unwinding buys it back.
		addSide, removeSide = types.SideTypeSell, types.SideTypeBuy
		weight = -weight
	}

	var orders []types.Order
	for _, code := range target {
		code = market.NormalizeCode(code)
		if _, held := leg[code]; held {
			continue
		}
		leg[code] = &holding{
			instrument: NewStock(p.market, code),
			weight:     weight,
		}
		orders = append(orders, types.NewOrder(addSide, code, p.market.GetName(code)))
	}

	var removed []string
	for code := range leg {
		if !want[code] {
			removed = append(removed, code)
		}
	}
	sort.Strings(removed)
	for _, code := range removed {
		delete(leg, code)
		orders = append(orders, types.NewOrder(removeSide, code, p.market.GetName(code)))
	}
	return orders
}

// GetReturn is the weighted sum of holding returns over both legs. An empty
// portfolio returns zero.
func (p *Portfolio) GetReturn(date string) (float64, error) {
	res := 0.0
	for _, h := range p.long {
		r, err := h.instrument.GetReturn(date)
		if err != nil {
			return 0, err
		}
		res += h.weight * r
	}
	for _, h := range p.short {
		r, err := h.instrument.GetReturn(date)
		if err != nil {
			return 0, err
		}
		res += h.weight * r
	}
	return res, nil
}

// GetLogReturn is ln(1 + GetReturn(date)). A return of -100% or worse is a
// terminal wipeout and surfaces as ErrTotalLoss.
func (p *Portfolio) GetLogReturn(date string) (float64, error) {
	r, err := p.GetReturn(date)
	if err != nil {
		return 0, err
	}
	if r <= -1 {
		return 0, fmt.Errorf("return %v on %s: %w", r, date, ErrTotalLoss)
	}
	return math.Log(1 + r), nil
}

// Codes returns the held codes of each leg in sorted order.
func (p *Portfolio) Codes() (long, short []string) {
	for code := range p.long {
		long = append(long, code)
	}
	for code := range p.short {
		short = append(short, code)
	}
	sort.Strings(long)
	sort.Strings(short)
	return long, short
}

// Weight reports the stored weight for a held code, searching the long leg
// first. The second return is false if the code is not held.
func (p *Portfolio) Weight(code string) (float64, bool) {
	code = market.NormalizeCode(code)
	if h, ok := p.long[code]; ok {
		return h.weight, true
	}
	if h, ok := p.short[code]; ok {
		return h.weight, true
	}
	return 0, false
}
