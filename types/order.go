package types

import "fmt"

type Side string

const (
	SideTypeBuy  Side = "BUY"
	SideTypeSell Side = "SELL"
)

// Order describes a single executed rebalancing trade. Positions are notional
// equal-weight units, so there is no price or quantity attached.
type Order struct {
	Side Side
	Code string
	Name string
}

func NewOrder(side Side, code, name string) Order {
	return Order{
		Side: side,
		Code: code,
		Name: name,
	}
}

func (o Order) String() string {
	if o.Side == SideTypeBuy {
		return fmt.Sprintf("Bought one unit of %s.", o.Name)
	}
	return fmt.Sprintf("Sold one unit of %s.", o.Name)
}
