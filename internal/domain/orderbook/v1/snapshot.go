package orderbookv1

import "github.com/shopspring/decimal"

// BookOrder is the read-only render of a single resting order.
type BookOrder struct {
	ID       string          `json:"id"`
	Side     Side            `json:"side"`
	Type     OrderType       `json:"type"`
	Quantity int64           `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Sequence uint64          `json:"sequence"`
}

// BookSnapshot is an ordered, read-only view of both book sides.
// Bids are best (highest price) first, asks best (lowest price) first;
// orders at the same price appear in time priority.
type BookSnapshot struct {
	Bids []BookOrder `json:"bids"`
	Asks []BookOrder `json:"asks"`
}
