package orderbookv1

import (
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

// OrderType represents the type of order.
type OrderType string

const (
	// OrderTypeLimit represents a limit order.
	OrderTypeLimit OrderType = "limit"
	// OrderTypeMarket represents a market order.
	OrderTypeMarket OrderType = "market"
	// OrderTypePegged represents an order priced off the opposite side's best
	// price at submission time.
	OrderTypePegged OrderType = "pegged"
)

// Side represents which side of the book an order belongs to.
type Side string

const (
	// SideBuy represents a buy (bid) order.
	SideBuy Side = "buy"
	// SideSell represents a sell (ask) order.
	SideSell Side = "sell"
)

// Opposite returns the other side of the book.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

// Order represents a single order in the order book.
//
// ID and Side are immutable after creation. Quantity only decreases as fills
// occur; an order whose quantity reaches zero must not remain in the book.
// Sequence is the explicit time-priority tie-break at equal prices and is
// reassigned when the order is modified.
type Order struct {
	ID        string          `json:"id"`
	Type      OrderType       `json:"type"`
	Side      Side            `json:"side"`
	Quantity  int64           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Sequence  uint64          `json:"sequence"`
	Timestamp int64           `json:"timestamp"`
}

// NewOrder creates a new order with a fresh ULID and the given parameters.
// Market orders carry a zero price; it is never read.
func NewOrder(orderType OrderType, side Side, quantity int64, price decimal.Decimal) *Order {
	return &Order{
		ID:        ulid.Make().String(),
		Type:      orderType,
		Side:      side,
		Quantity:  quantity,
		Price:     price,
		Timestamp: time.Now().UnixNano(),
	}
}

// IsBuy checks if the order is a buy (bid) order.
func (o *Order) IsBuy() bool {
	return o.Side == SideBuy
}

// IsFilled checks if the order is fully filled (quantity is zero).
func (o *Order) IsFilled() bool {
	return o.Quantity == 0
}

// Fill reduces the order's remaining quantity by qty.
func (o *Order) Fill(qty int64) {
	o.Quantity -= qty
}

// PlaceOrderRequest represents a request to place an order in the book.
// Price is required for limit orders, ignored for market orders and derived
// for pegged orders.
type PlaceOrderRequest struct {
	Type     OrderType       `json:"type"`
	Side     Side            `json:"side"`
	Quantity int64           `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}
