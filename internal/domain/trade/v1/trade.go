package tradev1

import (
	"github.com/shopspring/decimal"

	orderbookv1 "github.com/nordbook/matching-engine/internal/domain/orderbook/v1"
)

// Trade represents a single fill between a resting order and an aggressor.
//
// Price is always the resting side's execution price: the ask price for two
// crossing book orders, the swept level's price for a market order.
type Trade struct {
	Price     decimal.Decimal       `json:"price"`
	Quantity  int64                 `json:"quantity"`
	MakerID   string                `json:"makerID"`
	TakerID   string                `json:"takerID"`
	TakerType orderbookv1.OrderType `json:"takerType"`
	Timestamp int64                 `json:"timestamp"`
}

// Journal receives every trade the engine executes, synchronously and in
// execution order.
type Journal interface {
	Append(trade Trade)
	Trades() []Trade
}
