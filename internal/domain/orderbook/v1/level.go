package orderbookv1

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrNilOrder is returned when a nil order is handed to the book.
	ErrNilOrder = errors.New("order cannot be nil")
	// ErrInvalidQuantity is returned for orders with a non-positive quantity.
	ErrInvalidQuantity = errors.New("quantity must be positive")
	// ErrInvalidPrice is returned for limit orders with a non-positive price.
	ErrInvalidPrice = errors.New("price must be positive")
	// ErrOrderNotFound is returned when an order id is not resting in the book.
	ErrOrderNotFound = errors.New("order not found")
	// ErrDuplicateOrder is returned when an order id is already resting.
	ErrDuplicateOrder = errors.New("order already exists")
	// ErrUnknownOrderType is returned for order types the engine does not know.
	ErrUnknownOrderType = errors.New("unknown order type")
	// ErrUnknownSide is returned for sides other than buy and sell.
	ErrUnknownSide = errors.New("unknown side")
)

// Level is a single price level holding its resting orders in FIFO order.
//
// Orders are appended at submission and at modification, both of which assign
// a fresh monotonic sequence, so FIFO position and ascending sequence agree.
// The level is not safe for concurrent use; the engine serializes access.
type Level struct {
	Price         decimal.Decimal
	Orders        []*Order
	TotalQuantity int64
}

// NewLevel creates an empty price level at the given price.
func NewLevel(price decimal.Decimal) *Level {
	return &Level{
		Price:  price,
		Orders: make([]*Order, 0, 4),
	}
}

// Add appends an order to the level's queue.
func (l *Level) Add(order *Order) {
	l.Orders = append(l.Orders, order)
	l.TotalQuantity += order.Quantity
}

// Remove takes the order with the given id out of the level's queue.
// Returns ErrOrderNotFound if no such order rests here.
func (l *Level) Remove(id string) (*Order, error) {
	for i, o := range l.Orders {
		if o.ID == id {
			l.Orders = append(l.Orders[:i], l.Orders[i+1:]...)
			l.TotalQuantity -= o.Quantity
			return o, nil
		}
	}
	return nil, ErrOrderNotFound
}

// Front returns the order with time priority at this level, or nil when empty.
func (l *Level) Front() *Order {
	if len(l.Orders) == 0 {
		return nil
	}
	return l.Orders[0]
}

// Reduce records a fill of qty against the given resting order, dropping it
// from the queue once fully filled.
func (l *Level) Reduce(order *Order, qty int64) {
	order.Fill(qty)
	l.TotalQuantity -= qty

	if order.IsFilled() {
		for i, o := range l.Orders {
			if o.ID == order.ID {
				l.Orders = append(l.Orders[:i], l.Orders[i+1:]...)
				break
			}
		}
	}
}

// IsEmpty checks if the level has no resting orders.
func (l *Level) IsEmpty() bool {
	return len(l.Orders) == 0
}

// OrderCount returns the number of orders resting at this level.
func (l *Level) OrderCount() int {
	return len(l.Orders)
}
