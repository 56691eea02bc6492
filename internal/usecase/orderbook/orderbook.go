package orderbook

import (
	"github.com/shopspring/decimal"
	"github.com/tidwall/btree"

	orderbookv1 "github.com/nordbook/matching-engine/internal/domain/orderbook/v1"
)

// Book is the two-sided order book: one ordered map of price levels per side
// plus an id index over every resting order.
//
// Both trees order levels by ascending price; the best bid is the bid tree's
// maximum and the best ask is the ask tree's minimum. Within a level orders
// are FIFO, which together with the engine's monotonic sequence numbers gives
// price-time priority.
//
// Book is not safe for concurrent use. The engine serializes all access
// (see engine.Engine); resting state would be corrupted by interleaving an
// insert with a match.
type Book struct {
	bids   *btree.BTreeG[*orderbookv1.Level]
	asks   *btree.BTreeG[*orderbookv1.Level]
	orders map[string]*orderbookv1.Order // orderID -> resting order
}

// NewBook creates an empty order book.
func NewBook() *Book {
	byPrice := func(a, b *orderbookv1.Level) bool {
		return a.Price.LessThan(b.Price)
	}

	return &Book{
		bids:   btree.NewBTreeG(byPrice),
		asks:   btree.NewBTreeG(byPrice),
		orders: make(map[string]*orderbookv1.Order),
	}
}

// Insert places a resting order at the level its price dictates, creating the
// level when needed. Appending to the level queue preserves time priority:
// every insert carries a fresh, larger sequence.
func (b *Book) Insert(order *orderbookv1.Order) error {
	if order == nil {
		return orderbookv1.ErrNilOrder
	}
	if _, exists := b.orders[order.ID]; exists {
		return orderbookv1.ErrDuplicateOrder
	}

	tree := b.sideTree(order.Side)
	level, ok := tree.Get(&orderbookv1.Level{Price: order.Price})
	if !ok {
		level = orderbookv1.NewLevel(order.Price)
		tree.Set(level)
	}

	level.Add(order)
	b.orders[order.ID] = order

	return nil
}

// Remove takes the order with the given id out of the book and the index.
// Returns ErrOrderNotFound when the id is not resting.
func (b *Book) Remove(id string) (*orderbookv1.Order, error) {
	order, exists := b.orders[id]
	if !exists {
		return nil, orderbookv1.ErrOrderNotFound
	}

	tree := b.sideTree(order.Side)
	level, ok := tree.Get(&orderbookv1.Level{Price: order.Price})
	if !ok {
		// index and trees disagree; must not happen
		return nil, orderbookv1.ErrOrderNotFound
	}

	if _, err := level.Remove(id); err != nil {
		return nil, err
	}
	if level.IsEmpty() {
		tree.Delete(level)
	}
	delete(b.orders, id)

	return order, nil
}

// Get returns the resting order with the given id.
func (b *Book) Get(id string) (*orderbookv1.Order, bool) {
	order, ok := b.orders[id]
	return order, ok
}

// BestOrder returns the highest-priority resting order on the given side:
// highest price for buys, lowest for sells, earliest at equal price.
// Returns nil when the side is empty.
func (b *Book) BestOrder(side orderbookv1.Side) *orderbookv1.Order {
	level := b.bestLevel(side)
	if level == nil {
		return nil
	}
	return level.Front()
}

// Reduce records a fill of qty against a resting order, removing the order
// from book and index once fully filled and dropping the level once empty.
func (b *Book) Reduce(order *orderbookv1.Order, qty int64) {
	tree := b.sideTree(order.Side)
	level, ok := tree.Get(&orderbookv1.Level{Price: order.Price})
	if !ok {
		return
	}

	level.Reduce(order, qty)

	if order.IsFilled() {
		delete(b.orders, order.ID)
	}
	if level.IsEmpty() {
		tree.Delete(level)
	}
}

// OrderCount returns the number of resting orders on both sides.
func (b *Book) OrderCount() int {
	return len(b.orders)
}

// Snapshot produces a read-only ordered view of both sides: bids best first,
// asks best first, FIFO within a level. It never mutates book state.
func (b *Book) Snapshot() *orderbookv1.BookSnapshot {
	snapshot := &orderbookv1.BookSnapshot{
		Bids: make([]orderbookv1.BookOrder, 0, b.bids.Len()),
		Asks: make([]orderbookv1.BookOrder, 0, b.asks.Len()),
	}

	b.bids.Reverse(func(level *orderbookv1.Level) bool {
		snapshot.Bids = appendLevel(snapshot.Bids, level)
		return true
	})
	b.asks.Scan(func(level *orderbookv1.Level) bool {
		snapshot.Asks = appendLevel(snapshot.Asks, level)
		return true
	})

	return snapshot
}

// TotalVolume returns the total resting quantity on the given side.
func (b *Book) TotalVolume(side orderbookv1.Side) int64 {
	var total int64
	b.sideTree(side).Scan(func(level *orderbookv1.Level) bool {
		total += level.TotalQuantity
		return true
	})
	return total
}

// BestPrice returns the best price on the given side, or false when empty.
func (b *Book) BestPrice(side orderbookv1.Side) (decimal.Decimal, bool) {
	level := b.bestLevel(side)
	if level == nil {
		return decimal.Decimal{}, false
	}
	return level.Price, true
}

func (b *Book) sideTree(side orderbookv1.Side) *btree.BTreeG[*orderbookv1.Level] {
	if side == orderbookv1.SideBuy {
		return b.bids
	}
	return b.asks
}

func (b *Book) bestLevel(side orderbookv1.Side) *orderbookv1.Level {
	var level *orderbookv1.Level
	var ok bool
	if side == orderbookv1.SideBuy {
		level, ok = b.bids.Max()
	} else {
		level, ok = b.asks.Min()
	}
	if !ok {
		return nil
	}
	return level
}

func appendLevel(dst []orderbookv1.BookOrder, level *orderbookv1.Level) []orderbookv1.BookOrder {
	for _, order := range level.Orders {
		dst = append(dst, orderbookv1.BookOrder{
			ID:       order.ID,
			Side:     order.Side,
			Type:     order.Type,
			Quantity: order.Quantity,
			Price:    order.Price,
			Sequence: order.Sequence,
		})
	}
	return dst
}
