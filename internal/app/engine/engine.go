package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	orderbookv1 "github.com/nordbook/matching-engine/internal/domain/orderbook/v1"
	tradev1 "github.com/nordbook/matching-engine/internal/domain/trade/v1"
	"github.com/nordbook/matching-engine/internal/usecase/orderbook"
	errs "github.com/nordbook/matching-engine/pkg/errors"
	"github.com/nordbook/matching-engine/pkg/logger"
)

// Engine is the matching engine: it owns the book, the id index inside it and
// the sequence counter, and runs the matching loop after every insertion.
//
// Every public operation executes as an atomic unit under one lock. The book
// has single-writer semantics; interleaving an insert with a match would break
// price-time priority.
type Engine struct {
	book    *orderbook.Book
	journal tradev1.Journal
	logger  *logger.Logger

	sequence uint64
	now      func() int64

	// one lock guards book, index and sequence together; submit, cancel and
	// modify run to completion, matching loop included, before the next
	// operation is admitted
	mu sync.Mutex
}

// PlaceOrderResult reports the outcome of a submission or modification:
// the order's id, its remaining (resting) quantity and the trades the
// operation produced, in execution order.
type PlaceOrderResult struct {
	OrderID   string          `json:"orderID"`
	Remaining int64           `json:"remaining"`
	Trades    []tradev1.Trade `json:"trades"`
}

// NewEngine creates an engine writing trades to the given journal.
func NewEngine(book *orderbook.Book, journal tradev1.Journal, log *logger.Logger) *Engine {
	return NewEngineWithOptions(book, journal, log, DefaultEngineOptions())
}

// NewEngineWithOptions creates an engine with custom options.
func NewEngineWithOptions(book *orderbook.Book, journal tradev1.Journal, log *logger.Logger, options *Options) *Engine {
	return &Engine{
		book:    book,
		journal: journal,
		logger:  log,
		now:     options.Clock,
	}
}

// Submit constructs an order with a fresh id and sequence, applies the
// type-specific placement rule and runs the matching loop.
//
// Limit orders rest at their price. Pegged orders are stamped once with the
// opposite side's best price (zero when that side is empty; they are never
// re-pegged later). Market orders never rest: they sweep the opposite side
// and any unfilled remainder is discarded.
func (e *Engine) Submit(ctx context.Context, req orderbookv1.PlaceOrderRequest) (*PlaceOrderResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := validateRequest(req); err != nil {
		return nil, err
	}

	order := orderbookv1.NewOrder(req.Type, req.Side, req.Quantity, req.Price)
	order.Sequence = e.nextSequence()
	order.Timestamp = e.now()

	e.logger.DebugContext(ctx, "Order accepted",
		logger.Field{Key: "orderID", Value: order.ID},
		logger.Field{Key: "type", Value: order.Type},
		logger.Field{Key: "side", Value: order.Side},
		logger.Field{Key: "quantity", Value: order.Quantity},
		logger.Field{Key: "price", Value: order.Price.String()},
	)

	var trades []tradev1.Trade

	switch req.Type {
	case orderbookv1.OrderTypeMarket:
		trades = e.sweep(ctx, order)
	case orderbookv1.OrderTypePegged:
		order.Price = decimal.Zero
		if best, ok := e.book.BestPrice(order.Side.Opposite()); ok {
			order.Price = best
		}
		fallthrough
	case orderbookv1.OrderTypeLimit:
		if err := e.book.Insert(order); err != nil {
			e.logger.ErrorContext(ctx, errs.TracerFromError(err),
				logger.Field{Key: "orderID", Value: order.ID},
			)
			return nil, fmt.Errorf("insert order %s: %w", order.ID, err)
		}
		trades = e.matchBook(ctx, order)
	}

	return &PlaceOrderResult{
		OrderID:   order.ID,
		Remaining: restingQuantity(e.book, order),
		Trades:    trades,
	}, nil
}

// Cancel removes the order from book and index. Anything not currently
// resting, including market order ids and fully executed orders, reports
// ErrOrderNotFound.
func (e *Engine) Cancel(ctx context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.book.Remove(id); err != nil {
		e.logger.DebugContext(ctx, "Cancel rejected",
			logger.Field{Key: "orderID", Value: id},
			logger.Field{Key: "reason", Value: err.Error()},
		)
		return err
	}

	e.logger.InfoContext(ctx, "Order cancelled",
		logger.Field{Key: "orderID", Value: id},
	)
	return nil
}

// Modify replaces the order's quantity and price and reassigns its sequence:
// the order loses its original time priority and is treated as newly arrived
// at its new price level. The matching loop re-runs afterwards, since a price
// change can create a new crossing opportunity.
func (e *Engine) Modify(ctx context.Context, id string, quantity int64, price decimal.Decimal) (*PlaceOrderResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if quantity <= 0 {
		return nil, orderbookv1.ErrInvalidQuantity
	}
	if !price.IsPositive() {
		return nil, orderbookv1.ErrInvalidPrice
	}

	order, err := e.book.Remove(id)
	if err != nil {
		e.logger.DebugContext(ctx, "Modify rejected",
			logger.Field{Key: "orderID", Value: id},
			logger.Field{Key: "reason", Value: err.Error()},
		)
		return nil, err
	}

	order.Quantity = quantity
	order.Price = price
	order.Sequence = e.nextSequence()
	order.Timestamp = e.now()

	if err := e.book.Insert(order); err != nil {
		e.logger.ErrorContext(ctx, errs.TracerFromError(err),
			logger.Field{Key: "orderID", Value: id},
		)
		return nil, fmt.Errorf("reinsert order %s: %w", id, err)
	}

	e.logger.InfoContext(ctx, "Order modified",
		logger.Field{Key: "orderID", Value: id},
		logger.Field{Key: "quantity", Value: quantity},
		logger.Field{Key: "price", Value: price.String()},
	)

	trades := e.matchBook(ctx, order)

	return &PlaceOrderResult{
		OrderID:   order.ID,
		Remaining: restingQuantity(e.book, order),
		Trades:    trades,
	}, nil
}

// Snapshot returns a read-only ordered view of both book sides.
func (e *Engine) Snapshot() *orderbookv1.BookSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.book.Snapshot()
}

// matchBook runs the matching loop until no price overlap remains or one
// side empties. Execution price is always the ask-side price. Total resting
// quantity strictly decreases each step, so the loop terminates.
func (e *Engine) matchBook(ctx context.Context, aggressor *orderbookv1.Order) []tradev1.Trade {
	var trades []tradev1.Trade

	for {
		buy := e.book.BestOrder(orderbookv1.SideBuy)
		sell := e.book.BestOrder(orderbookv1.SideSell)
		if buy == nil || sell == nil {
			break
		}
		if buy.Price.LessThan(sell.Price) {
			break
		}

		qty := min64(buy.Quantity, sell.Quantity)
		price := sell.Price

		maker, taker := sell, buy
		if sell.ID == aggressor.ID {
			maker, taker = buy, sell
		}

		e.book.Reduce(buy, qty)
		e.book.Reduce(sell, qty)

		trades = append(trades, e.record(ctx, tradev1.Trade{
			Price:     price,
			Quantity:  qty,
			MakerID:   maker.ID,
			TakerID:   taker.ID,
			TakerType: taker.Type,
		}))
	}

	return trades
}

// sweep consumes liquidity from the opposite side for a market order. The
// order is never inserted or indexed; whatever cannot be filled vanishes.
func (e *Engine) sweep(ctx context.Context, order *orderbookv1.Order) []tradev1.Trade {
	var trades []tradev1.Trade
	opposite := order.Side.Opposite()

	for order.Quantity > 0 {
		resting := e.book.BestOrder(opposite)
		if resting == nil {
			break
		}

		qty := min64(order.Quantity, resting.Quantity)
		price := resting.Price

		order.Fill(qty)
		e.book.Reduce(resting, qty)

		trades = append(trades, e.record(ctx, tradev1.Trade{
			Price:     price,
			Quantity:  qty,
			MakerID:   resting.ID,
			TakerID:   order.ID,
			TakerType: orderbookv1.OrderTypeMarket,
		}))
	}

	if order.Quantity > 0 {
		e.logger.DebugContext(ctx, "Market order remainder discarded",
			logger.Field{Key: "orderID", Value: order.ID},
			logger.Field{Key: "remaining", Value: order.Quantity},
		)
	}

	return trades
}

// record stamps and journals a single trade.
func (e *Engine) record(_ context.Context, trade tradev1.Trade) tradev1.Trade {
	trade.Timestamp = e.now()
	e.journal.Append(trade)
	return trade
}

func (e *Engine) nextSequence() uint64 {
	e.sequence++
	return e.sequence
}

func validateRequest(req orderbookv1.PlaceOrderRequest) error {
	if req.Side != orderbookv1.SideBuy && req.Side != orderbookv1.SideSell {
		return fmt.Errorf("%w: %q", orderbookv1.ErrUnknownSide, req.Side)
	}
	if req.Quantity <= 0 {
		return orderbookv1.ErrInvalidQuantity
	}

	switch req.Type {
	case orderbookv1.OrderTypeLimit:
		if !req.Price.IsPositive() {
			return orderbookv1.ErrInvalidPrice
		}
	case orderbookv1.OrderTypeMarket, orderbookv1.OrderTypePegged:
		// price is ignored for market orders and derived for pegged orders
	default:
		return fmt.Errorf("%w: %q", orderbookv1.ErrUnknownOrderType, req.Type)
	}

	return nil
}

// restingQuantity reports how much of the order still rests in the book.
// Zero for fully executed orders and for market remainders, which never rest.
func restingQuantity(book *orderbook.Book, order *orderbookv1.Order) int64 {
	if _, ok := book.Get(order.ID); !ok {
		return 0
	}
	return order.Quantity
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
