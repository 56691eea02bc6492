// Package console is the interactive command surface for the matching engine.
// It owns all parsing and validation of user input: the engine only ever
// receives already-typed, range-checked values.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/nordbook/matching-engine/internal/app/engine"
	orderbookv1 "github.com/nordbook/matching-engine/internal/domain/orderbook/v1"
	tradev1 "github.com/nordbook/matching-engine/internal/domain/trade/v1"
	errs "github.com/nordbook/matching-engine/pkg/errors"
	"github.com/nordbook/matching-engine/pkg/logger"
	"github.com/nordbook/matching-engine/pkg/util"
)

const usage = "Enter an order in the format: 'limit/market/peg buy/sell qty [price]'. " +
	"Type 'print' to view the order book. Type 'cancel order <id>' to cancel. " +
	"'modify order <id> <qty> <price>' to modify. Type 'exit' to quit."

// Console reads commands from in, drives the engine and renders results to out.
type Console struct {
	engine *engine.Engine
	logger *logger.Logger
	in     io.Reader
	out    io.Writer
}

// New creates a console over the given reader and writer.
func New(eng *engine.Engine, log *logger.Logger, in io.Reader, out io.Writer) *Console {
	return &Console{
		engine: eng,
		logger: log,
		in:     in,
		out:    out,
	}
}

// Run executes the read-eval-print loop until 'exit', end of input or
// context cancellation.
// Each command runs with its own request id so log lines correlate.
func (c *Console) Run(ctx context.Context) error {
	fmt.Fprintln(c.out, usage)

	scanner := bufio.NewScanner(c.in)
	for {
		if ctx.Err() != nil {
			return nil
		}

		fmt.Fprint(c.out, ">> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if quit := c.Execute(util.WithRequestID(ctx, ""), line); quit {
			break
		}
	}

	return scanner.Err()
}

// Execute runs a single command line. Returns true when the loop should quit.
func (c *Console) Execute(ctx context.Context, line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false
	}

	switch strings.ToLower(parts[0]) {
	case "exit":
		return true
	case "help":
		fmt.Fprintln(c.out, usage)
	case "print":
		c.printBook()
	case "cancel":
		c.cancel(ctx, parts)
	case "modify":
		c.modify(ctx, parts)
	default:
		c.submit(ctx, parts)
	}

	return false
}

func (c *Console) submit(ctx context.Context, parts []string) {
	req, err := parseSubmit(parts)
	if err != nil {
		c.reject(ctx, err)
		return
	}

	result, submitErr := c.engine.Submit(ctx, req)
	if submitErr != nil {
		c.reject(ctx, submitErr)
		return
	}

	fmt.Fprintf(c.out, "Order created: %s %d @ %s (ID: %s)\n",
		req.Side, req.Quantity, req.Price.String(), result.OrderID)
	c.printTrades(result.Trades)
}

func (c *Console) cancel(ctx context.Context, parts []string) {
	if len(parts) != 3 || !strings.EqualFold(parts[1], "order") {
		c.reject(ctx, errs.NewErrorDetails("Invalid command for cancellation.", errs.MalformedCommand, ""))
		return
	}

	id := parts[2]
	if err := c.engine.Cancel(ctx, id); err != nil {
		if errors.Is(err, orderbookv1.ErrOrderNotFound) {
			fmt.Fprintf(c.out, "Order not found: %s\n", id)
			return
		}
		c.reject(ctx, err)
		return
	}

	fmt.Fprintf(c.out, "Order cancelled: %s\n", id)
}

func (c *Console) modify(ctx context.Context, parts []string) {
	if len(parts) != 5 || !strings.EqualFold(parts[1], "order") {
		c.reject(ctx, errs.NewErrorDetails("Invalid command for modification.", errs.MalformedCommand, ""))
		return
	}

	id := parts[2]
	qty, err := parseQuantity(parts[3])
	if err != nil {
		c.reject(ctx, err)
		return
	}
	price, err := parsePrice(parts[4])
	if err != nil {
		c.reject(ctx, err)
		return
	}

	result, modifyErr := c.engine.Modify(ctx, id, qty, price)
	if modifyErr != nil {
		if errors.Is(modifyErr, orderbookv1.ErrOrderNotFound) {
			fmt.Fprintf(c.out, "Order not found: %s\n", id)
			return
		}
		c.reject(ctx, modifyErr)
		return
	}

	fmt.Fprintf(c.out, "Order modified: %s\n", id)
	c.printTrades(result.Trades)
}

func (c *Console) printBook() {
	snapshot := c.engine.Snapshot()

	fmt.Fprintln(c.out, "Order Book:")
	fmt.Fprintln(c.out, "Buy Orders:")
	for _, order := range snapshot.Bids {
		fmt.Fprintf(c.out, "%s %d @ %s (ID: %s)\n", order.Side, order.Quantity, order.Price.String(), order.ID)
	}
	fmt.Fprintln(c.out, "Sell Orders:")
	for _, order := range snapshot.Asks {
		fmt.Fprintf(c.out, "%s %d @ %s (ID: %s)\n", order.Side, order.Quantity, order.Price.String(), order.ID)
	}
}

func (c *Console) printTrades(trades []tradev1.Trade) {
	for _, trade := range trades {
		fmt.Fprintf(c.out, "Trade, price: %s, qty: %d\n", trade.Price.String(), trade.Quantity)
	}
}

// reject renders a validation or engine error to the user and logs it at debug.
func (c *Console) reject(ctx context.Context, err error) {
	c.logger.DebugContext(ctx, "Command rejected",
		logger.Field{Key: "reason", Value: err.Error()},
	)

	var details *errs.ErrorDetails
	if errors.As(err, &details) {
		fmt.Fprintln(c.out, details.Message)
		return
	}

	fmt.Fprintf(c.out, "Rejected: %s\n", err.Error())
}

func parseSubmit(parts []string) (orderbookv1.PlaceOrderRequest, error) {
	var req orderbookv1.PlaceOrderRequest

	if len(parts) < 3 {
		return req, errs.NewErrorDetails("Invalid format. Please try again.", errs.MalformedCommand, "")
	}

	switch strings.ToLower(parts[0]) {
	case "limit":
		req.Type = orderbookv1.OrderTypeLimit
	case "market":
		req.Type = orderbookv1.OrderTypeMarket
	case "peg":
		req.Type = orderbookv1.OrderTypePegged
	default:
		return req, errs.NewErrorDetails("Invalid format. Please try again.", errs.MalformedCommand, "type")
	}

	switch strings.ToLower(parts[1]) {
	case "buy":
		req.Side = orderbookv1.SideBuy
	case "sell":
		req.Side = orderbookv1.SideSell
	default:
		return req, errs.NewErrorDetails("Invalid side. Please try again.", errs.MalformedCommand, "side")
	}

	qty, err := parseQuantity(parts[2])
	if err != nil {
		return req, err
	}
	req.Quantity = qty

	if req.Type == orderbookv1.OrderTypeLimit {
		if len(parts) < 4 {
			return req, errs.NewErrorDetails("Invalid price. Please try again.", errs.MalformedCommand, "price")
		}
		price, err := parsePrice(parts[3])
		if err != nil {
			return req, err
		}
		req.Price = price
	}

	return req, nil
}

func parseQuantity(raw string) (int64, error) {
	qty, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || qty <= 0 {
		return 0, errs.NewErrorDetails("Invalid quantity. Please try again.", errs.MalformedCommand, "quantity")
	}
	return qty, nil
}

func parsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(raw)
	if err != nil || !price.IsPositive() {
		return decimal.Decimal{}, errs.NewErrorDetails("Invalid price. Please try again.", errs.MalformedCommand, "price")
	}
	return price, nil
}
