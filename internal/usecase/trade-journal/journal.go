package tradejournal

import (
	tradev1 "github.com/nordbook/matching-engine/internal/domain/trade/v1"
	"github.com/nordbook/matching-engine/pkg/logger"
)

// Journal is the in-memory trade journal. It records every fill in execution
// order and emits a structured log line per trade.
//
// The engine appends synchronously while holding its lock, so the journal
// itself needs no synchronization.
type Journal struct {
	logger *logger.Logger
	trades []tradev1.Trade
}

// NewJournal creates a trade journal that logs through the given logger.
func NewJournal(log *logger.Logger) *Journal {
	return &Journal{
		logger: log,
	}
}

// Append records a trade.
func (j *Journal) Append(trade tradev1.Trade) {
	j.trades = append(j.trades, trade)

	j.logger.Info("Trade executed",
		logger.Field{Key: "price", Value: trade.Price.String()},
		logger.Field{Key: "quantity", Value: trade.Quantity},
		logger.Field{Key: "makerOrderID", Value: trade.MakerID},
		logger.Field{Key: "takerOrderID", Value: trade.TakerID},
		logger.Field{Key: "takerType", Value: trade.TakerType},
	)
}

// Trades returns a copy of every trade recorded so far, in execution order.
func (j *Journal) Trades() []tradev1.Trade {
	trades := make([]tradev1.Trade, len(j.trades))
	copy(trades, j.trades)
	return trades
}
