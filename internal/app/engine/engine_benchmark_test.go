package engine

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	orderbookv1 "github.com/nordbook/matching-engine/internal/domain/orderbook/v1"
	"github.com/nordbook/matching-engine/internal/usecase/orderbook"
	tradejournal "github.com/nordbook/matching-engine/internal/usecase/trade-journal"
	"github.com/nordbook/matching-engine/pkg/logger"
)

func setupBenchmarkEngine(b *testing.B) *Engine {
	log, err := logger.NewLogger(
		logger.WithLoggingLevel(logger.ErrorLevel),
		logger.WithOutputPaths([]string{"stderr"}),
	)
	if err != nil {
		b.Fatal(err)
	}

	return NewEngine(orderbook.NewBook(), tradejournal.NewJournal(log), log)
}

func BenchmarkEngine_SubmitLimitOrders(b *testing.B) {
	engine := setupBenchmarkEngine(b)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		side := orderbookv1.SideBuy
		if i%2 == 0 {
			side = orderbookv1.SideSell
		}
		// vary price so the book grows many levels without crossing
		price := decimal.NewFromInt(50_000 + int64(i%100))
		if side == orderbookv1.SideBuy {
			price = decimal.NewFromInt(40_000 + int64(i%100))
		}

		_, _ = engine.Submit(ctx, orderbookv1.PlaceOrderRequest{
			Type:     orderbookv1.OrderTypeLimit,
			Side:     side,
			Quantity: 10,
			Price:    price,
		})
	}
}

func BenchmarkEngine_MatchingCrossedOrders(b *testing.B) {
	engine := setupBenchmarkEngine(b)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		// every pair crosses fully, so the book stays small
		_, _ = engine.Submit(ctx, orderbookv1.PlaceOrderRequest{
			Type:     orderbookv1.OrderTypeLimit,
			Side:     orderbookv1.SideBuy,
			Quantity: 10,
			Price:    decimal.NewFromInt(100),
		})
		_, _ = engine.Submit(ctx, orderbookv1.PlaceOrderRequest{
			Type:     orderbookv1.OrderTypeLimit,
			Side:     orderbookv1.SideSell,
			Quantity: 10,
			Price:    decimal.NewFromInt(100),
		})
	}
}

func BenchmarkEngine_MarketSweep(b *testing.B) {
	engine := setupBenchmarkEngine(b)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for level := int64(0); level < 5; level++ {
			_, _ = engine.Submit(ctx, orderbookv1.PlaceOrderRequest{
				Type:     orderbookv1.OrderTypeLimit,
				Side:     orderbookv1.SideSell,
				Quantity: 5,
				Price:    decimal.NewFromInt(100 + level),
			})
		}
		_, _ = engine.Submit(ctx, orderbookv1.PlaceOrderRequest{
			Type:     orderbookv1.OrderTypeMarket,
			Side:     orderbookv1.SideBuy,
			Quantity: 25,
		})
	}
}
