package orderbook

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderbookv1 "github.com/nordbook/matching-engine/internal/domain/orderbook/v1"
)

// Helper function to create a resting order with explicit id and sequence
func createTestOrder(id string, side orderbookv1.Side, quantity int64, price int64, sequence uint64) *orderbookv1.Order {
	return &orderbookv1.Order{
		ID:       id,
		Type:     orderbookv1.OrderTypeLimit,
		Side:     side,
		Quantity: quantity,
		Price:    decimal.NewFromInt(price),
		Sequence: sequence,
	}
}

func TestNewBook(t *testing.T) {
	book := NewBook()

	assert.NotNil(t, book)
	assert.Equal(t, 0, book.OrderCount())
	assert.Nil(t, book.BestOrder(orderbookv1.SideBuy))
	assert.Nil(t, book.BestOrder(orderbookv1.SideSell))
}

func TestBook_Insert(t *testing.T) {
	t.Run("Insert places order and indexes it", func(t *testing.T) {
		book := NewBook()
		order := createTestOrder("order1", orderbookv1.SideBuy, 10, 100, 1)

		require.NoError(t, book.Insert(order))

		assert.Equal(t, 1, book.OrderCount())
		got, ok := book.Get("order1")
		assert.True(t, ok)
		assert.Equal(t, order, got)
		assert.Equal(t, order, book.BestOrder(orderbookv1.SideBuy))
	})

	t.Run("Insert nil order", func(t *testing.T) {
		book := NewBook()
		err := book.Insert(nil)
		assert.ErrorIs(t, err, orderbookv1.ErrNilOrder)
	})

	t.Run("Insert duplicate id", func(t *testing.T) {
		book := NewBook()
		require.NoError(t, book.Insert(createTestOrder("order1", orderbookv1.SideBuy, 10, 100, 1)))

		err := book.Insert(createTestOrder("order1", orderbookv1.SideBuy, 5, 101, 2))
		assert.ErrorIs(t, err, orderbookv1.ErrDuplicateOrder)
	})
}

func TestBook_BestOrder(t *testing.T) {
	t.Run("Best bid is highest price", func(t *testing.T) {
		book := NewBook()
		require.NoError(t, book.Insert(createTestOrder("bid1", orderbookv1.SideBuy, 10, 100, 1)))
		require.NoError(t, book.Insert(createTestOrder("bid2", orderbookv1.SideBuy, 10, 102, 2)))
		require.NoError(t, book.Insert(createTestOrder("bid3", orderbookv1.SideBuy, 10, 101, 3)))

		best := book.BestOrder(orderbookv1.SideBuy)
		require.NotNil(t, best)
		assert.Equal(t, "bid2", best.ID)
	})

	t.Run("Best ask is lowest price", func(t *testing.T) {
		book := NewBook()
		require.NoError(t, book.Insert(createTestOrder("ask1", orderbookv1.SideSell, 10, 102, 1)))
		require.NoError(t, book.Insert(createTestOrder("ask2", orderbookv1.SideSell, 10, 100, 2)))
		require.NoError(t, book.Insert(createTestOrder("ask3", orderbookv1.SideSell, 10, 101, 3)))

		best := book.BestOrder(orderbookv1.SideSell)
		require.NotNil(t, best)
		assert.Equal(t, "ask2", best.ID)
	})

	t.Run("Earlier sequence wins at equal price", func(t *testing.T) {
		book := NewBook()
		require.NoError(t, book.Insert(createTestOrder("first", orderbookv1.SideBuy, 10, 100, 1)))
		require.NoError(t, book.Insert(createTestOrder("second", orderbookv1.SideBuy, 10, 100, 2)))

		best := book.BestOrder(orderbookv1.SideBuy)
		require.NotNil(t, best)
		assert.Equal(t, "first", best.ID)
	})
}

func TestBook_Remove(t *testing.T) {
	t.Run("Remove resting order", func(t *testing.T) {
		book := NewBook()
		require.NoError(t, book.Insert(createTestOrder("order1", orderbookv1.SideSell, 10, 100, 1)))

		removed, err := book.Remove("order1")

		require.NoError(t, err)
		assert.Equal(t, "order1", removed.ID)
		assert.Equal(t, 0, book.OrderCount())
		assert.Nil(t, book.BestOrder(orderbookv1.SideSell))

		_, ok := book.Get("order1")
		assert.False(t, ok)
	})

	t.Run("Remove unknown id", func(t *testing.T) {
		book := NewBook()
		_, err := book.Remove("missing")
		assert.ErrorIs(t, err, orderbookv1.ErrOrderNotFound)
	})

	t.Run("Remove keeps other orders at the level", func(t *testing.T) {
		book := NewBook()
		require.NoError(t, book.Insert(createTestOrder("order1", orderbookv1.SideSell, 10, 100, 1)))
		require.NoError(t, book.Insert(createTestOrder("order2", orderbookv1.SideSell, 5, 100, 2)))

		_, err := book.Remove("order1")
		require.NoError(t, err)

		best := book.BestOrder(orderbookv1.SideSell)
		require.NotNil(t, best)
		assert.Equal(t, "order2", best.ID)
		assert.Equal(t, int64(5), book.TotalVolume(orderbookv1.SideSell))
	})
}

func TestBook_Reduce(t *testing.T) {
	t.Run("Partial fill keeps the order resting", func(t *testing.T) {
		book := NewBook()
		order := createTestOrder("order1", orderbookv1.SideBuy, 10, 100, 1)
		require.NoError(t, book.Insert(order))

		book.Reduce(order, 4)

		assert.Equal(t, int64(6), order.Quantity)
		assert.Equal(t, 1, book.OrderCount())
		assert.Equal(t, int64(6), book.TotalVolume(orderbookv1.SideBuy))
	})

	t.Run("Full fill removes order and empty level", func(t *testing.T) {
		book := NewBook()
		order := createTestOrder("order1", orderbookv1.SideBuy, 10, 100, 1)
		require.NoError(t, book.Insert(order))

		book.Reduce(order, 10)

		assert.Equal(t, 0, book.OrderCount())
		assert.Nil(t, book.BestOrder(orderbookv1.SideBuy))

		_, ok := book.Get("order1")
		assert.False(t, ok)
	})
}

func TestBook_Snapshot(t *testing.T) {
	t.Run("Both sides ordered best first, FIFO within level", func(t *testing.T) {
		book := NewBook()
		require.NoError(t, book.Insert(createTestOrder("bid-low", orderbookv1.SideBuy, 10, 99, 1)))
		require.NoError(t, book.Insert(createTestOrder("bid-high", orderbookv1.SideBuy, 10, 100, 2)))
		require.NoError(t, book.Insert(createTestOrder("bid-high-2", orderbookv1.SideBuy, 5, 100, 3)))
		require.NoError(t, book.Insert(createTestOrder("ask-high", orderbookv1.SideSell, 10, 105, 4)))
		require.NoError(t, book.Insert(createTestOrder("ask-low", orderbookv1.SideSell, 10, 101, 5)))

		snapshot := book.Snapshot()

		require.Equal(t, 3, len(snapshot.Bids))
		assert.Equal(t, "bid-high", snapshot.Bids[0].ID)
		assert.Equal(t, "bid-high-2", snapshot.Bids[1].ID)
		assert.Equal(t, "bid-low", snapshot.Bids[2].ID)

		require.Equal(t, 2, len(snapshot.Asks))
		assert.Equal(t, "ask-low", snapshot.Asks[0].ID)
		assert.Equal(t, "ask-high", snapshot.Asks[1].ID)
	})

	t.Run("Snapshot does not mutate state", func(t *testing.T) {
		book := NewBook()
		require.NoError(t, book.Insert(createTestOrder("order1", orderbookv1.SideBuy, 10, 100, 1)))

		first := book.Snapshot()
		second := book.Snapshot()

		assert.Equal(t, first, second)
		assert.Equal(t, 1, book.OrderCount())
	})
}

func TestBook_BestPrice(t *testing.T) {
	book := NewBook()

	_, ok := book.BestPrice(orderbookv1.SideSell)
	assert.False(t, ok)

	require.NoError(t, book.Insert(createTestOrder("ask1", orderbookv1.SideSell, 10, 101, 1)))
	require.NoError(t, book.Insert(createTestOrder("ask2", orderbookv1.SideSell, 10, 100, 2)))

	price, ok := book.BestPrice(orderbookv1.SideSell)
	require.True(t, ok)
	assert.True(t, price.Equal(decimal.NewFromInt(100)))
}

func TestBook_ManyLevels(t *testing.T) {
	book := NewBook()

	// levels inserted out of order must come back sorted
	prices := []int64{105, 101, 109, 103, 107}
	for i, price := range prices {
		id := fmt.Sprintf("ask-%d", price)
		require.NoError(t, book.Insert(createTestOrder(id, orderbookv1.SideSell, 1, price, uint64(i+1))))
	}

	snapshot := book.Snapshot()
	require.Equal(t, len(prices), len(snapshot.Asks))
	for i := 1; i < len(snapshot.Asks); i++ {
		assert.True(t, snapshot.Asks[i-1].Price.LessThan(snapshot.Asks[i].Price))
	}
}
