package bookengine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/tradsys/venue/internal/models"
)

func newTestBook() *Book {
	return NewBook(1, zap.NewNop())
}

func limitOrder(id int64, side models.Side, price, size float64, subAccount int64, at time.Time) *models.BookOrder {
	return &models.BookOrder{ID: id, Price: price, Size: size, Side: side, Type: models.OrderTypeLimit, SubAccountID: subAccount, OpenAt: at}
}

func marketOrder(id int64, side models.Side, size float64, subAccount int64, at time.Time) *models.BookOrder {
	return &models.BookOrder{ID: id, Size: size, Side: side, Type: models.OrderTypeMarket, SubAccountID: subAccount, OpenAt: at}
}

// Scenario 1: limit-on-empty.
func TestLimitOnEmptyBookRests(t *testing.T) {
	book := newTestBook()
	fills := book.ProcessOrder(limitOrder(1, models.SideBuy, 10.00, 10.0, 1, time.Now()))

	assert.Empty(t, fills)
	assert.NotNil(t, book.BestBid())
	assert.Equal(t, int64(1), book.BestBid().ID)
	assert.Nil(t, book.BestAsk())
}

// Scenario 2: limit crossing fully.
func TestLimitCrossingFullyConsumesBoth(t *testing.T) {
	book := newTestBook()
	book.ProcessOrder(limitOrder(1, models.SideBuy, 10.00, 10.0, 1, time.Now()))

	fills := book.ProcessOrder(limitOrder(2, models.SideSell, 10.00, 10.0, 2, time.Now()))

	if assert.Len(t, fills, 2) {
		assert.Equal(t, fills[0].Price, fills[1].Price)
		assert.Equal(t, fills[0].Size, fills[1].Size)
		assert.Equal(t, 10.0, fills[0].Size)
		assert.NotEqual(t, fills[0].Side, fills[1].Side)
		assert.NotEqual(t, fills[0].OrderID, fills[1].OrderID)
		assert.Equal(t, int64(1), fills[0].OrderID) // resting side emitted first
		assert.Equal(t, int64(2), fills[1].OrderID)
	}
	assert.Nil(t, book.BestBid())
	assert.Nil(t, book.BestAsk())
}

// Scenario 3: partial cross then rest.
func TestPartialCrossLeavesRemainder(t *testing.T) {
	book := newTestBook()
	book.ProcessOrder(limitOrder(1, models.SideBuy, 10.00, 10.0, 1, time.Now()))

	fills := book.ProcessOrder(limitOrder(2, models.SideSell, 10.00, 15.0, 2, time.Now()))

	if assert.Len(t, fills, 2) {
		assert.Equal(t, 10.0, fills[0].Size)
	}
	assert.Nil(t, book.BestBid())
	ask := book.BestAsk()
	if assert.NotNil(t, ask) {
		assert.Equal(t, 10.00, ask.Price)
		assert.Equal(t, 5.0, ask.Size)
	}
}

// Scenario 4: market order pops the first resting bid at 10.00, then partially
// fills the second bid at 10.00 via modify_tob; the 9.00 bid is not reached.
func TestMarketOrderWalksBookLevels(t *testing.T) {
	book := newTestBook()
	t0 := time.Now()
	book.ProcessOrder(limitOrder(1, models.SideBuy, 10.00, 10.0, 1, t0))
	book.ProcessOrder(limitOrder(2, models.SideBuy, 10.00, 10.0, 1, t0.Add(time.Millisecond)))
	book.ProcessOrder(limitOrder(3, models.SideBuy, 9.00, 10.0, 1, t0.Add(2*time.Millisecond)))

	fills := book.ProcessOrder(marketOrder(4, models.SideSell, 15.0, 2, t0.Add(3*time.Millisecond)))

	if assert.Len(t, fills, 4) {
		assert.Equal(t, 10.0, fills[0].Size)
		assert.Equal(t, int64(1), fills[0].OrderID)
		assert.Equal(t, 5.0, fills[2].Size)
		assert.Equal(t, int64(2), fills[2].OrderID)
	}

	bid := book.BestBid()
	if assert.NotNil(t, bid) {
		assert.Equal(t, int64(2), bid.ID)
		assert.Equal(t, 5.0, bid.Size)
		assert.Equal(t, 10.00, bid.Price)
	}
}

// Scenario 5: price-time tie-break.
func TestPriceTimeTieBreak(t *testing.T) {
	book := newTestBook()
	t0 := time.Now()
	book.ProcessOrder(limitOrder(1, models.SideSell, 10.00, 10.0, 1, t0))
	book.ProcessOrder(limitOrder(2, models.SideSell, 10.00, 10.0, 1, t0.Add(time.Millisecond)))

	fills := book.ProcessOrder(limitOrder(3, models.SideBuy, 10.00, 10.0, 2, t0.Add(2*time.Millisecond)))

	if assert.Len(t, fills, 2) {
		assert.Equal(t, int64(1), fills[0].OrderID)
	}
	ask := book.BestAsk()
	if assert.NotNil(t, ask) {
		assert.Equal(t, int64(2), ask.ID)
	}
}

// Scenario 6: market order on a fully empty book is silently dropped.
func TestMarketOrderOnEmptyBookIsDropped(t *testing.T) {
	book := newTestBook()
	fills := book.ProcessOrder(marketOrder(1, models.SideBuy, 10.0, 1, time.Now()))

	assert.Empty(t, fills)
	assert.Nil(t, book.BestBid())
}

func TestBestBidNeverAboveBestAsk(t *testing.T) {
	book := newTestBook()
	book.ProcessOrder(limitOrder(1, models.SideBuy, 9.50, 5.0, 1, time.Now()))
	book.ProcessOrder(limitOrder(2, models.SideSell, 10.50, 5.0, 2, time.Now()))

	bid, ask := book.BestBid(), book.BestAsk()
	if assert.NotNil(t, bid) && assert.NotNil(t, ask) {
		assert.Less(t, bid.Price, ask.Price)
	}
}
