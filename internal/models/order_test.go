package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplyFillPartialKeepsOrderOpen(t *testing.T) {
	o := Order{Size: 10, Status: OrderStatusOpen}
	o.ApplyFill(4, time.Now())

	assert.Equal(t, 4.0, o.FilledSize)
	assert.Equal(t, OrderStatusOpen, o.Status)
	assert.Nil(t, o.ClosedAt)
	assert.Equal(t, 6.0, o.RemainingSize())
}

func TestApplyFillFullyFilledClosesOrder(t *testing.T) {
	now := time.Now()
	o := Order{Size: 10, FilledSize: 7, Status: OrderStatusOpen}
	o.ApplyFill(3, now)

	assert.Equal(t, 10.0, o.FilledSize)
	assert.Equal(t, OrderStatusClosed, o.Status)
	assert.Equal(t, 0.0, o.RemainingSize())
	if assert.NotNil(t, o.ClosedAt) {
		assert.Equal(t, now, *o.ClosedAt)
	}
}

func TestApplyFillOvershootClampsToSize(t *testing.T) {
	o := Order{Size: 10, FilledSize: 8, Status: OrderStatusOpen}
	o.ApplyFill(5, time.Now())

	assert.Equal(t, 10.0, o.FilledSize, "filled size must clamp to the order size, never exceed it")
	assert.Equal(t, OrderStatusClosed, o.Status)
}

func TestOrderEventToOrderStartsFlatAndOpen(t *testing.T) {
	price := 101.5
	clientOrderID := "abc-1"
	event := OrderEvent{
		ID:            7,
		ClientOrderID: &clientOrderID,
		Price:         &price,
		Size:          2,
		Side:          SideBuy,
		Type:          OrderTypeLimit,
		OpenAt:        time.Now(),
		SubAccountID:  1,
		MarketID:      2,
	}

	order := event.ToOrder()

	assert.Equal(t, event.ID, order.ID)
	assert.Equal(t, 0.0, order.FilledSize)
	assert.Equal(t, OrderStatusOpen, order.Status)
	assert.Equal(t, event.Price, order.Price)
	assert.Equal(t, event.SubAccountID, order.SubAccountID)
	assert.Equal(t, event.MarketID, order.MarketID)
}

func TestOrderEventToBookOrderDefaultsMarketPriceToZero(t *testing.T) {
	event := OrderEvent{ID: 3, Size: 5, Side: SideSell, Type: OrderTypeMarket, SubAccountID: 1, MarketID: 1}

	book := event.ToBookOrder()

	assert.Equal(t, 0.0, book.Price)
	assert.Equal(t, event.Size, book.Size)
	assert.Equal(t, event.Side, book.Side)
}
