package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewFillDerivesQuoteSize(t *testing.T) {
	fill := NewFill("fill-1", 10.0, 2.5, SideBuy, OrderTypeLimit, 1, 2, 3, time.Now())

	assert.Equal(t, "fill-1", fill.ID)
	assert.Equal(t, 25.0, fill.QuoteSize)
	assert.Equal(t, int64(3), fill.OrderID)
}
