package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTicker(t *testing.T) {
	base, quote := NormalizeTicker(" btc ", "usd")
	assert.Equal(t, "BTC", base)
	assert.Equal(t, "USD", quote)
}

func TestFloorToIncrement(t *testing.T) {
	assert.Equal(t, 10.0, FloorToIncrement(10.9, 1))
	assert.Equal(t, 8.0, FloorToIncrement(9.5, 2))
	assert.Equal(t, 7.5, FloorToIncrement(7.5, 0)) // zero increment is a no-op
}
