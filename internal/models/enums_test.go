package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSideAliases(t *testing.T) {
	for _, raw := range []string{"buy", "Long", " BID "} {
		side, ok := ParseSide(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, SideBuy, side)
	}
	for _, raw := range []string{"sell", "Short", " ask "} {
		side, ok := ParseSide(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, SideSell, side)
	}

	_, ok := ParseSide("unknown")
	assert.False(t, ok)
}

func TestSideOpposite(t *testing.T) {
	assert.Equal(t, SideSell, SideBuy.Opposite())
	assert.Equal(t, SideBuy, SideSell.Opposite())
}

func TestParseOrderType(t *testing.T) {
	typ, ok := ParseOrderType("LIMIT")
	assert.True(t, ok)
	assert.Equal(t, OrderTypeLimit, typ)

	_, ok = ParseOrderType("stop")
	assert.False(t, ok)
}
