package models

import "testing"

import "github.com/stretchr/testify/assert"

func TestApplyFillOpensFromFlat(t *testing.T) {
	p := &Position{}
	p.ApplyFill(SideBuy, 10.0, 5.0)

	assert.Equal(t, SideBuy, p.Side)
	assert.Equal(t, 5.0, p.Size)
	assert.Equal(t, 10.0, p.AvgEntryPrice)
}

func TestApplyFillSameSideAveragesEntry(t *testing.T) {
	p := &Position{Side: SideBuy, Size: 5.0, AvgEntryPrice: 10.0}
	p.ApplyFill(SideBuy, 20.0, 5.0)

	assert.Equal(t, 10.0, p.Size)
	assert.Equal(t, 15.0, p.AvgEntryPrice)
}

func TestApplyFillOpposingSidePartialReduction(t *testing.T) {
	p := &Position{Side: SideBuy, Size: 10.0, AvgEntryPrice: 10.0}
	p.ApplyFill(SideSell, 12.0, 4.0)

	assert.Equal(t, SideBuy, p.Side)
	assert.Equal(t, 6.0, p.Size)
	assert.Equal(t, 10.0, p.AvgEntryPrice) // unchanged by partial reduction
}

func TestApplyFillOpposingSideFlipsOnOvershoot(t *testing.T) {
	p := &Position{Side: SideBuy, Size: 10.0, AvgEntryPrice: 10.0}
	p.ApplyFill(SideSell, 12.0, 15.0)

	assert.Equal(t, SideSell, p.Side)
	assert.Equal(t, 5.0, p.Size)
	assert.Equal(t, 12.0, p.AvgEntryPrice)
}

func TestApplyFillOpposingSideExactFlattens(t *testing.T) {
	p := &Position{Side: SideBuy, Size: 10.0, AvgEntryPrice: 10.0}
	p.ApplyFill(SideSell, 12.0, 10.0)

	assert.Equal(t, 0.0, p.Size)
	assert.Equal(t, 0.0, p.AvgEntryPrice)
}
