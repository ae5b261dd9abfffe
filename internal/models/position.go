package models

// Position is upserted by the materializer on every fill, never deleted.
// Size is kept non-negative with an explicit Side, per the model chosen in
// DESIGN.md for the otherwise-underspecified opposing-fill behavior.
type Position struct {
	ID            int64   `json:"id" gorm:"primaryKey"`
	AvgEntryPrice float64 `json:"avg_entry_price"`
	Size          float64 `json:"size"`
	Side          Side    `json:"side"`
	SubAccountID  int64   `json:"sub_account_id" gorm:"uniqueIndex:idx_positions_sub_account_market"`
	MarketID      int64   `json:"market_id" gorm:"uniqueIndex:idx_positions_sub_account_market"`
}

func (Position) TableName() string { return "positions" }

// ApplyFill folds a fill into the position using the signed-size model:
// same-side fills extend the weighted-average entry price; opposite-side
// fills reduce size, and once the residual crosses zero the side flips and
// the average entry resets to the fill price for the residual size.
func (p *Position) ApplyFill(fillSide Side, price, size float64) {
	if p.Size == 0 {
		p.Side = fillSide
		p.Size = size
		p.AvgEntryPrice = price
		return
	}

	if fillSide == p.Side {
		totalCost := p.AvgEntryPrice*p.Size + price*size
		p.Size += size
		p.AvgEntryPrice = totalCost / p.Size
		return
	}

	// Opposing fill: reduce, and flip on crossing zero.
	residual := p.Size - size
	switch {
	case residual > 0:
		p.Size = residual
		// side and avg entry price are unchanged by a partial reduction
	case residual < 0:
		p.Side = fillSide
		p.Size = -residual
		p.AvgEntryPrice = price
	default:
		p.Size = 0
		p.AvgEntryPrice = 0
	}
}
