package models

import "time"

// Fill is append-only: one row per side of every cross the book engine emits.
type Fill struct {
	ID           string    `json:"id" gorm:"primaryKey"` // producer-assigned uuid, makes the insert idempotent
	Price        float64   `json:"price"`
	Size         float64   `json:"size"`
	QuoteSize    float64   `json:"quote_size"`
	Side         Side      `json:"side"`
	Type         OrderType `json:"type"`
	CreatedAt    time.Time `json:"created_at"`
	SubAccountID int64     `json:"sub_account_id"`
	MarketID     int64     `json:"market_id"`
	OrderID      int64     `json:"order_id"`
}

func (Fill) TableName() string { return "fills" }

// NewFill builds a fill from a side of a cross; quote_size is derived, never
// taken from the caller, so it can never disagree with price*size.
func NewFill(id string, price, size float64, side Side, typ OrderType, subAccountID, marketID, orderID int64, at time.Time) Fill {
	return Fill{
		ID:           id,
		Price:        price,
		Size:         size,
		QuoteSize:    price * size,
		Side:         side,
		Type:         typ,
		CreatedAt:    at,
		SubAccountID: subAccountID,
		MarketID:     marketID,
		OrderID:      orderID,
	}
}
