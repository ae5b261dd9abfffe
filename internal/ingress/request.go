package ingress

import "github.com/tradsys/venue/internal/models"

// CreateOrderRequest is the POST /orders/{client_id} body from §4.4: a
// sub-account, a side/type/size triple, an optional price, an optional
// client-assigned id, and a market named either by id or by (base, quote).
type CreateOrderRequest struct {
	SubAccountID  int64    `json:"sub_account_id" binding:"required"`
	Size          float64  `json:"size" binding:"required,gt=0"`
	Side          string   `json:"side" binding:"required"`
	Type          string   `json:"type" binding:"required"`
	Price         *float64 `json:"price,omitempty"`
	ClientOrderID *string  `json:"client_order_id,omitempty"`
	MarketID      *int64   `json:"market_id,omitempty"`
	BaseCurrency  *string  `json:"base_currency,omitempty"`
	QuoteCurrency *string  `json:"quote_currency,omitempty"`
}

// OrderSummary is what step 7 returns: the created order as accepted, before
// any fills are known.
type OrderSummary struct {
	ID            int64       `json:"id"`
	ClientOrderID *string     `json:"client_order_id,omitempty"`
	Price         *float64    `json:"price,omitempty"`
	Size          float64     `json:"size"`
	Side          models.Side `json:"side"`
	Type          models.OrderType `json:"type"`
	SubAccountID  int64       `json:"sub_account_id"`
	MarketID      int64       `json:"market_id"`
	OpenAt        string      `json:"open_at"`
}
