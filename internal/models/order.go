package models

import "time"

// Order is a resting or historical order against a market. Filled_size only
// ever grows; it is mutated exclusively by the materializer, never by the
// ingress or the book engine.
type Order struct {
	ID            int64      `json:"id" gorm:"primaryKey"`
	ClientOrderID *string    `json:"client_order_id,omitempty"`
	Price         *float64   `json:"price,omitempty"`
	Size          float64    `json:"size"`
	FilledSize    float64    `json:"filled_size"`
	Side          Side       `json:"side"`
	Type          OrderType  `json:"type"`
	Status        OrderStatus `json:"status"`
	OpenAt        time.Time  `json:"open_at"`
	ClosedAt      *time.Time `json:"closed_at,omitempty"`
	SubAccountID  int64      `json:"sub_account_id"`
	MarketID      int64      `json:"market_id"`
}

func (Order) TableName() string { return "orders" }

// RemainingSize is what the book engine still has to match.
func (o *Order) RemainingSize() float64 {
	return o.Size - o.FilledSize
}

// IsOpen mirrors the status=open invariant.
func (o *Order) IsOpen() bool {
	return o.Status == OrderStatusOpen
}

// ApplyFill adds size to filled_size and closes the order once it is fully filled.
// Mirrors the materializer's update predicate in §4.3: filled_size==size ⇔ closed.
func (o *Order) ApplyFill(size float64, now time.Time) {
	o.FilledSize += size
	if o.FilledSize >= o.Size {
		o.FilledSize = o.Size
		o.Status = OrderStatusClosed
		closedAt := now
		o.ClosedAt = &closedAt
	}
}

// BookOrder is the lightweight projection the matching engine keeps in memory
// for a resting order — just what price-time priority and Cross() need.
type BookOrder struct {
	ID           int64
	Price        float64 // meaningless for market orders once they cross or are dropped
	Size         float64 // remaining, mutable size
	Side         Side
	Type         OrderType
	OpenAt       time.Time
	SubAccountID int64
	MarketID     int64
}

// OrderEvent is the `orders` stream wire payload: the ingress publishes one
// per accepted order (§4.4 step 7), and both the engine and the order-sink
// consumer read it independently off the same durable stream. It carries
// market_id explicitly — the reference implementation's internal matching
// struct omits it because that harness is single-market, but a shared
// stream feeding several per-market engines needs it to route; see
// DESIGN.md open-question resolution on bus-level Order messages.
type OrderEvent struct {
	ID            int64    `json:"id"`
	ClientOrderID *string  `json:"client_order_id,omitempty"`
	Price         *float64 `json:"price,omitempty"`
	Size          float64  `json:"size"`
	Side          Side     `json:"side"`
	Type          OrderType `json:"type"`
	OpenAt        time.Time `json:"open_at"`
	SubAccountID  int64    `json:"sub_account_id"`
	MarketID      int64    `json:"market_id"`
}

func (e OrderEvent) toBookOrder() *BookOrder {
	price := 0.0
	if e.Price != nil {
		price = *e.Price
	}
	return &BookOrder{
		ID:           e.ID,
		Price:        price,
		Size:         e.Size,
		Side:         e.Side,
		Type:         e.Type,
		OpenAt:       e.OpenAt,
		SubAccountID: e.SubAccountID,
		MarketID:     e.MarketID,
	}
}

// ToBookOrder projects the event into the matching engine's in-memory shape.
func (e OrderEvent) ToBookOrder() *BookOrder { return e.toBookOrder() }

// ToOrder projects the event into the durable row the order-sink consumer inserts.
func (e OrderEvent) ToOrder() Order {
	return Order{
		ID:            e.ID,
		ClientOrderID: e.ClientOrderID,
		Price:         e.Price,
		Size:          e.Size,
		FilledSize:    0,
		Side:          e.Side,
		Type:          e.Type,
		Status:        OrderStatusOpen,
		OpenAt:        e.OpenAt,
		SubAccountID:  e.SubAccountID,
		MarketID:      e.MarketID,
	}
}
