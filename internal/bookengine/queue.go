package bookengine

import (
	"container/heap"
	"time"

	"github.com/tradsys/venue/internal/models"
)

// orderIndex is the heap element: just enough to order resting orders by
// price-then-time without touching the order record itself. Mirrors the
// two-structure (index + map) design in the original implementation's
// queue, which this package's lazy-deletion Queue is grounded on.
type orderIndex struct {
	id     int64
	price  float64
	openAt time.Time
}

// priceTimeHeap orders bids with the highest price first (ties broken by
// earlier open time), or asks with the lowest price first (ties broken by
// earlier open time) — selected by the `less` func at construction.
type priceTimeHeap struct {
	items []orderIndex
	less  func(a, b orderIndex) bool
}

func (h priceTimeHeap) Len() int            { return len(h.items) }
func (h priceTimeHeap) Less(i, j int) bool  { return h.less(h.items[i], h.items[j]) }
func (h priceTimeHeap) Swap(i, j int)       { h.items[i], h.items[j] = h.items[j], h.items[i] }
func (h *priceTimeHeap) Push(x interface{}) { h.items = append(h.items, x.(orderIndex)) }
func (h *priceTimeHeap) Pop() interface{} {
	old := h.items
	n := len(old)
	item := old[n-1]
	h.items = old[:n-1]
	return item
}

func bidLess(a, b orderIndex) bool {
	if a.price != b.price {
		return a.price > b.price // higher price first
	}
	return a.openAt.Before(b.openAt) // earlier time first
}

func askLess(a, b orderIndex) bool {
	if a.price != b.price {
		return a.price < b.price // lower price first
	}
	return a.openAt.Before(b.openAt)
}

// Queue is a bounded ordered container of resting open orders with lazy
// deletion: cancelled orders are dropped from the map but their index
// entries are skipped over, not removed, until they surface at the top.
type Queue struct {
	idx    *priceTimeHeap
	orders map[int64]*models.BookOrder
}

func newQueue(side models.Side) *Queue {
	less := bidLess
	if side == models.SideSell {
		less = askLess
	}
	h := &priceTimeHeap{less: less}
	heap.Init(h)
	return &Queue{idx: h, orders: make(map[int64]*models.BookOrder)}
}

// Peek returns the best resting order, skipping index entries whose order
// has already been removed.
func (q *Queue) Peek() *models.BookOrder {
	for q.idx.Len() > 0 {
		top := q.idx.items[0]
		if o, ok := q.orders[top.id]; ok {
			return o
		}
		heap.Pop(q.idx)
	}
	return nil
}

// Pop removes and returns the best resting order.
func (q *Queue) Pop() *models.BookOrder {
	for q.idx.Len() > 0 {
		top := heap.Pop(q.idx).(orderIndex)
		if o, ok := q.orders[top.id]; ok {
			delete(q.orders, top.id)
			return o
		}
	}
	return nil
}

// Insert rejects duplicate ids, otherwise appends the index entry and the
// order record.
func (q *Queue) Insert(o *models.BookOrder) bool {
	if _, exists := q.orders[o.ID]; exists {
		return false
	}
	heap.Push(q.idx, orderIndex{id: o.ID, price: o.Price, openAt: o.OpenAt})
	q.orders[o.ID] = o
	return true
}

// Cancel removes an order record by id; its index entries are purged lazily.
func (q *Queue) Cancel(id int64) bool {
	if _, ok := q.orders[id]; !ok {
		return false
	}
	delete(q.orders, id)
	return true
}

// Amend mutates any resting order's size in place.
func (q *Queue) Amend(id int64, newSize float64) bool {
	o, ok := q.orders[id]
	if !ok {
		return false
	}
	o.Size = newSize
	return true
}

// ModifyTOB mutates the best order's remaining size without changing its
// priority — used when a cross only partially consumes the resting order.
func (q *Queue) ModifyTOB(newSize float64) bool {
	top := q.Peek()
	if top == nil {
		return false
	}
	top.Size = newSize
	return true
}
