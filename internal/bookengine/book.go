package bookengine

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tradsys/venue/internal/models"
)

// Book is one market's pair of bid/ask queues. It is strictly
// single-threaded — owned by exactly one engine task per market, per the
// concurrency model in §5 — so it carries no internal lock.
type Book struct {
	MarketID int64
	Bids     *Queue
	Asks     *Queue
	logger   *zap.Logger
}

func NewBook(marketID int64, logger *zap.Logger) *Book {
	return &Book{
		MarketID: marketID,
		Bids:     newQueue(models.SideBuy),
		Asks:     newQueue(models.SideSell),
		logger:   logger,
	}
}

func (b *Book) side(s models.Side) *Queue {
	if s == models.SideBuy {
		return b.Bids
	}
	return b.Asks
}

// BestBid and BestAsk surface top-of-book for the §8 invariant
// best_bid < best_ask, and for any read-only inspection (tests, depth queries).
func (b *Book) BestBid() *models.BookOrder { return b.Bids.Peek() }
func (b *Book) BestAsk() *models.BookOrder { return b.Asks.Peek() }

// Cancel and Amend are the engine's internal operations; §1 Non-goals
// excludes any external cancel/amend wire protocol, so nothing in this
// repository calls these; the queue tests exercise Queue.Cancel and
// Queue.Amend directly.
func (b *Book) Cancel(side models.Side, id int64) bool      { return b.side(side).Cancel(id) }
func (b *Book) Amend(side models.Side, id int64, size float64) bool {
	return b.side(side).Amend(id, size)
}

// ProcessOrder runs the matching algorithm in §4.2 for one incoming order
// and returns every fill it produced, in emission order.
func (b *Book) ProcessOrder(incoming *models.BookOrder) []models.Fill {
	switch incoming.Type {
	case models.OrderTypeMarket:
		return b.processMarket(incoming)
	default:
		return b.processLimit(incoming)
	}
}

func (b *Book) processLimit(incoming *models.BookOrder) []models.Fill {
	var fills []models.Fill
	opposite := b.side(incoming.Side.Opposite())

	for {
		resting := opposite.Peek()
		if resting == nil || !crosses(incoming, resting) {
			b.side(incoming.Side).Insert(incoming)
			return fills
		}

		crossFills, done := b.cross(incoming, resting, opposite)
		fills = append(fills, crossFills...)
		if done {
			return fills
		}
	}
}

func (b *Book) processMarket(incoming *models.BookOrder) []models.Fill {
	var fills []models.Fill
	opposite := b.side(incoming.Side.Opposite())

	for {
		resting := opposite.Peek()
		if resting == nil {
			// Fill-or-leave-nothing: the remainder is silently dropped, per §4.2/§9.
			return fills
		}

		crossFills, done := b.cross(incoming, resting, opposite)
		fills = append(fills, crossFills...)
		if done {
			return fills
		}
	}
}

// crosses reports whether an incoming limit order's price crosses the
// opposite top-of-book: bid price >= best ask, or ask price <= best bid.
func crosses(incoming, resting *models.BookOrder) bool {
	if incoming.Side == models.SideBuy {
		return incoming.Price >= resting.Price
	}
	return incoming.Price <= resting.Price
}

// cross executes one match between the incoming order and the current
// opposite top-of-book, emitting the resting-side fill first and the
// aggressing-side fill second, per §4.2. Returns whether the incoming order
// is now fully consumed.
func (b *Book) cross(incoming, resting *models.BookOrder, opposite *Queue) ([]models.Fill, bool) {
	matchSize := resting.Size
	if incoming.Size < matchSize {
		matchSize = incoming.Size
	}

	now := time.Now().UTC()

	restingFill := models.NewFill(uuid.NewString(), resting.Price, matchSize, resting.Side, resting.Type,
		resting.SubAccountID, b.MarketID, resting.ID, now)
	incomingFill := models.NewFill(uuid.NewString(), resting.Price, matchSize, incoming.Side, incoming.Type,
		incoming.SubAccountID, b.MarketID, incoming.ID, now)

	fills := []models.Fill{restingFill, incomingFill}

	switch {
	case incoming.Size < resting.Size:
		opposite.ModifyTOB(resting.Size - incoming.Size)
		incoming.Size = 0
		return fills, true
	case incoming.Size > resting.Size:
		opposite.Pop()
		incoming.Size -= resting.Size
		return fills, false
	default:
		opposite.Pop()
		incoming.Size = 0
		return fills, true
	}
}
