package bookengine

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/tradsys/venue/internal/bus"
	"github.com/tradsys/venue/internal/models"
)

// Engine owns one Book per market and is the consumer-side half of §4.2:
// it reads the `orders` stream and writes the `fills` stream. Each market's
// processing is synchronous with respect to consumer offset advancement —
// the outer loop never runs two markets' matching concurrently against the
// same book, though different markets' books are independent and could be
// sharded across goroutines if the consumer delivered that way.
type Engine struct {
	mu     sync.Mutex
	books  map[int64]*Book
	bus    bus.Bus
	logger *zap.Logger
}

func NewEngine(b bus.Bus, logger *zap.Logger) *Engine {
	return &Engine{
		books:  make(map[int64]*Book),
		bus:    b,
		logger: logger,
	}
}

func (e *Engine) bookFor(marketID int64) *Book {
	e.mu.Lock()
	defer e.mu.Unlock()
	b, ok := e.books[marketID]
	if !ok {
		b = NewBook(marketID, e.logger)
		e.books[marketID] = b
	}
	return b
}

// BookFor exposes the in-memory book for read-only inspection (tests, depth queries).
func (e *Engine) BookFor(marketID int64) *Book { return e.bookFor(marketID) }

// Run consumes `orders` from the earliest offset forever, matching each one
// against its market's book and publishing the resulting fills. Per §4.2's
// failure semantics, the engine never fails a match; broker send failures on
// `fills` are logged and dropped, not retried in-process — the next replay
// of `orders` on recovery re-derives the same fills.
func (e *Engine) Run(ctx context.Context) error {
	consumer, err := e.bus.Consume(ctx, bus.Orders, bus.Earliest)
	if err != nil {
		return err
	}
	defer consumer.Close()

	for {
		raw, err := consumer.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			e.logger.Error("orders consumer terminated", zap.Error(err))
			return err
		}

		var event models.OrderEvent
		if err := json.Unmarshal(raw, &event); err != nil {
			e.logger.Error("malformed order frame", zap.Error(err))
			continue
		}

		e.processOne(ctx, event)
	}
}

func (e *Engine) processOne(ctx context.Context, event models.OrderEvent) {
	book := e.bookFor(event.MarketID)
	fills := book.ProcessOrder(event.ToBookOrder())

	for _, fill := range fills {
		if err := e.bus.Send(ctx, bus.Fills, fill); err != nil {
			e.logger.Error("fill publish dropped", zap.String("fill_id", fill.ID), zap.Error(err))
		}
	}
}
