package materializer

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/tradsys/venue/internal/bus"
	"github.com/tradsys/venue/internal/models"
	"github.com/tradsys/venue/internal/refstore"
)

// OrderSink is the sole writer of the orders table. Ingress publishes to the
// `orders` stream without writing a row itself (DESIGN.md's publish-first
// resolution to the write-then-publish gap in §4.4/§9); this consumer is
// what turns that publish into the durable open-order row.
type OrderSink struct {
	store  *refstore.Store
	bus    bus.Bus
	logger *zap.Logger
}

func NewOrderSink(store *refstore.Store, b bus.Bus, logger *zap.Logger) *OrderSink {
	return &OrderSink{store: store, bus: b, logger: logger}
}

// Run consumes `orders` from the earliest offset forever. A re-delivered
// event inserts a duplicate-id row that GORM's primary key constraint
// rejects; that failure is logged and the loop continues rather than
// crashing the process.
func (o *OrderSink) Run(ctx context.Context) error {
	consumer, err := o.bus.Consume(ctx, bus.Orders, bus.Earliest)
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
			o.logger.Error("orders consumer terminated", zap.Error(err))
			return err
		}

		var event models.OrderEvent
		if err := json.Unmarshal(raw, &event); err != nil {
			o.logger.Error("malformed order frame", zap.Error(err))
			continue
		}

		order := event.ToOrder()
		if err := o.store.InsertOrder(ctx, &order); err != nil {
			o.logger.Error("order insert dropped", zap.Int64("order_id", order.ID), zap.Error(err))
		}
	}
}
