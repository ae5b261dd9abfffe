package materializer

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/tradsys/venue/internal/bus"
	"github.com/tradsys/venue/internal/refstore"
)

const defaultPoolSize = 8

func newMaterializer(store *refstore.Store, b bus.Bus, logger *zap.Logger) (*Materializer, error) {
	return New(store, b, logger, defaultPoolSize)
}

// Module supplies the fills-consuming Materializer and the orders-consuming
// OrderSink, and runs both for the lifetime of the process.
var Module = fx.Options(
	fx.Provide(newMaterializer),
	fx.Provide(NewOrderSink),
	fx.Invoke(registerLifecycle),
)

func registerLifecycle(lc fx.Lifecycle, m *Materializer, sink *OrderSink, logger *zap.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				if err := sink.Run(ctx); err != nil {
					logger.Error("order sink stopped", zap.Error(err))
				}
			}()
			go func() {
				if err := m.Run(ctx); err != nil {
					logger.Error("materializer stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			m.Close()
			return nil
		},
	})
}
