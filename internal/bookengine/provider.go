package bookengine

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/tradsys/venue/internal/bus"
)

// Module supplies the Engine and starts its `orders`-consuming loop on
// process start, stopping it when the fx lifecycle stops.
var Module = fx.Options(
	fx.Provide(NewEngine),
	fx.Invoke(registerLifecycle),
)

func registerLifecycle(lc fx.Lifecycle, engine *Engine, b bus.Bus, logger *zap.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				if err := engine.Run(ctx); err != nil {
					logger.Error("book engine stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}
