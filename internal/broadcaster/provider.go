package broadcaster

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/tradsys/venue/internal/bus"
)

// Module supplies the Broadcaster and runs its `fills`-consuming loop for
// the lifetime of the process.
var Module = fx.Options(
	fx.Provide(New),
	fx.Invoke(registerLifecycle),
)

func registerLifecycle(lc fx.Lifecycle, b *Broadcaster, logger *zap.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				if err := b.Run(ctx); err != nil {
					logger.Error("broadcaster stopped", zap.Error(err))
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
