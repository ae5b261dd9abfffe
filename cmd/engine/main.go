// Command engine runs the matching process: it consumes the orders stream
// and publishes fills, with no reference-store or HTTP surface of its own.
package main

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/tradsys/venue/internal/bookengine"
	"github.com/tradsys/venue/internal/bus"
	"github.com/tradsys/venue/internal/config"
)

func main() {
	app := fx.New(
		config.Module,
		bus.Module,
		bookengine.Module,
		fx.Invoke(func(logger *zap.Logger) {
			logger.Info("matching engine started")
		}),
	)

	app.Run()
}
