// Command materializer consumes the fills and orders streams and applies
// them to the reference store: fills, order state, and positions.
package main

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/tradsys/venue/internal/bus"
	"github.com/tradsys/venue/internal/config"
	"github.com/tradsys/venue/internal/materializer"
	"github.com/tradsys/venue/internal/refstore"
)

func main() {
	app := fx.New(
		config.Module,
		bus.Module,
		refstore.Module,
		materializer.Module,
		fx.Invoke(func(logger *zap.Logger) {
			logger.Info("materializer started")
		}),
	)

	app.Run()
}
