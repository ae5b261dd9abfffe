// Command ingress serves the HTTP surface: order creation, the
// reference-store read/write routes, and the live fill stream.
package main

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/tradsys/venue/internal/broadcaster"
	"github.com/tradsys/venue/internal/bus"
	"github.com/tradsys/venue/internal/config"
	"github.com/tradsys/venue/internal/httpapi"
	"github.com/tradsys/venue/internal/ingress"
	"github.com/tradsys/venue/internal/refstore"
)

func main() {
	app := fx.New(
		config.Module,
		bus.Module,
		refstore.Module,
		ingress.Module,
		broadcaster.Module,
		httpapi.Module,
		fx.Invoke(func(logger *zap.Logger) {
			logger.Info("ingress api started")
		}),
	)

	app.Run()
}
