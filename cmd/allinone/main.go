// Command allinone wires every process-level module into a single binary,
// for local development and small deployments where the engine, ingress,
// materializer, and broadcaster tiers don't need independent scaling.
package main

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/tradsys/venue/internal/bookengine"
	"github.com/tradsys/venue/internal/broadcaster"
	"github.com/tradsys/venue/internal/bus"
	"github.com/tradsys/venue/internal/config"
	"github.com/tradsys/venue/internal/httpapi"
	"github.com/tradsys/venue/internal/ingress"
	"github.com/tradsys/venue/internal/materializer"
	"github.com/tradsys/venue/internal/refstore"
)

func main() {
	app := fx.New(
		config.Module,
		bus.Module,
		refstore.Module,
		bookengine.Module,
		materializer.Module,
		ingress.Module,
		broadcaster.Module,
		httpapi.Module,
		fx.Invoke(func(logger *zap.Logger) {
			logger.Info("venue allinone started")
		}),
	)

	app.Run()
}
