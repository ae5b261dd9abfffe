package ingress

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/tradsys/venue/internal/bus"
	"github.com/tradsys/venue/internal/config"
	"github.com/tradsys/venue/internal/refstore"
)

func newHandler(store *refstore.Store, b bus.Bus, logger *zap.Logger, cfg *config.Config) *Handler {
	return NewHandler(store, b, logger, cfg.Bus.Enabled)
}

// Module supplies the order-creation Handler.
var Module = fx.Options(fx.Provide(newHandler))
