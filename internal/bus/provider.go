package bus

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/tradsys/venue/internal/config"
)

// New resolves the Bus implementation from the environment contract: a real
// NATS JetStream connection when the `enable_rabbitmq` toggle is set, an
// in-memory fallback otherwise (§6 Environment: "with it absent, the
// ingress returns order rows without publishing and the broadcaster serves
// only pings").
func New(cfg *config.Config, logger *zap.Logger) (Bus, error) {
	if !cfg.Bus.Enabled {
		return NewMemoryBus(), nil
	}
	return NewNatsBus(NatsConfig{
		Host:          cfg.Bus.Host,
		Port:          cfg.Bus.Port,
		MaxBytes:      cfg.Bus.MaxBytes,
		MaxAgeSeconds: cfg.Bus.MaxAgeSeconds,
	}, logger)
}

// Module supplies a Bus to every cmd/* process.
var Module = fx.Options(fx.Provide(New))
