package bus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/tradsys/venue/internal/venueerrors"
)

// NatsConfig configures the JetStream-backed bus. Host/port resolve the
// broker per §6 Environment; MaxBytes/MaxAgeSeconds are the stream
// retention caps (50 MiB / 30s by default, per §6 Stream bus wire format).
type NatsConfig struct {
	Host          string
	Port          int
	MaxBytes      int64
	MaxAgeSeconds int
}

func (c NatsConfig) url() string {
	return fmt.Sprintf("nats://%s:%d", c.Host, c.Port)
}

// NatsBus is the production Bus, backed by a single NATS connection shared
// by every producer and consumer the process hands out, per the "one
// TCP/broker session per process" connection policy in §4.1.
type NatsBus struct {
	cfg     NatsConfig
	conn    *nats.Conn
	js      nats.JetStreamContext
	logger  *zap.Logger
	breaker *gobreaker.CircuitBreaker
}

// NewNatsBus connects to NATS and ensures both streams exist. Connection
// failure on startup is fatal, per §4.1.
func NewNatsBus(cfg NatsConfig, logger *zap.Logger) (*NatsBus, error) {
	opts := []nats.Option{
		nats.Name("venue-event-bus"),
		nats.Timeout(5 * time.Second),
		nats.MaxReconnects(10),
		nats.ReconnectWait(time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("bus disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("bus reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
	}

	conn, err := nats.Connect(cfg.url(), opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to bus at %s: %w", cfg.url(), err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open jetstream context: %w", err)
	}

	b := &NatsBus{
		cfg:    cfg,
		conn:   conn,
		js:     js,
		logger: logger,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name: "bus-producer",
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures > 5
			},
		}),
	}

	if err := b.ensureStreams(); err != nil {
		conn.Close()
		return nil, err
	}

	return b, nil
}

func (b *NatsBus) streamConfig(s Stream) *nats.StreamConfig {
	return &nats.StreamConfig{
		Name:      streamName(s),
		Subjects:  []string{string(s)},
		Retention: nats.LimitsPolicy,
		MaxAge:    time.Duration(b.cfg.MaxAgeSeconds) * time.Second,
		MaxBytes:  b.cfg.MaxBytes,
		Storage:   nats.FileStorage,
		Replicas:  1,
	}
}

func streamName(s Stream) string {
	switch s {
	case Orders:
		return "ORDERS"
	case Fills:
		return "FILLS"
	default:
		return string(s)
	}
}

func (b *NatsBus) ensureStreams() error {
	for _, s := range []Stream{Orders, Fills} {
		cfg := b.streamConfig(s)
		if _, err := b.js.StreamInfo(cfg.Name); err != nil {
			if _, createErr := b.js.AddStream(cfg); createErr != nil {
				return fmt.Errorf("create stream %s: %w", cfg.Name, createErr)
			}
		}
	}
	return nil
}

// Refresh deletes and recreates both streams, per SPEC_FULL.md's supplemented
// stream refresh lifecycle. No startup or admin path in this repository calls
// it; only the in-memory bus's Refresh is exercised, by its tests.
func (b *NatsBus) Refresh(ctx context.Context) error {
	for _, s := range []Stream{Orders, Fills} {
		name := streamName(s)
		_ = b.js.DeleteStream(name)
		if _, err := b.js.AddStream(b.streamConfig(s)); err != nil {
			return fmt.Errorf("recreate stream %s: %w", name, err)
		}
	}
	return nil
}

func (b *NatsBus) Send(ctx context.Context, stream Stream, v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return venueerrors.Wrap(err, venueerrors.Internal, "marshal bus message")
	}

	_, err = b.breaker.Execute(func() (interface{}, error) {
		return b.js.Publish(string(stream), payload, nats.Context(ctx))
	})
	if err != nil {
		b.logger.Error("bus publish failed", zap.String("stream", string(stream)), zap.Error(err))
		return venueerrors.Wrap(err, venueerrors.BusPublish, fmt.Sprintf("publish to %s failed", stream))
	}
	return nil
}

func (b *NatsBus) Close() error {
	return b.conn.Drain()
}

func (b *NatsBus) Consume(ctx context.Context, stream Stream, from Offset) (Consumer, error) {
	policy := nats.DeliverAllPolicy
	if from == Latest {
		policy = nats.DeliverNewPolicy
	}

	sub, err := b.js.SubscribeSync(string(stream), nats.DeliverPolicy(policy), nats.AckExplicit())
	if err != nil {
		return nil, venueerrors.Wrap(err, venueerrors.Internal, fmt.Sprintf("subscribe to %s failed", stream))
	}
	return &natsConsumer{sub: sub, logger: b.logger}, nil
}

type natsConsumer struct {
	sub    *nats.Subscription
	logger *zap.Logger
}

func (c *natsConsumer) Next(ctx context.Context) ([]byte, error) {
	for {
		msg, err := c.sub.NextMsgWithContext(ctx)
		if err != nil {
			return nil, err
		}
		if err := msg.Ack(); err != nil {
			c.logger.Warn("ack failed", zap.Error(err))
		}
		return msg.Data, nil
	}
}

func (c *natsConsumer) Close() error {
	return c.sub.Unsubscribe()
}
