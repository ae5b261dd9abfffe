// Package broadcaster is the fill live-event channel: one consumer of
// `fills` fanned out over any number of SSE subscribers. Grounded on the
// teacher's websocket hub (internal/ws/hub.go) for the register/unregister
// channel pattern and drop-on-send-failure semantics, retargeted at
// text/event-stream per §4.5/§6.
package broadcaster

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tradsys/venue/internal/bus"
	"github.com/tradsys/venue/internal/models"
)

const pingInterval = 10 * time.Second

// subscriber is one live-event handle, bound to a stream tag. The channel is
// buffered so a slow reader does not stall the fan-out loop; a full channel
// is a dropped delivery, reaped on the next ping tick.
type subscriber struct {
	tag string
	ch  chan []byte
}

// Broadcaster maintains the live subscriber set and the single `fills`
// consumer that feeds it.
type Broadcaster struct {
	mu     sync.RWMutex
	subs   map[*subscriber]struct{}
	bus    bus.Bus
	logger *zap.Logger
}

func New(b bus.Bus, logger *zap.Logger) *Broadcaster {
	return &Broadcaster{
		subs:   make(map[*subscriber]struct{}),
		bus:    b,
		logger: logger,
	}
}

// NewSubscriber registers a handle bound to streamTag and immediately enqueues
// a "connected" event, per §4.5.
func (b *Broadcaster) NewSubscriber(streamTag string) (ch <-chan []byte, cancel func()) {
	sub := &subscriber{tag: streamTag, ch: make(chan []byte, 64)}
	sub.ch <- []byte("connected")

	b.mu.Lock()
	b.subs[sub] = struct{}{}
	b.mu.Unlock()

	return sub.ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subs[sub]; ok {
			delete(b.subs, sub)
			close(sub.ch)
		}
	}
}

// Run consumes `fills` from the latest offset forever, fanning each delivery
// out to every handle subscribed to "fills", and drives the 10-second ping
// tick that reaps dead handles.
func (b *Broadcaster) Run(ctx context.Context) error {
	consumer, err := b.bus.Consume(ctx, bus.Fills, bus.Latest)
	if err != nil {
		return err
	}
	defer consumer.Close()

	deliveries := make(chan []byte)
	errs := make(chan error, 1)
	go func() {
		for {
			raw, err := consumer.Next(ctx)
			if err != nil {
				errs <- err
				return
			}
			deliveries <- raw
		}
	}()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errs:
			if ctx.Err() != nil {
				return nil
			}
			b.logger.Error("fills consumer terminated", zap.Error(err))
			return err
		case raw := <-deliveries:
			var fill models.Fill
			if jsonErr := json.Unmarshal(raw, &fill); jsonErr != nil {
				b.logger.Error("malformed fill frame", zap.Error(jsonErr))
				continue
			}
			b.fanOut("fills", raw)
		case <-ticker.C:
			b.ping()
		}
	}
}

func (b *Broadcaster) fanOut(tag string, payload []byte) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for sub := range b.subs {
		if sub.tag != tag {
			continue
		}
		select {
		case sub.ch <- payload:
		default:
			// slow subscriber; dropped, reaped on the next ping tick.
		}
	}
}

func (b *Broadcaster) ping() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for sub := range b.subs {
		select {
		case sub.ch <- []byte(": ping"):
		default:
			delete(b.subs, sub)
			close(sub.ch)
		}
	}
}
