package bus

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/tradsys/venue/internal/venueerrors"
)

// MemoryBus is an in-process Bus used by tests and by `enable_rabbitmq`-less
// runs: no broker, no durability, just enough fan-out to exercise the
// matching pipeline end to end without a real NATS server.
type MemoryBus struct {
	mu    sync.Mutex
	queue map[Stream][][]byte
	subs  map[Stream][]*memoryConsumer
}

func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		queue: make(map[Stream][][]byte),
		subs:  make(map[Stream][]*memoryConsumer),
	}
}

func (b *MemoryBus) Send(ctx context.Context, stream Stream, v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return venueerrors.Wrap(err, venueerrors.Internal, "marshal bus message")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.queue[stream] = append(b.queue[stream], payload)
	for _, c := range b.subs[stream] {
		select {
		case c.ch <- payload:
		default:
			// unbuffered-overflow: the consumer loop is expected to drain promptly in tests
			c.ch <- payload
		}
	}
	return nil
}

func (b *MemoryBus) Close() error { return nil }

func (b *MemoryBus) Refresh(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.queue = make(map[Stream][][]byte)
	return nil
}

func (b *MemoryBus) Consume(ctx context.Context, stream Stream, from Offset) (Consumer, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	backlog := make([][]byte, 0)
	if from == Earliest {
		backlog = append(backlog, b.queue[stream]...)
	}

	c := &memoryConsumer{ch: make(chan []byte, 1024), backlog: backlog}
	b.subs[stream] = append(b.subs[stream], c)
	return c, nil
}

type memoryConsumer struct {
	ch      chan []byte
	backlog [][]byte
	mu      sync.Mutex
}

func (c *memoryConsumer) Next(ctx context.Context) ([]byte, error) {
	c.mu.Lock()
	if len(c.backlog) > 0 {
		next := c.backlog[0]
		c.backlog = c.backlog[1:]
		c.mu.Unlock()
		return next, nil
	}
	c.mu.Unlock()

	select {
	case payload := <-c.ch:
		return payload, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *memoryConsumer) Close() error { return nil }
