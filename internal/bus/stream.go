// Package bus is the event bus adapter: producer/consumer abstractions over
// the two named durable streams, `orders` and `fills`.
package bus

import "context"

// Stream is the finite tagged variant from DESIGN NOTES — a stable string
// name rather than dynamic dispatch on stream type.
type Stream string

const (
	Orders Stream = "orders"
	Fills  Stream = "fills"
)

func (s Stream) String() string { return string(s) }

// Producer publishes JSON-framed values onto a named stream.
type Producer interface {
	// Send serializes v as JSON and publishes it with broker confirmation.
	// A transport failure is surfaced as a venueerrors.BusPublish error.
	Send(ctx context.Context, stream Stream, v interface{}) error
	Close() error
}

// Consumer is a lazy sequence of raw message bodies from one stream,
// starting at the caller-specified offset.
type Consumer interface {
	// Next awaits and returns the next delivery's raw JSON bytes. A
	// malformed frame is not this layer's concern — callers deserialize
	// it themselves; the consumers in this repository log a malformed
	// frame as an error and skip it.
	Next(ctx context.Context) ([]byte, error)
	Close() error
}

// Offset selects where a Consumer starts reading from.
type Offset int

const (
	Earliest Offset = iota
	Latest
)

// Bus is the full adapter: one broker connection per process, shared by
// every producer and consumer it hands out.
type Bus interface {
	Producer
	Consume(ctx context.Context, stream Stream, from Offset) (Consumer, error)
	// Refresh deletes and recreates both streams with their configured
	// length/age caps — the stream refresh lifecycle from SPEC_FULL.md §D.1.
	Refresh(ctx context.Context) error
}
