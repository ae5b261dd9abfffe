package broadcaster

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tradsys/venue/internal/bus"
	"github.com/tradsys/venue/internal/models"
)

func TestNewSubscriberSendsConnectedEvent(t *testing.T) {
	b := New(bus.NewMemoryBus(), zap.NewNop())

	ch, cancel := b.NewSubscriber("fills")
	defer cancel()

	select {
	case payload := <-ch:
		assert.Equal(t, "connected", string(payload))
	default:
		t.Fatal("expected a connected event immediately on subscribe")
	}
}

func TestFanOutOnlyDeliversToMatchingTag(t *testing.T) {
	b := New(bus.NewMemoryBus(), zap.NewNop())

	fillsCh, cancelFills := b.NewSubscriber("fills")
	defer cancelFills()
	otherCh, cancelOther := b.NewSubscriber("other")
	defer cancelOther()

	<-fillsCh // drain the connected event
	<-otherCh

	b.fanOut("fills", []byte(`{"id":"abc"}`))

	select {
	case payload := <-fillsCh:
		assert.Equal(t, `{"id":"abc"}`, string(payload))
	case <-time.After(time.Second):
		t.Fatal("expected fanOut to deliver to the matching-tag subscriber")
	}

	select {
	case payload := <-otherCh:
		t.Fatalf("unexpected delivery to non-matching subscriber: %s", payload)
	default:
	}
}

func TestFanOutDropsOnFullChannel(t *testing.T) {
	b := New(bus.NewMemoryBus(), zap.NewNop())
	ch, cancel := b.NewSubscriber("fills")
	defer cancel()
	<-ch // drain connected

	for i := 0; i < 64; i++ {
		b.fanOut("fills", []byte("x"))
	}
	// channel is now full (cap 64); one more send must not block.
	done := make(chan struct{})
	go func() {
		b.fanOut("fills", []byte("overflow"))
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("fanOut blocked on a full subscriber channel")
	}
}

func TestPingReapsDeadSubscriber(t *testing.T) {
	b := New(bus.NewMemoryBus(), zap.NewNop())
	ch, _ := b.NewSubscriber("fills")
	<-ch // drain connected, channel is now empty with capacity free

	// fill the channel so the next ping has nowhere to send.
	for i := 0; i < 64; i++ {
		b.fanOut("fills", []byte("x"))
	}

	b.ping()

	b.mu.RLock()
	count := len(b.subs)
	b.mu.RUnlock()
	assert.Equal(t, 0, count, "ping should have reaped the subscriber whose channel was full")

	// drain the buffered messages; once exhausted, reads on the closed
	// channel return immediately with ok=false.
	var stillOpen bool
	for {
		if _, stillOpen = <-ch; !stillOpen {
			break
		}
	}
	assert.False(t, stillOpen, "channel should be closed after reaping")
}

func TestNewSubscriberCancelRemovesSubscriber(t *testing.T) {
	b := New(bus.NewMemoryBus(), zap.NewNop())
	_, cancel := b.NewSubscriber("fills")

	b.mu.RLock()
	require.Len(t, b.subs, 1)
	b.mu.RUnlock()

	cancel()

	b.mu.RLock()
	assert.Len(t, b.subs, 0)
	b.mu.RUnlock()
}

func TestRunFansOutFillDeliveries(t *testing.T) {
	memBus := bus.NewMemoryBus()
	b := New(memBus, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runErr := make(chan error, 1)
	go func() { runErr <- b.Run(ctx) }()

	// give Run a moment to start consuming before publishing.
	time.Sleep(20 * time.Millisecond)

	ch, unsubscribe := b.NewSubscriber("fills")
	defer unsubscribe()
	<-ch // drain connected

	fill := models.Fill{ID: "f1", Side: models.SideBuy, Type: models.OrderTypeLimit}
	require.NoError(t, memBus.Send(ctx, bus.Fills, fill))

	select {
	case payload := <-ch:
		assert.Contains(t, string(payload), `"id":"f1"`)
	case <-time.After(time.Second):
		t.Fatal("expected Run to fan out the published fill")
	}

	cancel()
	select {
	case err := <-runErr:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
}
