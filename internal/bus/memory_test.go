package bus

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnvelope struct {
	ID string `json:"id"`
}

func TestMemoryBusEarliestReplaysBacklog(t *testing.T) {
	b := NewMemoryBus()
	ctx := context.Background()

	require.NoError(t, b.Send(ctx, Orders, testEnvelope{ID: "a"}))
	require.NoError(t, b.Send(ctx, Orders, testEnvelope{ID: "b"}))

	consumer, err := b.Consume(ctx, Orders, Earliest)
	require.NoError(t, err)
	defer consumer.Close()

	first, err := consumer.Next(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"a"}`, string(first))

	second, err := consumer.Next(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"b"}`, string(second))
}

func TestMemoryBusLatestSkipsBacklog(t *testing.T) {
	b := NewMemoryBus()
	ctx := context.Background()

	require.NoError(t, b.Send(ctx, Fills, testEnvelope{ID: "before"}))

	consumer, err := b.Consume(ctx, Fills, Latest)
	require.NoError(t, err)
	defer consumer.Close()

	require.NoError(t, b.Send(ctx, Fills, testEnvelope{ID: "after"}))

	delivered, err := consumer.Next(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"after"}`, string(delivered))
}

func TestMemoryConsumerNextRespectsContextCancellation(t *testing.T) {
	b := NewMemoryBus()
	ctx, cancel := context.WithCancel(context.Background())

	consumer, err := b.Consume(ctx, Orders, Latest)
	require.NoError(t, err)
	defer consumer.Close()

	cancel()

	_, err = consumer.Next(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryBusRefreshClearsBacklog(t *testing.T) {
	b := NewMemoryBus()
	ctx := context.Background()

	require.NoError(t, b.Send(ctx, Orders, testEnvelope{ID: "stale"}))
	require.NoError(t, b.Refresh(ctx))

	consumer, err := b.Consume(ctx, Orders, Earliest)
	require.NoError(t, err)
	defer consumer.Close()

	deadlineCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()

	_, err = consumer.Next(deadlineCtx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
