package stream

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"algotrader/internal/trading"
)

func waitForSnapshot(t *testing.T, ch <-chan trading.Snapshot) trading.Snapshot {
	t.Helper()
	select {
	case snap, ok := <-ch:
		require.True(t, ok, "channel closed before snapshot arrived")
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return trading.Snapshot{}
	}
}

func TestHubFansOutToAllSubscribers(t *testing.T) {
	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h.Start(ctx)
	defer h.Stop()

	id1, ch1 := h.Subscribe()
	id2, ch2 := h.Subscribe()
	defer h.Unsubscribe(id1)
	defer h.Unsubscribe(id2)
	require.Equal(t, 2, h.SubscriberCount())

	want := trading.Snapshot{RealizedPnL: 1234.5}
	h.Publish(want)

	assert.Equal(t, want.RealizedPnL, waitForSnapshot(t, ch1).RealizedPnL)
	assert.Equal(t, want.RealizedPnL, waitForSnapshot(t, ch2).RealizedPnL)
}

func TestHubUnsubscribeClosesChannel(t *testing.T) {
	h := NewHub()
	id, ch := h.Subscribe()

	h.Unsubscribe(id)
	_, ok := <-ch
	assert.False(t, ok)
	assert.Equal(t, 0, h.SubscriberCount())

	// Unknown id is a no-op.
	h.Unsubscribe("missing")
}

func TestHubSlowConsumerDoesNotBlock(t *testing.T) {
	h := NewHubWithConfig(HubConfig{BufferSize: 1, SubscriberBufferSize: 1})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h.Start(ctx)
	defer h.Stop()

	id, ch := h.Subscribe()
	defer h.Unsubscribe(id)

	// Never read from ch; publishing must not block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			h.Publish(trading.Snapshot{})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a slow consumer")
	}
	_ = ch
}

func TestHubStopClosesAllSubscribers(t *testing.T) {
	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h.Start(ctx)

	_, ch1 := h.Subscribe()
	_, ch2 := h.Subscribe()

	h.Stop()
	h.Stop() // second call must be a no-op

	_, ok := <-ch1
	assert.False(t, ok)
	_, ok = <-ch2
	assert.False(t, ok)
	assert.False(t, h.IsStarted())
}
