package eventbus

import (
	"context"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ticketEvent struct {
	Handler string
	ID      int
}

func receive(t *testing.T, ch <-chan ticketEvent) ticketEvent {
	t.Helper()
	select {
	case ev, ok := <-ch:
		require.True(t, ok, "channel closed")
		return ev
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
		return ticketEvent{}
	}
}

func TestEventBus_BasicPubSub(t *testing.T) {
	bus := New[ticketEvent]()
	defer bus.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, cleanup := bus.Subscribe(ctx)
	defer cleanup()

	delivered := bus.Publish(ticketEvent{ID: 1, Handler: "level1"})
	assert.Equal(t, 1, delivered)
	assert.Equal(t, ticketEvent{ID: 1, Handler: "level1"}, receive(t, events))
}

func TestEventBus_MultipleSubscribers(t *testing.T) {
	bus := New[ticketEvent]()
	defer bus.Shutdown()

	const n = 5
	subs := make([]<-chan ticketEvent, n)
	for i := range subs {
		ch, cleanup := bus.Subscribe(context.Background())
		defer cleanup()
		subs[i] = ch
	}

	assert.Equal(t, n, bus.Publish(ticketEvent{ID: 42}))
	for _, ch := range subs {
		assert.Equal(t, 42, receive(t, ch).ID)
	}
	assert.Equal(t, n, bus.Stats().Subscribers)
}

func TestEventBus_FullBufferDrops(t *testing.T) {
	bus := NewWithConfig[ticketEvent](Config{BufferSize: 2})
	defer bus.Shutdown()

	_, cleanup := bus.Subscribe(context.Background())
	defer cleanup()

	assert.Equal(t, 1, bus.Publish(ticketEvent{ID: 1}))
	assert.Equal(t, 1, bus.Publish(ticketEvent{ID: 2}))
	assert.Equal(t, 0, bus.Publish(ticketEvent{ID: 3}))

	stats := bus.Stats()
	assert.EqualValues(t, 3, stats.Published)
	assert.EqualValues(t, 1, stats.TotalDropped)
}

func TestEventBus_ContextCancelUnsubscribes(t *testing.T) {
	bus := New[ticketEvent]()
	defer bus.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	events, _ := bus.Subscribe(ctx)
	cancel()

	select {
	case _, ok := <-events:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("channel not closed after context cancel")
	}
	assert.Equal(t, 0, bus.Publish(ticketEvent{ID: 1}))
}

func TestEventBus_CleanupIsIdempotent(t *testing.T) {
	bus := New[ticketEvent]()
	defer bus.Shutdown()

	_, cleanup := bus.Subscribe(context.Background())
	cleanup()
	cleanup()
	assert.Equal(t, 0, bus.Stats().Subscribers)
}

func TestEventBus_CleanupReleasesWatcher(t *testing.T) {
	bus := New[ticketEvent]()
	defer bus.Shutdown()

	before := runtime.NumGoroutine()
	for i := 0; i < 50; i++ {
		_, cleanup := bus.Subscribe(context.Background())
		cleanup()
	}

	require.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= before
	}, time.Second, 10*time.Millisecond, "subscription watchers still running after cleanup")
}

func TestEventBus_Shutdown(t *testing.T) {
	bus := New[ticketEvent]()
	events, _ := bus.Subscribe(context.Background())

	bus.Shutdown()
	bus.Shutdown()

	_, ok := <-events
	assert.False(t, ok)
	assert.Equal(t, 0, bus.Publish(ticketEvent{ID: 1}))
	assert.True(t, bus.Stats().IsShutdown)

	late, _ := bus.Subscribe(context.Background())
	_, ok = <-late
	assert.False(t, ok)
}

func TestEventBus_ConcurrentPublishAndUnsubscribe(t *testing.T) {
	bus := NewWithConfig[ticketEvent](Config{BufferSize: 1})
	defer bus.Shutdown()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		_, cleanup := bus.Subscribe(context.Background())
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				bus.Publish(ticketEvent{ID: i*100 + j})
			}
		}(i)
		go func() {
			defer wg.Done()
			cleanup()
		}()
	}
	wg.Wait()
}
