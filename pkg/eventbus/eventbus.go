package eventbus

/*
 * EventBus - a small lock-free pub/sub for fanning dispatch events out to
 * watchers (ladder run --follow, tests). Publishing never
 * blocks: a subscriber whose buffer is full misses the event and the drop
 * is counted.
 */
import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v4"
)

type EventBus[T any] struct {
	subscribers   *xsync.Map[string, *subscriber[T]]
	isShutdown    atomic.Bool
	subscriberSeq atomic.Uint64
	published     atomic.Uint64
	bufferSize    int
}

type subscriber[T any] struct {
	ch      chan T
	done    chan struct{}
	id      string
	dropped atomic.Uint64
	mu      sync.RWMutex
	closed  bool
}

type Config struct {
	BufferSize int
}

var DefaultConfig = Config{
	BufferSize: 100,
}

func New[T any]() *EventBus[T] {
	return NewWithConfig[T](DefaultConfig)
}

func NewWithConfig[T any](config Config) *EventBus[T] {
	if config.BufferSize <= 0 {
		config.BufferSize = DefaultConfig.BufferSize
	}
	return &EventBus[T]{
		subscribers: xsync.NewMap[string, *subscriber[T]](),
		bufferSize:  config.BufferSize,
	}
}

// Subscribe returns a channel of events and a func to stop receiving them.
// The subscription also ends when ctx is cancelled.
func (eb *EventBus[T]) Subscribe(ctx context.Context) (<-chan T, func()) {
	if eb.isShutdown.Load() {
		ch := make(chan T)
		close(ch)
		return ch, func() {}
	}

	id := "sub_" + strconv.FormatUint(eb.subscriberSeq.Add(1), 10)
	sub := &subscriber[T]{
		id:   id,
		ch:   make(chan T, eb.bufferSize),
		done: make(chan struct{}),
	}
	eb.subscribers.Store(id, sub)

	go func() {
		select {
		case <-ctx.Done():
			eb.unsubscribe(id)
		case <-sub.done:
		}
	}()

	return sub.ch, func() { eb.unsubscribe(id) }
}

// Publish delivers event to every subscriber with buffer room and returns
// how many received it.
func (eb *EventBus[T]) Publish(event T) int {
	if eb.isShutdown.Load() {
		return 0
	}
	eb.published.Add(1)

	delivered := 0
	eb.subscribers.Range(func(id string, sub *subscriber[T]) bool {
		if sub.offer(event) {
			delivered++
		}
		return true
	})

	return delivered
}

func (sub *subscriber[T]) offer(event T) bool {
	sub.mu.RLock()
	defer sub.mu.RUnlock()

	if sub.closed {
		return false
	}

	select {
	case sub.ch <- event:
		return true
	default:
		sub.dropped.Add(1)
		return false
	}
}

func (sub *subscriber[T]) close() {
	sub.mu.Lock()
	defer sub.mu.Unlock()

	if !sub.closed {
		sub.closed = true
		close(sub.ch)
		close(sub.done)
	}
}

func (eb *EventBus[T]) Shutdown() {
	if !eb.isShutdown.CompareAndSwap(false, true) {
		return
	}

	eb.subscribers.Range(func(id string, sub *subscriber[T]) bool {
		sub.close()
		return true
	})
	eb.subscribers.Clear()
}

type Stats struct {
	Subscribers  int
	Published    uint64
	TotalDropped uint64
	IsShutdown   bool
}

func (eb *EventBus[T]) Stats() Stats {
	stats := Stats{
		IsShutdown: eb.isShutdown.Load(),
		Published:  eb.published.Load(),
	}

	eb.subscribers.Range(func(id string, sub *subscriber[T]) bool {
		stats.Subscribers++
		stats.TotalDropped += sub.dropped.Load()
		return true
	})

	return stats
}

func (eb *EventBus[T]) unsubscribe(id string) {
	if sub, exists := eb.subscribers.LoadAndDelete(id); exists {
		sub.close()
	}
}
