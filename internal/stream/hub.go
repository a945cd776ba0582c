// Package stream provides fan-out distribution of dashboard snapshots.
package stream

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"algotrader/internal/trading"
)

// HubConfig holds configuration for the snapshot hub.
type HubConfig struct {
	// BufferSize is the size of the internal snapshot channel buffer.
	BufferSize int
	// SubscriberBufferSize is the size of each subscriber's channel buffer.
	SubscriberBufferSize int
}

// DefaultHubConfig returns the default hub configuration.
func DefaultHubConfig() HubConfig {
	return HubConfig{
		BufferSize:           64,
		SubscriberBufferSize: 8,
	}
}

// Hub distributes engine snapshots to multiple consumers. Snapshots from a
// single source fan out to every subscriber over buffered channels; slow
// consumers have snapshots dropped rather than blocking the tick loop.
type Hub struct {
	config      HubConfig
	mu          sync.RWMutex
	subscribers map[string]*Subscriber
	snapChan    chan trading.Snapshot
	done        chan struct{}
	started     bool

	// Metrics
	received  uint64
	delivered uint64
	dropped   uint64
	metricsMu sync.RWMutex
}

// Subscriber represents a channel subscriber with metadata.
type Subscriber struct {
	ID           string
	Channel      chan trading.Snapshot
	DroppedCount int
	CreatedAt    time.Time
}

// NewHub creates a new snapshot hub with default configuration.
func NewHub() *Hub {
	return NewHubWithConfig(DefaultHubConfig())
}

// NewHubWithConfig creates a new snapshot hub with custom configuration.
func NewHubWithConfig(config HubConfig) *Hub {
	return &Hub{
		config:      config,
		subscribers: make(map[string]*Subscriber),
		snapChan:    make(chan trading.Snapshot, config.BufferSize),
		done:        make(chan struct{}),
	}
}

// Start begins the hub's distribution loop.
func (h *Hub) Start(ctx context.Context) {
	h.mu.Lock()
	if h.started {
		h.mu.Unlock()
		return
	}
	h.started = true
	h.mu.Unlock()

	go h.broadcastLoop(ctx)
}

func (h *Hub) broadcastLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-h.done:
			return
		case snap := <-h.snapChan:
			h.metricsMu.Lock()
			h.received++
			h.metricsMu.Unlock()

			h.broadcast(snap)
		}
	}
}

// Stop stops the hub and closes all subscriber channels.
func (h *Hub) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.started {
		return
	}

	close(h.done)
	h.started = false

	for id, sub := range h.subscribers {
		close(sub.Channel)
		delete(h.subscribers, id)
	}
}

// Subscribe registers a new consumer and returns its ID and channel.
func (h *Hub) Subscribe() (string, <-chan trading.Snapshot) {
	sub := &Subscriber{
		ID:        uuid.NewString(),
		Channel:   make(chan trading.Snapshot, h.config.SubscriberBufferSize),
		CreatedAt: time.Now(),
	}

	h.mu.Lock()
	h.subscribers[sub.ID] = sub
	h.mu.Unlock()

	return sub.ID, sub.Channel
}

// Unsubscribe removes a subscriber and closes its channel.
func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if sub, ok := h.subscribers[id]; ok {
		close(sub.Channel)
		delete(h.subscribers, id)
	}
}

// Publish sends a snapshot to the hub for distribution.
// Non-blocking: if the internal buffer is full, the snapshot is dropped.
func (h *Hub) Publish(snap trading.Snapshot) {
	select {
	case h.snapChan <- snap:
	default:
		h.metricsMu.Lock()
		h.dropped++
		h.metricsMu.Unlock()
	}
}

// broadcast sends a snapshot to every subscriber.
// Non-blocking sends keep slow consumers from stalling the tick loop.
// The read lock is held across the sends so Unsubscribe and Stop cannot
// close a channel mid-send.
func (h *Hub) broadcast(snap trading.Snapshot) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, sub := range h.subscribers {
		select {
		case sub.Channel <- snap:
			h.metricsMu.Lock()
			h.delivered++
			h.metricsMu.Unlock()
		default:
			sub.DroppedCount++
			h.metricsMu.Lock()
			h.dropped++
			h.metricsMu.Unlock()
		}
	}
}

// SubscriberCount returns the number of active subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// IsStarted returns whether the hub is running.
func (h *Hub) IsStarted() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.started
}

// Metrics returns hub delivery counters.
func (h *Hub) Metrics() HubMetrics {
	h.metricsMu.RLock()
	defer h.metricsMu.RUnlock()

	return HubMetrics{
		Received:    h.received,
		Delivered:   h.delivered,
		Dropped:     h.dropped,
		Subscribers: h.SubscriberCount(),
	}
}

// HubMetrics contains hub delivery counters.
type HubMetrics struct {
	Received    uint64
	Delivered   uint64
	Dropped     uint64
	Subscribers int
}
