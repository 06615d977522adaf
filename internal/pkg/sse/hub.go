package sse

import (
	"context"
	"log/slog"
	"sync"

	"github.com/cmlabs-hris/shift-planner-go/internal/domain/notification"
	"github.com/google/uuid"
)

// Event represents an SSE event to be sent to subscribers
type Event struct {
	Key   string
	Event string
	Data  interface{}
}

// Hub fans notifications out to subscribers keyed by employee id or audience.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{}
	bufferSize  int
}

// NewHub creates a new SSE Hub instance
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[chan Event]struct{}),
		bufferSize:  16,
	}
}

// Subscribe registers one channel for all given keys and returns it with its cleanup
// function. Keys usually are the caller's employee id plus any audience it belongs to.
func (h *Hub) Subscribe(keys ...string) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, h.bufferSize)
	for _, key := range keys {
		if h.subscribers[key] == nil {
			h.subscribers[key] = make(map[chan Event]struct{})
		}
		h.subscribers[key][ch] = struct{}{}
	}

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			for _, key := range keys {
				delete(h.subscribers[key], ch)
				if len(h.subscribers[key]) == 0 {
					delete(h.subscribers, key)
				}
			}
			close(ch)
		})
	}

	return ch, cleanup
}

// Publish implements notification.Publisher. A channel subscribed under several
// recipient keys receives the notification once.
func (h *Hub) Publish(_ context.Context, n notification.Notification) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := make(map[chan Event]struct{})
	for _, key := range n.Recipients {
		for ch := range h.subscribers[key] {
			if _, done := delivered[ch]; done {
				continue
			}
			delivered[ch] = struct{}{}
			select {
			case ch <- Event{Key: key, Event: string(n.Type), Data: n}:
			default:
				slog.Warn("sse subscriber buffer full, dropping notification", "key", key, "type", n.Type)
			}
		}
	}
}

// SubscriberCount returns the number of active subscribers for a key
func (h *Hub) SubscriberCount(key string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[key])
}

// TotalSubscribers returns the number of distinct subscriber channels
func (h *Hub) TotalSubscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	seen := make(map[chan Event]struct{})
	for _, subs := range h.subscribers {
		for ch := range subs {
			seen[ch] = struct{}{}
		}
	}
	return len(seen)
}
