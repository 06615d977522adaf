package notification

import (
	"context"
	"sync"
)

// Publisher delivers notifications to whatever transport is listening. Publish must not
// block on slow consumers.
type Publisher interface {
	Publish(ctx context.Context, n Notification)
}

// Nop discards every notification.
type Nop struct{}

func (Nop) Publish(context.Context, Notification) {}

// Recorder keeps every published notification in memory.
type Recorder struct {
	mu   sync.Mutex
	sent []Notification
}

func (r *Recorder) Publish(_ context.Context, n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
}

// Sent returns a copy of what has been published so far.
func (r *Recorder) Sent() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.sent))
	copy(out, r.sent)
	return out
}

// OfType filters Sent by type.
func (r *Recorder) OfType(t NotificationType) []Notification {
	var out []Notification
	for _, n := range r.Sent() {
		if n.Type == t {
			out = append(out, n)
		}
	}
	return out
}
