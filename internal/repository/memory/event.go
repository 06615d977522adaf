package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/cmlabs-hris/shift-planner-go/internal/domain/event"
	"github.com/google/uuid"
)

type eventRepository struct {
	mu     sync.RWMutex
	events map[string]event.Event
}

func NewEventRepository() event.EventRepository {
	return &eventRepository{events: make(map[string]event.Event)}
}

func (r *eventRepository) Create(ctx context.Context, e event.Event) (event.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.Attendees = append([]string(nil), e.Attendees...)
	r.events[e.ID] = e
	return e, nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (event.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.events[id]
	if !ok {
		return event.Event{}, event.ErrEventNotFound
	}
	return e, nil
}

func (r *eventRepository) Update(ctx context.Context, e event.Event) (event.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.events[e.ID]; !ok {
		return event.Event{}, event.ErrEventNotFound
	}
	e.Attendees = append([]string(nil), e.Attendees...)
	r.events[e.ID] = e
	return e, nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.events[id]; !ok {
		return event.ErrEventNotFound
	}
	delete(r.events, id)
	return nil
}

func (r *eventRepository) List(ctx context.Context, filter event.Filter) ([]event.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]event.Event, 0)
	for _, e := range r.events {
		if filter.Matches(e) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartDate != out[j].StartDate {
			return out[i].StartDate.Before(out[j].StartDate)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
