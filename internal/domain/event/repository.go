package event

import (
	"context"
)

// EventRepository - interface for the events collection
type EventRepository interface {
	Create(ctx context.Context, event Event) (Event, error)
	GetByID(ctx context.Context, id string) (Event, error)
	Update(ctx context.Context, event Event) (Event, error)
	Delete(ctx context.Context, id string) error
	// List returns events touching the filter range ordered by start date.
	List(ctx context.Context, filter Filter) ([]Event, error)
}
