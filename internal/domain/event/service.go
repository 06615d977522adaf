package event

import (
	"context"
)

type EventService interface {
	CreateEvent(ctx context.Context, req CreateEventRequest) (Event, error)
	UpdateEvent(ctx context.Context, id string, req UpdateEventRequest) (Event, error)
	DeleteEvent(ctx context.Context, id string) error
	GetEvent(ctx context.Context, id string) (Event, error)
	ListEvents(ctx context.Context, filter Filter) ([]Event, error)
}
