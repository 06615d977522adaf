package shift

import (
	"context"
)

// ShiftRepository - interface for the shifts collection
type ShiftRepository interface {
	Create(ctx context.Context, shift Shift) (Shift, error)
	GetByID(ctx context.Context, id string) (Shift, error)
	Update(ctx context.Context, shift Shift) (Shift, error)
	Delete(ctx context.Context, id string) error
	// List returns matching shifts ordered by date, then start time.
	List(ctx context.Context, filter Filter) ([]Shift, error)
	// WithPlacementLock runs fn while the store holds an exclusive lock on every
	// placement key, for every writer sharing the store. Reads and writes made with
	// the context handed to fn see each other and commit together.
	WithPlacementLock(ctx context.Context, keys []string, fn func(ctx context.Context) error) error
}
