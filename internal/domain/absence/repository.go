package absence

import (
	"context"
)

// AbsenceRepository - interface for the absences collection
type AbsenceRepository interface {
	Create(ctx context.Context, absence Absence) (Absence, error)
	GetByID(ctx context.Context, id string) (Absence, error)
	Update(ctx context.Context, absence Absence) (Absence, error)
	Delete(ctx context.Context, id string) error
	// List returns matching absences ordered by start date.
	List(ctx context.Context, filter Filter) ([]Absence, error)
}
