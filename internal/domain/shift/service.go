package shift

import (
	"context"
	"time"

	"github.com/cmlabs-hris/shift-planner-go/internal/pkg/clock"
)

type ShiftService interface {
	CreateShift(ctx context.Context, req CreateShiftRequest) (Shift, error)
	UpdateShift(ctx context.Context, id string, req UpdateShiftRequest) (Shift, error)
	DeleteShift(ctx context.Context, id string) error
	DuplicateShifts(ctx context.Context, req DuplicateShiftsRequest) (DuplicateResult, error)
	GetShift(ctx context.Context, id string) (Shift, error)
	GetShifts(ctx context.Context, filter Filter) ([]Shift, error)
	CheckConflicts(ctx context.Context, candidate Shift, excludingID string) ([]Conflict, error)
	// PlannedStart returns the earliest planned start for the employee on date.
	// ok is false when nothing is planned.
	PlannedStart(ctx context.Context, employeeID string, date clock.Date) (start time.Time, ok bool, err error)
}
