package shift

import (
	"time"

	"github.com/cmlabs-hris/shift-planner-go/internal/pkg/clock"
)

type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusNoShow     Status = "no_show"
)

var StatusValues = []string{
	string(StatusScheduled),
	string(StatusConfirmed),
	string(StatusInProgress),
	string(StatusCompleted),
	string(StatusCancelled),
	string(StatusNoShow),
}

// Shift is a scheduled work block for one employee on one day.
type Shift struct {
	ID            string          `json:"id"`
	EmployeeID    string          `json:"employee_id"`
	Date          clock.Date      `json:"date"`
	StartTime     clock.TimeOfDay `json:"start_time"`
	EndTime       clock.TimeOfDay `json:"end_time"`
	BreakMinutes  int             `json:"break_minutes"`
	Position      *string         `json:"position,omitempty"`
	Status        Status          `json:"status"`
	TotalHours    float64         `json:"total_hours"`
	Notes         string          `json:"notes,omitempty"`
	SourceShiftID *string         `json:"source_shift_id,omitempty"`
	CreatedBy     string          `json:"created_by"`
	CreatedAt     time.Time       `json:"created_at"`
	ModifiedBy    *string         `json:"modified_by,omitempty"`
	ModifiedAt    *time.Time      `json:"modified_at,omitempty"`
}

// ComputeHours returns end - start - break in hours, floored at zero.
func ComputeHours(start, end clock.TimeOfDay, breakMinutes int) float64 {
	minutes := end.Minutes() - start.Minutes() - breakMinutes
	if minutes < 0 {
		return 0
	}
	return float64(minutes) / 60
}

// Recompute refreshes TotalHours from the time fields.
func (s *Shift) Recompute() {
	s.TotalHours = ComputeHours(s.StartTime, s.EndTime, s.BreakMinutes)
}

// Overlaps reports whether both shifts belong to the same employee and day and their
// half-open [start, end) intervals intersect.
func (s Shift) Overlaps(other Shift) bool {
	if s.EmployeeID != other.EmployeeID || s.Date != other.Date {
		return false
	}
	return s.StartTime < other.EndTime && s.EndTime > other.StartTime
}

func (s Shift) IsCancelled() bool {
	return s.Status == StatusCancelled
}

// StartsAt returns the planned start instant in loc.
func (s Shift) StartsAt(loc *time.Location) time.Time {
	return clock.At(s.Date, s.StartTime, loc)
}

// EndsAt returns the planned end instant in loc.
func (s Shift) EndsAt(loc *time.Location) time.Time {
	return clock.At(s.Date, s.EndTime, loc)
}

// PositionLabel returns the position or "" when unset.
func (s Shift) PositionLabel() string {
	if s.Position == nil {
		return ""
	}
	return *s.Position
}
