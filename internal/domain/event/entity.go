package event

import (
	"time"

	"github.com/cmlabs-hris/shift-planner-go/internal/pkg/clock"
)

type Type string

const (
	TypeMeeting     Type = "meeting"
	TypeTraining    Type = "training"
	TypeMaintenance Type = "maintenance"
	TypeHoliday     Type = "holiday"
	TypeOther       Type = "other"
)

var TypeValues = []string{
	string(TypeMeeting),
	string(TypeTraining),
	string(TypeMaintenance),
	string(TypeHoliday),
	string(TypeOther),
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

var PriorityValues = []string{
	string(PriorityLow),
	string(PriorityNormal),
	string(PriorityHigh),
}

// Event is a non-shift calendar entry spanning one or more days.
type Event struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	StartDate   clock.Date       `json:"start_date"`
	EndDate     clock.Date       `json:"end_date"`
	AllDay      bool             `json:"all_day"`
	StartTime   *clock.TimeOfDay `json:"start_time,omitempty"`
	EndTime     *clock.TimeOfDay `json:"end_time,omitempty"`
	Type        Type             `json:"type"`
	Priority    Priority         `json:"priority"`
	Attendees   []string         `json:"attendees"`
	CreatedBy   string           `json:"created_by"`
	CreatedAt   time.Time        `json:"created_at"`
	ModifiedBy  *string          `json:"modified_by,omitempty"`
	ModifiedAt  *time.Time       `json:"modified_at,omitempty"`
}

// OccursOn reports whether d falls inside the inclusive date range.
func (e Event) OccursOn(d clock.Date) bool {
	return d.Within(e.StartDate, e.EndDate)
}

// Overlaps reports whether the event touches any day in [start, end].
func (e Event) Overlaps(start, end clock.Date) bool {
	return !e.EndDate.Before(start) && !e.StartDate.After(end)
}

func (e Event) HasAttendee(employeeID string) bool {
	for _, a := range e.Attendees {
		if a == employeeID {
			return true
		}
	}
	return false
}
