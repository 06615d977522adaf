package absence

import (
	"time"

	"github.com/cmlabs-hris/shift-planner-go/internal/pkg/clock"
)

type Type string

const (
	TypeVacation  Type = "vacation"
	TypeSickLeave Type = "sick_leave"
	TypeDayOff    Type = "day_off"
	TypeTraining  Type = "training"
	TypeOther     Type = "other"
)

var TypeValues = []string{
	string(TypeVacation),
	string(TypeSickLeave),
	string(TypeDayOff),
	string(TypeTraining),
	string(TypeOther),
}

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

var StatusValues = []string{
	string(StatusPending),
	string(StatusApproved),
	string(StatusRejected),
}

// Decision is the outcome a manager records on a pending absence.
type Decision string

const (
	DecisionApprove Decision = "approved"
	DecisionReject  Decision = "rejected"
)

// Absence is a leave interval for one employee. Dates are inclusive.
type Absence struct {
	ID            string     `json:"id"`
	EmployeeID    string     `json:"employee_id"`
	StartDate     clock.Date `json:"start_date"`
	EndDate       clock.Date `json:"end_date"`
	Type          Type       `json:"type"`
	Reason        string     `json:"reason,omitempty"`
	Status        Status     `json:"status"`
	TotalDays     int        `json:"total_days"`
	RequestedBy   string     `json:"requested_by"`
	RequestedAt   time.Time  `json:"requested_at"`
	ApprovedBy    *string    `json:"approved_by,omitempty"`
	ApprovedAt    *time.Time `json:"approved_at,omitempty"`
	DecisionNotes string     `json:"decision_notes,omitempty"`
}

func (a Absence) IsPending() bool  { return a.Status == StatusPending }
func (a Absence) IsApproved() bool { return a.Status == StatusApproved }

// Covers reports whether d lies inside [StartDate, EndDate].
func (a Absence) Covers(d clock.Date) bool {
	return d.Within(a.StartDate, a.EndDate)
}

// Overlaps reports whether the absence touches any day in [start, end].
func (a Absence) Overlaps(start, end clock.Date) bool {
	return !a.EndDate.Before(start) && !a.StartDate.After(end)
}
