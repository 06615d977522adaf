package timeclock

import (
	"time"

	"github.com/cmlabs-hris/shift-planner-go/internal/pkg/clock"
	"github.com/cmlabs-hris/shift-planner-go/internal/pkg/validator"
)

type ClockInRequest struct {
	EmployeeID string `json:"-"`
	Comment    string `json:"comment,omitempty"`
	IsRemote   bool   `json:"is_remote"`
	Location   string `json:"location,omitempty"`
}

func (r *ClockInRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}
	if len(r.Comment) > 500 {
		errs.Add("comment", "comment must be at most 500 characters")
	}
	return errs.Err()
}

type ClockOutRequest struct {
	Comment string `json:"comment,omitempty"`
}

type StartBreakRequest struct {
	Reason string `json:"reason,omitempty"`
}

type TrainingRequest struct {
	Comment string `json:"comment,omitempty"`
}

type BreakInput struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Reason    string `json:"reason,omitempty"`
}

// CorrectSessionRequest is an administrative rewrite of a session's timestamps.
// Times are RFC3339.
type CorrectSessionRequest struct {
	ClockIn  *string       `json:"clock_in,omitempty"`
	ClockOut *string       `json:"clock_out,omitempty"`
	Breaks   *[]BreakInput `json:"breaks,omitempty"`
	IsRemote *bool         `json:"is_remote,omitempty"`
	Comment  *string       `json:"comment,omitempty"`
}

func (r *CorrectSessionRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.ClockIn == nil && r.ClockOut == nil && r.Breaks == nil && r.IsRemote == nil && r.Comment == nil {
		errs.Add("body", "at least one field must be corrected")
	}
	if r.ClockIn != nil {
		if _, ok := validator.IsValidDateTime(*r.ClockIn); !ok {
			errs.Add("clock_in", "clock_in must be an RFC3339 timestamp")
		}
	}
	if r.ClockOut != nil {
		if _, ok := validator.IsValidDateTime(*r.ClockOut); !ok {
			errs.Add("clock_out", "clock_out must be an RFC3339 timestamp")
		}
	}
	if r.Breaks != nil {
		for _, b := range *r.Breaks {
			start, startOK := validator.IsValidDateTime(b.StartTime)
			end, endOK := validator.IsValidDateTime(b.EndTime)
			if !startOK || !endOK {
				errs.Add("breaks", "break start_time and end_time must be RFC3339 timestamps")
				break
			}
			if end.Before(start) {
				errs.Add("breaks", "break end_time must not precede start_time")
				break
			}
		}
	}

	return errs.Err()
}

// Apply rewrites s and recomputes its totals. The result must be a closed session
// whose breaks lie within [ClockIn, ClockOut].
func (r *CorrectSessionRequest) Apply(s *Session, loc *time.Location) error {
	if r.ClockIn != nil {
		s.ClockIn, _ = validator.IsValidDateTime(*r.ClockIn)
		s.Date = clock.DateOf(s.ClockIn.In(loc))
	}
	if r.ClockOut != nil {
		out, _ := validator.IsValidDateTime(*r.ClockOut)
		s.ClockOut = &out
	}
	if r.Breaks != nil {
		breaks := make([]Break, 0, len(*r.Breaks))
		for _, in := range *r.Breaks {
			start, _ := validator.IsValidDateTime(in.StartTime)
			end, _ := validator.IsValidDateTime(in.EndTime)
			b := Break{StartTime: start, Reason: in.Reason}
			b.Close(end)
			breaks = append(breaks, b)
		}
		s.Breaks = breaks
	}
	if r.IsRemote != nil {
		s.IsRemote = *r.IsRemote
	}
	if r.Comment != nil {
		s.ClockOutComment = *r.Comment
	}

	var errs validator.ValidationErrors
	if s.ClockOut == nil {
		errs.Add("clock_out", "clock_out is required to correct a session")
		return errs.Err()
	}
	if !s.ClockOut.After(s.ClockIn) {
		errs.Add("clock_out", "clock_out must be after clock_in")
	}
	for _, b := range s.Breaks {
		if b.StartTime.Before(s.ClockIn) || b.EndTime == nil || b.EndTime.After(*s.ClockOut) {
			errs.Add("breaks", "breaks must lie within the session")
			break
		}
	}
	if err := errs.Err(); err != nil {
		return err
	}

	s.Recompute()
	return nil
}

// Filter narrows session queries. Zero dates leave that side of the range open.
type Filter struct {
	EmployeeID *string
	StartDate  clock.Date
	EndDate    clock.Date
	// OpenOnly restricts to sessions without a clock-out.
	OpenOnly bool
	// ClockInBefore restricts to sessions that clocked in before the instant.
	ClockInBefore *time.Time
}

func (f Filter) Matches(s Session) bool {
	if f.EmployeeID != nil && s.EmployeeID != *f.EmployeeID {
		return false
	}
	if !f.StartDate.IsZero() && s.Date.Before(f.StartDate) {
		return false
	}
	if !f.EndDate.IsZero() && s.Date.After(f.EndDate) {
		return false
	}
	if f.OpenOnly && !s.IsOpen() {
		return false
	}
	if f.ClockInBefore != nil && !s.ClockIn.Before(*f.ClockInBefore) {
		return false
	}
	return true
}

type TimeEntriesResponse struct {
	Entries []Session `json:"entries"`
	Stats   Stats     `json:"stats"`
}
