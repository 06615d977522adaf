package absence

import (
	"github.com/cmlabs-hris/shift-planner-go/internal/pkg/clock"
	"github.com/cmlabs-hris/shift-planner-go/internal/pkg/validator"
)

// MaxAbsenceDays caps the inclusive length of one absence.
const MaxAbsenceDays = 366

type RequestAbsenceRequest struct {
	EmployeeID  string `json:"employee_id"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Type        string `json:"type"`
	Reason      string `json:"reason,omitempty"`
	RequestedBy string `json:"-"`
}

func (r *RequestAbsenceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}

	start, startOK := validator.IsValidDate(r.StartDate)
	if validator.IsEmpty(r.StartDate) {
		errs.Add("start_date", "start_date is required")
	} else if !startOK {
		errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
	}

	end, endOK := validator.IsValidDate(r.EndDate)
	if validator.IsEmpty(r.EndDate) {
		errs.Add("end_date", "end_date is required")
	} else if !endOK {
		errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
	}

	if startOK && endOK {
		if end.Before(start) {
			errs.Add("end_date", "end_date must be on or after start_date")
		} else if clock.InclusiveDays(start, end) > MaxAbsenceDays {
			errs.Add("end_date", "absence must not exceed 366 days")
		}
	}

	if validator.IsEmpty(r.Type) {
		errs.Add("type", "type is required")
	} else if !validator.IsInSlice(r.Type, TypeValues) {
		errs.Add("type", "type must be one of vacation, sick_leave, day_off, training, other")
	}

	return errs.Err()
}

// ToEntity builds a pending absence from a request that passed Validate.
func (r *RequestAbsenceRequest) ToEntity() Absence {
	start, _ := clock.ParseDate(r.StartDate)
	end, _ := clock.ParseDate(r.EndDate)
	requestedBy := r.RequestedBy
	if requestedBy == "" {
		requestedBy = r.EmployeeID
	}
	return Absence{
		EmployeeID:  r.EmployeeID,
		StartDate:   start,
		EndDate:     end,
		Type:        Type(r.Type),
		Reason:      r.Reason,
		Status:      StatusPending,
		TotalDays:   clock.InclusiveDays(start, end),
		RequestedBy: requestedBy,
	}
}

type DecideAbsenceRequest struct {
	Decision string `json:"decision"`
	Notes    string `json:"notes,omitempty"`
}

func (r *DecideAbsenceRequest) Validate() error {
	var errs validator.ValidationErrors
	if !validator.IsInSlice(r.Decision, []string{string(DecisionApprove), string(DecisionReject)}) {
		errs.Add("decision", "decision must be approved or rejected")
	}
	return errs.Err()
}

// Filter narrows absence queries. Zero dates leave that side of the range open.
type Filter struct {
	EmployeeID *string
	StartDate  clock.Date
	EndDate    clock.Date
	Statuses   []Status
}

func (f Filter) Matches(a Absence) bool {
	if f.EmployeeID != nil && a.EmployeeID != *f.EmployeeID {
		return false
	}
	if !f.StartDate.IsZero() && a.EndDate.Before(f.StartDate) {
		return false
	}
	if !f.EndDate.IsZero() && a.StartDate.After(f.EndDate) {
		return false
	}
	if len(f.Statuses) > 0 {
		for _, s := range f.Statuses {
			if a.Status == s {
				return true
			}
		}
		return false
	}
	return true
}
