package shift

import (
	"github.com/cmlabs-hris/shift-planner-go/internal/pkg/clock"
	"github.com/cmlabs-hris/shift-planner-go/internal/pkg/validator"
)

// ========================================
// SHIFT DTOs
// ========================================

type CreateShiftRequest struct {
	EmployeeID   string  `json:"employee_id"`
	Date         string  `json:"date"`
	StartTime    string  `json:"start_time"`
	EndTime      string  `json:"end_time"`
	BreakMinutes int     `json:"break_minutes"`
	Position     *string `json:"position,omitempty"`
	Status       *string `json:"status,omitempty"`
	Notes        string  `json:"notes,omitempty"`
	// Override commits the shift even when conflicts are detected.
	Override  bool   `json:"override"`
	CreatedBy string `json:"-"`
}

func (r *CreateShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}

	if validator.IsEmpty(r.Date) {
		errs.Add("date", "date is required")
	} else if _, ok := validator.IsValidDate(r.Date); !ok {
		errs.Add("date", "date must be in YYYY-MM-DD format")
	}

	start, startOK := validateTime(&errs, "start_time", r.StartTime)
	end, endOK := validateTime(&errs, "end_time", r.EndTime)
	if startOK && endOK && end <= start {
		errs.Add("end_time", "end_time must be after start_time")
	}

	if r.BreakMinutes < 0 {
		errs.Add("break_minutes", "break_minutes must be zero or positive")
	}

	if r.Status != nil && !validator.IsInSlice(*r.Status, StatusValues) {
		errs.Add("status", "status is not a valid shift status")
	}

	return errs.Err()
}

// ToEntity builds the shift from a request that passed Validate.
func (r *CreateShiftRequest) ToEntity() Shift {
	date, _ := clock.ParseDate(r.Date)
	start, _ := clock.ParseTimeOfDay(r.StartTime)
	end, _ := clock.ParseTimeOfDay(r.EndTime)

	status := StatusScheduled
	if r.Status != nil {
		status = Status(*r.Status)
	}

	s := Shift{
		EmployeeID:   r.EmployeeID,
		Date:         date,
		StartTime:    start,
		EndTime:      end,
		BreakMinutes: r.BreakMinutes,
		Position:     r.Position,
		Status:       status,
		Notes:        r.Notes,
		CreatedBy:    r.CreatedBy,
	}
	s.Recompute()
	return s
}

type UpdateShiftRequest struct {
	EmployeeID   *string `json:"employee_id,omitempty"`
	Date         *string `json:"date,omitempty"`
	StartTime    *string `json:"start_time,omitempty"`
	EndTime      *string `json:"end_time,omitempty"`
	BreakMinutes *int    `json:"break_minutes,omitempty"`
	Position     *string `json:"position,omitempty"`
	Status       *string `json:"status,omitempty"`
	Notes        *string `json:"notes,omitempty"`
	Override     bool    `json:"override"`
	ModifiedBy   string  `json:"-"`
}

// Validate checks only the fields present in the patch.
func (r *UpdateShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.EmployeeID != nil && validator.IsEmpty(*r.EmployeeID) {
		errs.Add("employee_id", "employee_id cannot be empty")
	}
	if r.Date != nil {
		if _, ok := validator.IsValidDate(*r.Date); !ok {
			errs.Add("date", "date must be in YYYY-MM-DD format")
		}
	}
	if r.StartTime != nil {
		validateTime(&errs, "start_time", *r.StartTime)
	}
	if r.EndTime != nil {
		validateTime(&errs, "end_time", *r.EndTime)
	}
	if r.BreakMinutes != nil && *r.BreakMinutes < 0 {
		errs.Add("break_minutes", "break_minutes must be zero or positive")
	}
	if r.Status != nil && !validator.IsInSlice(*r.Status, StatusValues) {
		errs.Add("status", "status is not a valid shift status")
	}

	return errs.Err()
}

// IsEmpty reports whether the patch changes nothing.
func (r *UpdateShiftRequest) IsEmpty() bool {
	return r.EmployeeID == nil && r.Date == nil && r.StartTime == nil && r.EndTime == nil &&
		r.BreakMinutes == nil && r.Position == nil && r.Status == nil && r.Notes == nil
}

// AffectsPlacement reports whether the patch moves the shift in time or to another
// employee, which requires a new conflict check.
func (r *UpdateShiftRequest) AffectsPlacement() bool {
	return r.EmployeeID != nil || r.Date != nil || r.StartTime != nil || r.EndTime != nil || r.BreakMinutes != nil
}

// Apply writes the patch onto s and recomputes the derived hours. It returns a
// validation error when the resulting interval is not well formed.
func (r *UpdateShiftRequest) Apply(s *Shift) error {
	if r.EmployeeID != nil {
		s.EmployeeID = *r.EmployeeID
	}
	if r.Date != nil {
		s.Date, _ = clock.ParseDate(*r.Date)
	}
	if r.StartTime != nil {
		s.StartTime, _ = clock.ParseTimeOfDay(*r.StartTime)
	}
	if r.EndTime != nil {
		s.EndTime, _ = clock.ParseTimeOfDay(*r.EndTime)
	}
	if r.BreakMinutes != nil {
		s.BreakMinutes = *r.BreakMinutes
	}
	if r.Position != nil {
		if *r.Position == "" {
			s.Position = nil
		} else {
			position := *r.Position
			s.Position = &position
		}
	}
	if r.Status != nil {
		s.Status = Status(*r.Status)
	}
	if r.Notes != nil {
		s.Notes = *r.Notes
	}

	if s.EndTime <= s.StartTime {
		return validator.ValidationErrors{{Field: "end_time", Message: "end_time must be after start_time"}}
	}
	s.Recompute()
	return nil
}

type DuplicateShiftsRequest struct {
	SourceWeek  string   `json:"source_week"`
	TargetWeek  string   `json:"target_week"`
	EmployeeIDs []string `json:"employee_ids,omitempty"`
	CreatedBy   string   `json:"-"`
}

func (r *DuplicateShiftsRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidDate(r.SourceWeek); !ok {
		errs.Add("source_week", "source_week must be a date in YYYY-MM-DD format")
	}
	if _, ok := validator.IsValidDate(r.TargetWeek); !ok {
		errs.Add("target_week", "target_week must be a date in YYYY-MM-DD format")
	}
	for _, id := range r.EmployeeIDs {
		if validator.IsEmpty(id) {
			errs.Add("employee_ids", "employee_ids cannot contain empty values")
			break
		}
	}

	return errs.Err()
}

// SkippedShift is a source shift that could not be copied.
type SkippedShift struct {
	SourceShiftID string     `json:"source_shift_id"`
	EmployeeID    string     `json:"employee_id"`
	TargetDate    clock.Date `json:"target_date"`
	Reason        string     `json:"reason"`
	Conflicts     []Conflict `json:"conflicts,omitempty"`
}

// DuplicateResult reports every source shift as either created or skipped.
type DuplicateResult struct {
	SourceWeekStart clock.Date     `json:"source_week_start"`
	TargetWeekStart clock.Date     `json:"target_week_start"`
	OffsetDays      int            `json:"offset_days"`
	Created         []Shift        `json:"created"`
	Skipped         []SkippedShift `json:"skipped"`
}

type CheckConflictsRequest struct {
	CreateShiftRequest
	ExcludingShiftID string `json:"excluding_shift_id,omitempty"`
}

type CheckConflictsResponse struct {
	Conflicts  []Conflict `json:"conflicts"`
	TotalHours float64    `json:"total_hours"`
}

// Filter narrows shift queries. Nil fields are ignored; Date wins over the range.
type Filter struct {
	EmployeeID  *string
	Date        *clock.Date
	StartDate   *clock.Date
	EndDate     *clock.Date
	EmployeeIDs []string
	Statuses    []Status
}

// Matches applies the filter in memory.
func (f Filter) Matches(s Shift) bool {
	if f.EmployeeID != nil && s.EmployeeID != *f.EmployeeID {
		return false
	}
	if len(f.EmployeeIDs) > 0 && !validator.IsInSlice(s.EmployeeID, f.EmployeeIDs) {
		return false
	}
	if f.Date != nil && s.Date != *f.Date {
		return false
	}
	if f.StartDate != nil && s.Date.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && s.Date.After(*f.EndDate) {
		return false
	}
	if len(f.Statuses) > 0 {
		found := false
		for _, st := range f.Statuses {
			if s.Status == st {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func validateTime(errs *validator.ValidationErrors, field, value string) (clock.TimeOfDay, bool) {
	if validator.IsEmpty(value) {
		errs.Add(field, field+" is required")
		return 0, false
	}
	tod, ok := validator.IsValidTimeOfDay(value)
	if !ok {
		errs.Add(field, field+" must be in HH:MM format")
		return 0, false
	}
	return tod, true
}
