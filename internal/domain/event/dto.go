package event

import (
	"github.com/cmlabs-hris/shift-planner-go/internal/pkg/clock"
	"github.com/cmlabs-hris/shift-planner-go/internal/pkg/validator"
)

type CreateEventRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date,omitempty"`
	AllDay      bool     `json:"all_day"`
	StartTime   *string  `json:"start_time,omitempty"`
	EndTime     *string  `json:"end_time,omitempty"`
	Type        string   `json:"type,omitempty"`
	Priority    string   `json:"priority,omitempty"`
	Attendees   []string `json:"attendees,omitempty"`
	CreatedBy   string   `json:"-"`
}

func (r *CreateEventRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Title) {
		errs.Add("title", "title is required")
	}

	start, startOK := validator.IsValidDate(r.StartDate)
	if validator.IsEmpty(r.StartDate) {
		errs.Add("start_date", "start_date is required")
	} else if !startOK {
		errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
	}

	end := start
	if !validator.IsEmpty(r.EndDate) {
		var ok bool
		if end, ok = validator.IsValidDate(r.EndDate); !ok {
			errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
		} else if startOK && end.Before(start) {
			errs.Add("end_date", "end_date must be on or after start_date")
		}
	}

	validateTimes(&errs, r.AllDay, r.StartTime, r.EndTime, startOK && start.Equal(end))

	if r.Type != "" && !validator.IsInSlice(r.Type, TypeValues) {
		errs.Add("type", "type must be one of meeting, training, maintenance, holiday, other")
	}
	if r.Priority != "" && !validator.IsInSlice(r.Priority, PriorityValues) {
		errs.Add("priority", "priority must be one of low, normal, high")
	}
	for _, a := range r.Attendees {
		if validator.IsEmpty(a) {
			errs.Add("attendees", "attendees cannot contain empty values")
			break
		}
	}

	return errs.Err()
}

// ToEntity builds the event from a request that passed Validate.
func (r *CreateEventRequest) ToEntity() Event {
	start, _ := clock.ParseDate(r.StartDate)
	end := start
	if r.EndDate != "" {
		end, _ = clock.ParseDate(r.EndDate)
	}

	e := Event{
		Title:       r.Title,
		Description: r.Description,
		StartDate:   start,
		EndDate:     end,
		AllDay:      r.AllDay,
		Type:        TypeOther,
		Priority:    PriorityNormal,
		Attendees:   dedupe(r.Attendees),
		CreatedBy:   r.CreatedBy,
	}
	if r.Type != "" {
		e.Type = Type(r.Type)
	}
	if r.Priority != "" {
		e.Priority = Priority(r.Priority)
	}
	if !r.AllDay {
		e.StartTime = parseOptionalTime(r.StartTime)
		e.EndTime = parseOptionalTime(r.EndTime)
	}
	return e
}

type UpdateEventRequest struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	StartDate   *string   `json:"start_date,omitempty"`
	EndDate     *string   `json:"end_date,omitempty"`
	AllDay      *bool     `json:"all_day,omitempty"`
	StartTime   *string   `json:"start_time,omitempty"`
	EndTime     *string   `json:"end_time,omitempty"`
	Type        *string   `json:"type,omitempty"`
	Priority    *string   `json:"priority,omitempty"`
	Attendees   *[]string `json:"attendees,omitempty"`
	ModifiedBy  string    `json:"-"`
}

func (r *UpdateEventRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Title != nil && validator.IsEmpty(*r.Title) {
		errs.Add("title", "title cannot be empty")
	}
	if r.StartDate != nil {
		if _, ok := validator.IsValidDate(*r.StartDate); !ok {
			errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
		}
	}
	if r.EndDate != nil {
		if _, ok := validator.IsValidDate(*r.EndDate); !ok {
			errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
		}
	}
	if r.StartTime != nil && *r.StartTime != "" {
		if _, ok := validator.IsValidTimeOfDay(*r.StartTime); !ok {
			errs.Add("start_time", "start_time must be in HH:MM format")
		}
	}
	if r.EndTime != nil && *r.EndTime != "" {
		if _, ok := validator.IsValidTimeOfDay(*r.EndTime); !ok {
			errs.Add("end_time", "end_time must be in HH:MM format")
		}
	}
	if r.Type != nil && !validator.IsInSlice(*r.Type, TypeValues) {
		errs.Add("type", "type must be one of meeting, training, maintenance, holiday, other")
	}
	if r.Priority != nil && !validator.IsInSlice(*r.Priority, PriorityValues) {
		errs.Add("priority", "priority must be one of low, normal, high")
	}

	return errs.Err()
}

// Apply writes the patch onto e and checks the resulting ranges.
func (r *UpdateEventRequest) Apply(e *Event) error {
	if r.Title != nil {
		e.Title = *r.Title
	}
	if r.Description != nil {
		e.Description = *r.Description
	}
	if r.StartDate != nil {
		e.StartDate, _ = clock.ParseDate(*r.StartDate)
	}
	if r.EndDate != nil {
		e.EndDate, _ = clock.ParseDate(*r.EndDate)
	}
	if r.AllDay != nil {
		e.AllDay = *r.AllDay
	}
	if r.StartTime != nil {
		e.StartTime = parseOptionalTime(r.StartTime)
	}
	if r.EndTime != nil {
		e.EndTime = parseOptionalTime(r.EndTime)
	}
	if r.Type != nil {
		e.Type = Type(*r.Type)
	}
	if r.Priority != nil {
		e.Priority = Priority(*r.Priority)
	}
	if r.Attendees != nil {
		e.Attendees = dedupe(*r.Attendees)
	}
	if e.AllDay {
		e.StartTime, e.EndTime = nil, nil
	}

	var errs validator.ValidationErrors
	if e.EndDate.Before(e.StartDate) {
		errs.Add("end_date", "end_date must be on or after start_date")
	}
	if e.StartTime != nil && e.EndTime != nil && e.StartDate.Equal(e.EndDate) && *e.EndTime <= *e.StartTime {
		errs.Add("end_time", "end_time must be after start_time")
	}
	return errs.Err()
}

// Filter selects events touching [StartDate, EndDate]. Zero dates leave that side open.
type Filter struct {
	StartDate clock.Date
	EndDate   clock.Date
	Attendee  *string
	Type      *Type
}

func (f Filter) Matches(e Event) bool {
	if !f.StartDate.IsZero() && e.EndDate.Before(f.StartDate) {
		return false
	}
	if !f.EndDate.IsZero() && e.StartDate.After(f.EndDate) {
		return false
	}
	if f.Attendee != nil && !e.HasAttendee(*f.Attendee) {
		return false
	}
	if f.Type != nil && e.Type != *f.Type {
		return false
	}
	return true
}

func validateTimes(errs *validator.ValidationErrors, allDay bool, startTime, endTime *string, sameDay bool) {
	if allDay {
		return
	}
	var start, end clock.TimeOfDay
	var startOK, endOK bool
	if startTime != nil && *startTime != "" {
		if start, startOK = validator.IsValidTimeOfDay(*startTime); !startOK {
			errs.Add("start_time", "start_time must be in HH:MM format")
		}
	}
	if endTime != nil && *endTime != "" {
		if end, endOK = validator.IsValidTimeOfDay(*endTime); !endOK {
			errs.Add("end_time", "end_time must be in HH:MM format")
		}
	}
	if startOK && endOK && sameDay && end <= start {
		errs.Add("end_time", "end_time must be after start_time")
	}
}

func parseOptionalTime(s *string) *clock.TimeOfDay {
	if s == nil || *s == "" {
		return nil
	}
	tod, err := clock.ParseTimeOfDay(*s)
	if err != nil {
		return nil
	}
	return &tod
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
