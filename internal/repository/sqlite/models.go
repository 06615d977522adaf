package sqlite

import (
	"time"

	"github.com/cmlabs-hris/shift-planner-go/internal/domain/absence"
	"github.com/cmlabs-hris/shift-planner-go/internal/domain/event"
	"github.com/cmlabs-hris/shift-planner-go/internal/domain/shift"
	"github.com/cmlabs-hris/shift-planner-go/internal/domain/timeclock"
	"github.com/cmlabs-hris/shift-planner-go/internal/pkg/clock"
)

// Dates are stored as YYYY-MM-DD text so range filters compare lexically; times of
// day are minutes since midnight.

type shiftModel struct {
	ID            string    `gorm:"primaryKey;type:varchar(36)"`
	EmployeeID    string    `gorm:"not null;index:idx_shifts_employee_date"`
	Date          string    `gorm:"type:varchar(10);not null;index:idx_shifts_employee_date;index"`
	StartMinute   int       `gorm:"not null"`
	EndMinute     int       `gorm:"not null"`
	BreakMinutes  int       `gorm:"not null;default:0"`
	Position      *string
	Status        string    `gorm:"type:varchar(20);not null;index"`
	TotalHours    float64   `gorm:"not null"`
	Notes         string
	SourceShiftID *string
	CreatedBy     string
	CreatedAt     time.Time `gorm:"autoCreateTime:false"`
	ModifiedBy    *string
	ModifiedAt    *time.Time
}

func (shiftModel) TableName() string {
	return "shifts"
}

func shiftToModel(s shift.Shift) shiftModel {
	return shiftModel{
		ID:            s.ID,
		EmployeeID:    s.EmployeeID,
		Date:          s.Date.String(),
		StartMinute:   s.StartTime.Minutes(),
		EndMinute:     s.EndTime.Minutes(),
		BreakMinutes:  s.BreakMinutes,
		Position:      s.Position,
		Status:        string(s.Status),
		TotalHours:    s.TotalHours,
		Notes:         s.Notes,
		SourceShiftID: s.SourceShiftID,
		CreatedBy:     s.CreatedBy,
		CreatedAt:     s.CreatedAt.UTC(),
		ModifiedBy:    s.ModifiedBy,
		ModifiedAt:    utcPtr(s.ModifiedAt),
	}
}

func (m shiftModel) toEntity() shift.Shift {
	date, _ := clock.ParseDate(m.Date)
	return shift.Shift{
		ID:            m.ID,
		EmployeeID:    m.EmployeeID,
		Date:          date,
		StartTime:     clock.TimeOfDay(m.StartMinute),
		EndTime:       clock.TimeOfDay(m.EndMinute),
		BreakMinutes:  m.BreakMinutes,
		Position:      m.Position,
		Status:        shift.Status(m.Status),
		TotalHours:    m.TotalHours,
		Notes:         m.Notes,
		SourceShiftID: m.SourceShiftID,
		CreatedBy:     m.CreatedBy,
		CreatedAt:     m.CreatedAt,
		ModifiedBy:    m.ModifiedBy,
		ModifiedAt:    m.ModifiedAt,
	}
}

type eventModel struct {
	ID          string `gorm:"primaryKey;type:varchar(36)"`
	Title       string `gorm:"not null"`
	Description string
	StartDate   string `gorm:"type:varchar(10);not null;index:idx_events_range"`
	EndDate     string `gorm:"type:varchar(10);not null;index:idx_events_range"`
	AllDay      bool
	StartMinute *int
	EndMinute   *int
	Type        string   `gorm:"type:varchar(20);not null"`
	Priority    string   `gorm:"type:varchar(10);not null"`
	Attendees   []string `gorm:"serializer:json"`
	CreatedBy   string
	CreatedAt   time.Time `gorm:"autoCreateTime:false"`
	ModifiedBy  *string
	ModifiedAt  *time.Time
}

func (eventModel) TableName() string {
	return "events"
}

func eventToModel(e event.Event) eventModel {
	attendees := e.Attendees
	if attendees == nil {
		attendees = []string{}
	}
	return eventModel{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		StartDate:   e.StartDate.String(),
		EndDate:     e.EndDate.String(),
		AllDay:      e.AllDay,
		StartMinute: minutesPtr(e.StartTime),
		EndMinute:   minutesPtr(e.EndTime),
		Type:        string(e.Type),
		Priority:    string(e.Priority),
		Attendees:   attendees,
		CreatedBy:   e.CreatedBy,
		CreatedAt:   e.CreatedAt.UTC(),
		ModifiedBy:  e.ModifiedBy,
		ModifiedAt:  utcPtr(e.ModifiedAt),
	}
}

func (m eventModel) toEntity() event.Event {
	start, _ := clock.ParseDate(m.StartDate)
	end, _ := clock.ParseDate(m.EndDate)
	attendees := m.Attendees
	if attendees == nil {
		attendees = []string{}
	}
	return event.Event{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		StartDate:   start,
		EndDate:     end,
		AllDay:      m.AllDay,
		StartTime:   timeOfDayPtr(m.StartMinute),
		EndTime:     timeOfDayPtr(m.EndMinute),
		Type:        event.Type(m.Type),
		Priority:    event.Priority(m.Priority),
		Attendees:   attendees,
		CreatedBy:   m.CreatedBy,
		CreatedAt:   m.CreatedAt,
		ModifiedBy:  m.ModifiedBy,
		ModifiedAt:  m.ModifiedAt,
	}
}

type absenceModel struct {
	ID            string `gorm:"primaryKey;type:varchar(36)"`
	EmployeeID    string `gorm:"not null;index:idx_absences_employee_range"`
	StartDate     string `gorm:"type:varchar(10);not null;index:idx_absences_employee_range"`
	EndDate       string `gorm:"type:varchar(10);not null;index:idx_absences_employee_range"`
	Type          string `gorm:"type:varchar(20);not null"`
	Reason        string
	Status        string `gorm:"type:varchar(20);not null;index"`
	TotalDays     int    `gorm:"not null"`
	RequestedBy   string `gorm:"not null"`
	RequestedAt   time.Time
	ApprovedBy    *string
	ApprovedAt    *time.Time
	DecisionNotes string
}

func (absenceModel) TableName() string {
	return "absences"
}

func absenceToModel(a absence.Absence) absenceModel {
	return absenceModel{
		ID:            a.ID,
		EmployeeID:    a.EmployeeID,
		StartDate:     a.StartDate.String(),
		EndDate:       a.EndDate.String(),
		Type:          string(a.Type),
		Reason:        a.Reason,
		Status:        string(a.Status),
		TotalDays:     a.TotalDays,
		RequestedBy:   a.RequestedBy,
		RequestedAt:   a.RequestedAt.UTC(),
		ApprovedBy:    a.ApprovedBy,
		ApprovedAt:    utcPtr(a.ApprovedAt),
		DecisionNotes: a.DecisionNotes,
	}
}

func (m absenceModel) toEntity() absence.Absence {
	start, _ := clock.ParseDate(m.StartDate)
	end, _ := clock.ParseDate(m.EndDate)
	return absence.Absence{
		ID:            m.ID,
		EmployeeID:    m.EmployeeID,
		StartDate:     start,
		EndDate:       end,
		Type:          absence.Type(m.Type),
		Reason:        m.Reason,
		Status:        absence.Status(m.Status),
		TotalDays:     m.TotalDays,
		RequestedBy:   m.RequestedBy,
		RequestedAt:   m.RequestedAt,
		ApprovedBy:    m.ApprovedBy,
		ApprovedAt:    m.ApprovedAt,
		DecisionNotes: m.DecisionNotes,
	}
}

type sessionModel struct {
	ID              string            `gorm:"primaryKey;type:varchar(36)"`
	EmployeeID      string            `gorm:"not null;index:idx_sessions_employee_date"`
	Date            string            `gorm:"type:varchar(10);not null;index:idx_sessions_employee_date"`
	ClockIn         time.Time         `gorm:"not null;index"`
	ClockOut        *time.Time
	Breaks          []timeclock.Break `gorm:"serializer:json"`
	IsRemote        bool
	IsTraining      bool
	Location        string
	ClockInComment  string
	ClockOutComment string
	TotalWorkTime   int
	TotalBreakTime  int
	LateMinutes     int
	CorrectedBy     *string
	CorrectedAt     *time.Time
}

func (sessionModel) TableName() string {
	return "timeclock_sessions"
}

func sessionToModel(s timeclock.Session) sessionModel {
	breaks := s.Breaks
	if breaks == nil {
		breaks = []timeclock.Break{}
	}
	return sessionModel{
		ID:              s.ID,
		EmployeeID:      s.EmployeeID,
		Date:            s.Date.String(),
		ClockIn:         s.ClockIn.UTC(),
		ClockOut:        utcPtr(s.ClockOut),
		Breaks:          breaks,
		IsRemote:        s.IsRemote,
		IsTraining:      s.IsTraining,
		Location:        s.Location,
		ClockInComment:  s.ClockInComment,
		ClockOutComment: s.ClockOutComment,
		TotalWorkTime:   s.TotalWorkTime,
		TotalBreakTime:  s.TotalBreakTime,
		LateMinutes:     s.LateMinutes,
		CorrectedBy:     s.CorrectedBy,
		CorrectedAt:     utcPtr(s.CorrectedAt),
	}
}

func (m sessionModel) toEntity() timeclock.Session {
	date, _ := clock.ParseDate(m.Date)
	breaks := m.Breaks
	if breaks == nil {
		breaks = []timeclock.Break{}
	}
	return timeclock.Session{
		ID:              m.ID,
		EmployeeID:      m.EmployeeID,
		Date:            date,
		ClockIn:         m.ClockIn,
		ClockOut:        m.ClockOut,
		Breaks:          breaks,
		IsRemote:        m.IsRemote,
		IsTraining:      m.IsTraining,
		Location:        m.Location,
		ClockInComment:  m.ClockInComment,
		ClockOutComment: m.ClockOutComment,
		TotalWorkTime:   m.TotalWorkTime,
		TotalBreakTime:  m.TotalBreakTime,
		LateMinutes:     m.LateMinutes,
		CorrectedBy:     m.CorrectedBy,
		CorrectedAt:     m.CorrectedAt,
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}

func minutesPtr(t *clock.TimeOfDay) *int {
	if t == nil {
		return nil
	}
	v := t.Minutes()
	return &v
}

func timeOfDayPtr(m *int) *clock.TimeOfDay {
	if m == nil {
		return nil
	}
	v := clock.TimeOfDay(*m)
	return &v
}
