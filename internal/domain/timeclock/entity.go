package timeclock

import (
	"time"

	"github.com/cmlabs-hris/shift-planner-go/internal/pkg/clock"
)

// Break is a pause inside a session. EndTime is nil while the break is open.
type Break struct {
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	Reason          string     `json:"reason,omitempty"`
	DurationMinutes int        `json:"duration_minutes"`
}

func (b Break) IsOpen() bool {
	return b.EndTime == nil
}

// Close ends the break at t and records its floored duration.
func (b *Break) Close(t time.Time) {
	end := t
	b.EndTime = &end
	b.DurationMinutes = clock.MinutesBetween(b.StartTime, end)
	if b.DurationMinutes < 0 {
		b.DurationMinutes = 0
	}
}

// Session is one employee's attendance record for a day. ClockOut is nil while open.
type Session struct {
	ID              string     `json:"id"`
	EmployeeID      string     `json:"employee_id"`
	Date            clock.Date `json:"date"`
	ClockIn         time.Time  `json:"clock_in"`
	ClockOut        *time.Time `json:"clock_out,omitempty"`
	Breaks          []Break    `json:"breaks"`
	IsRemote        bool       `json:"is_remote"`
	IsTraining      bool       `json:"is_training"`
	Location        string     `json:"location,omitempty"`
	ClockInComment  string     `json:"clock_in_comment,omitempty"`
	ClockOutComment string     `json:"clock_out_comment,omitempty"`
	TotalWorkTime   int        `json:"total_work_time"`
	TotalBreakTime  int        `json:"total_break_time"`
	LateMinutes     int        `json:"late_minutes"`
	CorrectedBy     *string    `json:"corrected_by,omitempty"`
	CorrectedAt     *time.Time `json:"corrected_at,omitempty"`
}

func (s Session) IsOpen() bool {
	return s.ClockOut == nil
}

// OpenBreak returns the index of the open break, or -1.
func (s Session) OpenBreak() int {
	for i := len(s.Breaks) - 1; i >= 0; i-- {
		if s.Breaks[i].IsOpen() {
			return i
		}
	}
	return -1
}

// Close force-closes any open break, sets ClockOut to t and finalizes the totals.
func (s *Session) Close(t time.Time) {
	if i := s.OpenBreak(); i >= 0 {
		s.Breaks[i].Close(t)
	}
	out := t
	s.ClockOut = &out
	s.Recompute()
}

// Recompute derives the totals of a closed session. The break total is the sum of the
// floored break durations and work time is the floored elapsed time minus that sum,
// so work + break always equals the elapsed minutes.
func (s *Session) Recompute() {
	if s.ClockOut == nil {
		return
	}
	breakTotal := 0
	for _, b := range s.Breaks {
		breakTotal += b.DurationMinutes
	}
	elapsed := clock.MinutesBetween(s.ClockIn, *s.ClockOut)
	if breakTotal > elapsed {
		breakTotal = elapsed
	}
	s.TotalBreakTime = breakTotal
	s.TotalWorkTime = elapsed - breakTotal
}

// ElapsedMinutes is the floored wall time between clock-in and clock-out, or now for
// an open session.
func (s Session) ElapsedMinutes(now time.Time) int {
	end := now
	if s.ClockOut != nil {
		end = *s.ClockOut
	}
	return clock.MinutesBetween(s.ClockIn, end)
}

// Stats aggregates a set of sessions.
type Stats struct {
	Sessions        int `json:"sessions"`
	TotalWorkTime   int `json:"total_work_time"`
	TotalBreakTime  int `json:"total_break_time"`
	TrainingDays    int `json:"training_days"`
	OvertimeMinutes int `json:"overtime_minutes"`
	LateArrivals    int `json:"late_arrivals"`
	OpenSessions    int `json:"open_sessions"`
}
