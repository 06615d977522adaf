package conflict

import (
	"testing"

	"github.com/cmlabs-hris/shift-planner-go/internal/domain/absence"
	"github.com/cmlabs-hris/shift-planner-go/internal/domain/shift"
	"github.com/cmlabs-hris/shift-planner-go/internal/pkg/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newShift(id, employee, date, start, end string, breakMinutes int) shift.Shift {
	s := shift.Shift{
		ID:           id,
		EmployeeID:   employee,
		Date:         clock.MustParseDate(date),
		StartTime:    clock.MustParseTimeOfDay(start),
		EndTime:      clock.MustParseTimeOfDay(end),
		BreakMinutes: breakMinutes,
		Status:       shift.StatusScheduled,
	}
	s.Recompute()
	return s
}

func TestDetector_Overlap(t *testing.T) {
	d := NewDetector(10)
	existing := []shift.Shift{newShift("s1", "E1", "2024-03-04", "09:00", "17:00", 30)}

	conflicts := d.Check(newShift("", "E1", "2024-03-04", "16:00", "20:00", 0), "", existing, nil)

	require.Len(t, conflicts, 1)
	assert.Equal(t, shift.ConflictOverlap, conflicts[0].Kind)
	assert.Equal(t, "s1", conflicts[0].EntityID)
}

func TestDetector_HalfOpenIntervals(t *testing.T) {
	d := NewDetector(24)
	existing := []shift.Shift{newShift("s1", "E1", "2024-03-04", "09:00", "13:00", 0)}

	conflicts := d.Check(newShift("", "E1", "2024-03-04", "13:00", "17:00", 0), "", existing, nil)
	assert.Empty(t, conflicts)
}

func TestDetector_IgnoresOtherEmployeesAndDays(t *testing.T) {
	d := NewDetector(10)
	existing := []shift.Shift{
		newShift("s1", "E2", "2024-03-04", "09:00", "17:00", 0),
		newShift("s2", "E1", "2024-03-05", "09:00", "17:00", 0),
	}

	conflicts := d.Check(newShift("", "E1", "2024-03-04", "09:00", "17:00", 0), "", existing, nil)
	assert.Empty(t, conflicts)
}

func TestDetector_ExcludesOwnIDAndCancelled(t *testing.T) {
	d := NewDetector(10)
	cancelled := newShift("s2", "E1", "2024-03-04", "10:00", "12:00", 0)
	cancelled.Status = shift.StatusCancelled
	existing := []shift.Shift{
		newShift("s1", "E1", "2024-03-04", "09:00", "17:00", 0),
		cancelled,
	}

	conflicts := d.Check(newShift("s1", "E1", "2024-03-04", "10:00", "18:00", 0), "s1", existing, nil)
	assert.Empty(t, conflicts)
}

func TestDetector_ApprovedAbsence(t *testing.T) {
	d := NewDetector(10)
	absences := []absence.Absence{
		{ID: "a1", EmployeeID: "E1", StartDate: clock.MustParseDate("2024-03-04"), EndDate: clock.MustParseDate("2024-03-06"), Status: absence.StatusApproved, Type: absence.TypeVacation},
		{ID: "a2", EmployeeID: "E1", StartDate: clock.MustParseDate("2024-03-04"), EndDate: clock.MustParseDate("2024-03-06"), Status: absence.StatusPending, Type: absence.TypeVacation},
		{ID: "a3", EmployeeID: "E2", StartDate: clock.MustParseDate("2024-03-04"), EndDate: clock.MustParseDate("2024-03-06"), Status: absence.StatusApproved, Type: absence.TypeVacation},
	}

	conflicts := d.Check(newShift("", "E1", "2024-03-06", "09:00", "12:00", 0), "", nil, absences)

	require.Len(t, conflicts, 1)
	assert.Equal(t, shift.ConflictAbsence, conflicts[0].Kind)
	assert.Equal(t, "a1", conflicts[0].EntityID)

	conflicts = d.Check(newShift("", "E1", "2024-03-07", "09:00", "12:00", 0), "", nil, absences)
	assert.Empty(t, conflicts)
}

func TestDetector_LegalLimit(t *testing.T) {
	tests := []struct {
		name     string
		limit    float64
		start    string
		end      string
		breakMin int
		want     bool
	}{
		{name: "under limit", limit: 10, start: "08:00", end: "17:00", breakMin: 0, want: false},
		{name: "exactly at limit", limit: 10, start: "08:00", end: "18:00", breakMin: 0, want: false},
		{name: "over limit", limit: 10, start: "07:00", end: "18:00", breakMin: 0, want: true},
		{name: "break brings under", limit: 10, start: "07:00", end: "18:00", breakMin: 60, want: false},
		{name: "custom limit", limit: 8, start: "08:00", end: "17:00", breakMin: 0, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDetector(tt.limit)
			conflicts := d.Check(newShift("", "E1", "2024-03-04", tt.start, tt.end, tt.breakMin), "", nil, nil)
			assert.Equal(t, tt.want, shift.HasKind(conflicts, shift.ConflictLegalLimit))
		})
	}
}

func TestDetector_LegalLimitIsPerShift(t *testing.T) {
	d := NewDetector(10)
	existing := []shift.Shift{newShift("s1", "E1", "2024-03-04", "06:00", "12:00", 0)}

	conflicts := d.Check(newShift("", "E1", "2024-03-04", "13:00", "18:00", 0), "", existing, nil)
	assert.Empty(t, conflicts)
}

func TestNewDetector_DefaultLimit(t *testing.T) {
	assert.Equal(t, DefaultLegalDailyHours, NewDetector(0).LegalDailyHours)
}
