package calendar

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/shift-planner-go/internal/domain/absence"
	"github.com/cmlabs-hris/shift-planner-go/internal/domain/event"
	"github.com/cmlabs-hris/shift-planner-go/internal/domain/planning"
	"github.com/cmlabs-hris/shift-planner-go/internal/domain/shift"
	"github.com/cmlabs-hris/shift-planner-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/shift-planner-go/internal/pkg/clock"
	"github.com/cmlabs-hris/shift-planner-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type calendarFixture struct {
	svc         planning.PlanningService
	shiftRepo   shift.ShiftRepository
	eventRepo   event.EventRepository
	absenceRepo absence.AbsenceRepository
}

func newCalendarFixture() calendarFixture {
	f := calendarFixture{
		shiftRepo:   memory.NewShiftRepository(),
		eventRepo:   memory.NewEventRepository(),
		absenceRepo: memory.NewAbsenceRepository(),
	}
	f.svc = NewCalendarService(f.shiftRepo, f.eventRepo, f.absenceRepo)
	return f
}

func (f calendarFixture) addShift(t *testing.T, employee, date, start, end string, position *string, status shift.Status) {
	t.Helper()
	s := shift.Shift{
		EmployeeID: employee,
		Date:       clock.MustParseDate(date),
		StartTime:  clock.MustParseTimeOfDay(start),
		EndTime:    clock.MustParseTimeOfDay(end),
		Position:   position,
		Status:     status,
	}
	s.Recompute()
	_, err := f.shiftRepo.Create(context.Background(), s)
	require.NoError(t, err)
}

func (f calendarFixture) addAbsence(t *testing.T, employee, start, end string, status absence.Status) {
	t.Helper()
	a := absence.Absence{
		EmployeeID:  employee,
		StartDate:   clock.MustParseDate(start),
		EndDate:     clock.MustParseDate(end),
		Type:        absence.TypeVacation,
		Status:      status,
		TotalDays:   clock.InclusiveDays(clock.MustParseDate(start), clock.MustParseDate(end)),
		RequestedBy: employee,
		RequestedAt: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC),
	}
	_, err := f.absenceRepo.Create(context.Background(), a)
	require.NoError(t, err)
}

func TestGetWeekView(t *testing.T) {
	f := newCalendarFixture()
	ctx := context.Background()

	f.addShift(t, "E1", "2024-03-04", "09:00", "17:00", nil, shift.StatusScheduled)
	f.addShift(t, "E2", "2024-03-10", "09:00", "13:00", nil, shift.StatusConfirmed)
	f.addShift(t, "E1", "2024-03-11", "09:00", "17:00", nil, shift.StatusScheduled)

	_, err := f.eventRepo.Create(ctx, event.Event{
		Title:     "Stocktake",
		StartDate: clock.MustParseDate("2024-03-02"),
		EndDate:   clock.MustParseDate("2024-03-05"),
		AllDay:    true,
		Type:      event.TypeMaintenance,
	})
	require.NoError(t, err)

	f.addAbsence(t, "E3", "2024-03-06", "2024-03-07", absence.StatusApproved)
	f.addAbsence(t, "E4", "2024-03-06", "2024-03-06", absence.StatusRejected)

	view, err := f.svc.GetWeekView(ctx, clock.MustParseDate("2024-03-07"))
	require.NoError(t, err)

	assert.Equal(t, clock.MustParseDate("2024-03-04"), view.WeekStart)
	assert.Equal(t, clock.MustParseDate("2024-03-10"), view.WeekEnd)
	require.Len(t, view.Days, 7)

	monday := view.Days[0]
	assert.Equal(t, "Monday", monday.Weekday)
	assert.Len(t, monday.Shifts, 1)
	assert.Len(t, monday.Events, 1)
	assert.Empty(t, monday.Absences)

	assert.Len(t, view.Days[1].Events, 1)
	assert.Empty(t, view.Days[2].Events)

	wednesday := view.Days[2]
	require.Len(t, wednesday.Absences, 1)
	assert.Equal(t, "E3", wednesday.Absences[0].EmployeeID)
	assert.Len(t, view.Days[3].Absences, 1)

	sunday := view.Days[6]
	assert.Equal(t, "Sunday", sunday.Weekday)
	require.Len(t, sunday.Shifts, 1)
	assert.Equal(t, "E2", sunday.Shifts[0].EmployeeID)

	assert.NotNil(t, view.Days[4].Shifts, "empty days carry empty slices")
}

func TestGetWeekView_ZeroDate(t *testing.T) {
	f := newCalendarFixture()

	_, err := f.svc.GetWeekView(context.Background(), clock.Date{})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestGetPlanningStats(t *testing.T) {
	f := newCalendarFixture()
	cashier := "cashier"

	f.addShift(t, "E1", "2024-03-04", "09:00", "17:00", &cashier, shift.StatusScheduled)
	f.addShift(t, "E1", "2024-03-05", "09:00", "13:00", nil, shift.StatusCompleted)
	f.addShift(t, "E2", "2024-03-05", "10:00", "14:00", &cashier, shift.StatusConfirmed)
	f.addShift(t, "E2", "2024-03-06", "10:00", "18:00", &cashier, shift.StatusCancelled)
	f.addShift(t, "E3", "2024-04-01", "10:00", "18:00", nil, shift.StatusScheduled)

	stats, err := f.svc.GetPlanningStats(context.Background(),
		clock.MustParseDate("2024-03-01"), clock.MustParseDate("2024-03-31"))
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalShifts)
	assert.InDelta(t, 16.0, stats.TotalHours, 0.001)
	assert.InDelta(t, 12.0, stats.HoursByEmployee["E1"], 0.001)
	assert.InDelta(t, 4.0, stats.HoursByEmployee["E2"], 0.001)
	assert.InDelta(t, 12.0, stats.HoursByPosition["cashier"], 0.001)
	assert.InDelta(t, 4.0, stats.HoursByPosition[planning.UnassignedPosition], 0.001)
	assert.NotContains(t, stats.HoursByEmployee, "E3")
}

func TestGetPlanningStats_InvalidRange(t *testing.T) {
	f := newCalendarFixture()
	ctx := context.Background()

	_, err := f.svc.GetPlanningStats(ctx, clock.MustParseDate("2024-03-10"), clock.MustParseDate("2024-03-01"))
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = f.svc.GetPlanningStats(ctx, clock.MustParseDate("2024-01-01"), clock.MustParseDate("2025-06-01"))
	assert.ErrorIs(t, err, apperror.ErrValidation)
}
