package timeclock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/shift-planner-go/internal/domain/notification"
	"github.com/cmlabs-hris/shift-planner-go/internal/domain/shift"
	"github.com/cmlabs-hris/shift-planner-go/internal/domain/timeclock"
	"github.com/cmlabs-hris/shift-planner-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/shift-planner-go/internal/pkg/clock"
	"github.com/cmlabs-hris/shift-planner-go/internal/pkg/keylock"
	"github.com/cmlabs-hris/shift-planner-go/internal/repository/memory"
	"github.com/cmlabs-hris/shift-planner-go/internal/service/conflict"
	"github.com/cmlabs-hris/shift-planner-go/internal/service/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type timeClockFixture struct {
	svc      timeclock.TimeClockService
	shifts   shift.ShiftService
	clock    *clock.Manual
	recorder *notification.Recorder
}

func newTimeClockFixture(t *testing.T) timeClockFixture {
	t.Helper()
	clk := clock.NewManual(time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC))
	recorder := &notification.Recorder{}
	locks := keylock.New()

	shifts := schedule.NewScheduleService(
		memory.NewShiftRepository(), memory.NewAbsenceRepository(),
		conflict.NewDetector(10), clk, recorder, locks,
	)

	return timeClockFixture{
		svc:      NewTimeClockService(memory.NewSessionRepository(), shifts, clk, recorder, locks, Config{}),
		shifts:   shifts,
		clock:    clk,
		recorder: recorder,
	}
}

func (f timeClockFixture) at(hour, minute int) {
	f.clock.Set(time.Date(2024, 3, 4, hour, minute, 0, 0, time.UTC))
}

func (f timeClockFixture) planShift(t *testing.T, start, end string) {
	t.Helper()
	_, err := f.shifts.CreateShift(context.Background(), shift.CreateShiftRequest{
		EmployeeID: "E1",
		Date:       "2024-03-04",
		StartTime:  start,
		EndTime:    end,
	})
	require.NoError(t, err)
}

func TestClockIn_LateArrival(t *testing.T) {
	f := newTimeClockFixture(t)
	f.planShift(t, "09:00", "17:00")

	f.at(9, 15)
	s, err := f.svc.ClockIn(context.Background(), timeclock.ClockInRequest{EmployeeID: "E1"})
	require.NoError(t, err)

	assert.Equal(t, 15, s.LateMinutes)
	assert.True(t, s.IsOpen())
	assert.Equal(t, clock.MustParseDate("2024-03-04"), s.Date)

	late := f.recorder.OfType(notification.TypeLateArrival)
	require.Len(t, late, 1)
	assert.Contains(t, late[0].Recipients, notification.AudienceManagers)
	data, ok := late[0].Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, 15, data["late_minutes"])

	current, err := f.svc.GetCurrentSession(context.Background(), "E1")
	require.NoError(t, err)
	assert.Equal(t, 15, current.LateMinutes)
}

func TestClockIn_SecondsLateCountAsMinute(t *testing.T) {
	f := newTimeClockFixture(t)
	f.planShift(t, "09:00", "17:00")

	f.clock.Set(time.Date(2024, 3, 4, 9, 0, 45, 0, time.UTC))
	s, err := f.svc.ClockIn(context.Background(), timeclock.ClockInRequest{EmployeeID: "E1"})
	require.NoError(t, err)

	assert.Equal(t, 1, s.LateMinutes)
	assert.Len(t, f.recorder.OfType(notification.TypeLateArrival), 1)
}

func TestClockIn_ExactlyOnTime(t *testing.T) {
	f := newTimeClockFixture(t)
	f.planShift(t, "09:00", "17:00")

	f.at(9, 0)
	s, err := f.svc.ClockIn(context.Background(), timeclock.ClockInRequest{EmployeeID: "E1"})
	require.NoError(t, err)

	assert.Zero(t, s.LateMinutes)
	assert.Empty(t, f.recorder.OfType(notification.TypeLateArrival))
}

func TestClockIn_OnTimeOrUnplanned(t *testing.T) {
	f := newTimeClockFixture(t)

	f.at(9, 15)
	s, err := f.svc.ClockIn(context.Background(), timeclock.ClockInRequest{EmployeeID: "E1"})
	require.NoError(t, err)
	assert.Zero(t, s.LateMinutes)
	assert.Empty(t, f.recorder.OfType(notification.TypeLateArrival))
	assert.Len(t, f.recorder.OfType(notification.TypeClockIn), 1)
}

func TestClockIn_Twice(t *testing.T) {
	f := newTimeClockFixture(t)
	ctx := context.Background()

	_, err := f.svc.ClockIn(ctx, timeclock.ClockInRequest{EmployeeID: "E1"})
	require.NoError(t, err)

	_, err = f.svc.ClockIn(ctx, timeclock.ClockInRequest{EmployeeID: "E1"})
	assert.ErrorIs(t, err, apperror.ErrState)
	assert.ErrorIs(t, err, timeclock.ErrAlreadyClockedIn)

	sessions, err := f.svc.GetTimeEntries(ctx, timeclock.Filter{EmployeeID: ptr("E1")})
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
}

func TestClockIn_Concurrent(t *testing.T) {
	f := newTimeClockFixture(t)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.svc.ClockIn(context.Background(), timeclock.ClockInRequest{EmployeeID: "E1"}); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
}

func TestBreaks(t *testing.T) {
	f := newTimeClockFixture(t)
	ctx := context.Background()

	_, err := f.svc.StartBreak(ctx, "E1", "lunch")
	assert.ErrorIs(t, err, timeclock.ErrNotClockedIn)

	f.at(9, 0)
	_, err = f.svc.ClockIn(ctx, timeclock.ClockInRequest{EmployeeID: "E1"})
	require.NoError(t, err)

	_, err = f.svc.EndBreak(ctx, "E1")
	assert.ErrorIs(t, err, timeclock.ErrNoOpenBreak)

	f.at(12, 0)
	s, err := f.svc.StartBreak(ctx, "E1", "lunch")
	require.NoError(t, err)
	require.Len(t, s.Breaks, 1)
	assert.True(t, s.Breaks[0].IsOpen())

	_, err = f.svc.StartBreak(ctx, "E1", "again")
	assert.ErrorIs(t, err, timeclock.ErrBreakAlreadyOpen)

	f.clock.Advance(45*time.Minute + 30*time.Second)
	s, err = f.svc.EndBreak(ctx, "E1")
	require.NoError(t, err)
	assert.Equal(t, 45, s.Breaks[0].DurationMinutes)

	assert.Len(t, f.recorder.OfType(notification.TypeBreakStarted), 1)
	assert.Len(t, f.recorder.OfType(notification.TypeBreakEnded), 1)
}

func TestClockOut_ClosesOpenBreakAndKeepsTotals(t *testing.T) {
	f := newTimeClockFixture(t)
	ctx := context.Background()

	f.at(9, 0)
	_, err := f.svc.ClockIn(ctx, timeclock.ClockInRequest{EmployeeID: "E1"})
	require.NoError(t, err)

	f.at(12, 0)
	_, err = f.svc.StartBreak(ctx, "E1", "lunch")
	require.NoError(t, err)
	f.clock.Advance(30 * time.Minute)
	_, err = f.svc.EndBreak(ctx, "E1")
	require.NoError(t, err)

	f.at(16, 50)
	_, err = f.svc.StartBreak(ctx, "E1", "coffee")
	require.NoError(t, err)

	f.clock.Set(time.Date(2024, 3, 4, 17, 0, 59, 0, time.UTC))
	s, err := f.svc.ClockOut(ctx, "E1", "done")
	require.NoError(t, err)

	require.NotNil(t, s.ClockOut)
	assert.Equal(t, -1, s.OpenBreak())
	assert.Equal(t, 10, s.Breaks[1].DurationMinutes)
	assert.Equal(t, 40, s.TotalBreakTime)
	assert.Equal(t, 440, s.TotalWorkTime)
	assert.Equal(t, s.ElapsedMinutes(f.clock.Now()), s.TotalWorkTime+s.TotalBreakTime)
	assert.Equal(t, "done", s.ClockOutComment)

	_, err = f.svc.ClockOut(ctx, "E1", "")
	assert.ErrorIs(t, err, timeclock.ErrNotClockedIn)

	// A new session can start once the previous one is closed.
	_, err = f.svc.ClockIn(ctx, timeclock.ClockInRequest{EmployeeID: "E1"})
	assert.NoError(t, err)
}

func TestClockTraining(t *testing.T) {
	f := newTimeClockFixture(t)

	s, err := f.svc.ClockTraining(context.Background(), "E1", "first aid course")
	require.NoError(t, err)

	assert.True(t, s.IsTraining)
	assert.False(t, s.IsOpen())
	assert.Equal(t, DefaultTrainingDayMinutes, s.TotalWorkTime)
	assert.Zero(t, s.TotalBreakTime)
	assert.Len(t, f.recorder.OfType(notification.TypeTrainingCompleted), 1)

	_, err = f.svc.GetCurrentSession(context.Background(), "E1")
	assert.ErrorIs(t, err, timeclock.ErrNotClockedIn)
}

func TestComputeStats(t *testing.T) {
	svc := NewTimeClockService(memory.NewSessionRepository(), nil, clock.NewManual(time.Now()), nil, nil, Config{})

	out := func(h int) *time.Time {
		v := time.Date(2024, 3, 4, h, 0, 0, 0, time.UTC)
		return &v
	}
	in := time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)
	entries := []timeclock.Session{
		{ClockIn: in, ClockOut: out(18), TotalWorkTime: 570, TotalBreakTime: 30, LateMinutes: 5},
		{ClockIn: in, ClockOut: out(15), TotalWorkTime: 420, IsTraining: true},
		{ClockIn: in},
	}

	stats := svc.ComputeStats(entries)

	assert.Equal(t, 3, stats.Sessions)
	assert.Equal(t, 1, stats.OpenSessions)
	assert.Equal(t, 990, stats.TotalWorkTime)
	assert.Equal(t, 30, stats.TotalBreakTime)
	assert.Equal(t, 1, stats.TrainingDays)
	assert.Equal(t, 1, stats.LateArrivals)
	assert.Equal(t, 90, stats.OvertimeMinutes)
}

func TestCorrectSession(t *testing.T) {
	f := newTimeClockFixture(t)
	ctx := context.Background()

	f.at(9, 0)
	opened, err := f.svc.ClockIn(ctx, timeclock.ClockInRequest{EmployeeID: "E1"})
	require.NoError(t, err)

	f.at(18, 0)
	corrected, err := f.svc.CorrectSession(ctx, opened.ID, timeclock.CorrectSessionRequest{
		ClockOut: ptr("2024-03-04T17:30:00Z"),
		Breaks: &[]timeclock.BreakInput{
			{StartTime: "2024-03-04T12:00:00Z", EndTime: "2024-03-04T12:30:00Z", Reason: "lunch"},
		},
	}, "manager-1")
	require.NoError(t, err)

	assert.False(t, corrected.IsOpen())
	assert.Equal(t, 30, corrected.TotalBreakTime)
	assert.Equal(t, 480, corrected.TotalWorkTime)
	require.NotNil(t, corrected.CorrectedBy)
	assert.Equal(t, "manager-1", *corrected.CorrectedBy)
}

func TestCorrectSession_Invalid(t *testing.T) {
	f := newTimeClockFixture(t)
	ctx := context.Background()

	f.at(9, 0)
	opened, err := f.svc.ClockIn(ctx, timeclock.ClockInRequest{EmployeeID: "E1"})
	require.NoError(t, err)

	_, err = f.svc.CorrectSession(ctx, opened.ID, timeclock.CorrectSessionRequest{
		ClockOut: ptr("2024-03-04T08:00:00Z"),
	}, "manager-1")
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = f.svc.CorrectSession(ctx, opened.ID, timeclock.CorrectSessionRequest{
		IsRemote: ptr(true),
	}, "manager-1")
	assert.ErrorIs(t, err, apperror.ErrValidation, "an open session cannot be corrected without a clock-out")

	_, err = f.svc.CorrectSession(ctx, "missing", timeclock.CorrectSessionRequest{
		ClockOut: ptr("2024-03-04T17:00:00Z"),
	}, "manager-1")
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	still, err := f.svc.GetCurrentSession(ctx, "E1")
	require.NoError(t, err)
	assert.True(t, still.IsOpen())
}

func TestCloseStaleSessions(t *testing.T) {
	f := newTimeClockFixture(t)
	ctx := context.Background()
	f.planShift(t, "09:00", "17:00")

	f.at(9, 0)
	_, err := f.svc.ClockIn(ctx, timeclock.ClockInRequest{EmployeeID: "E1"})
	require.NoError(t, err)
	_, err = f.svc.ClockIn(ctx, timeclock.ClockInRequest{EmployeeID: "E2"})
	require.NoError(t, err)

	f.at(22, 0)
	_, err = f.svc.ClockIn(ctx, timeclock.ClockInRequest{EmployeeID: "E3"})
	require.NoError(t, err)

	f.clock.Set(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC))
	closed, err := f.svc.CloseStaleSessions(ctx, 12*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 2, closed)

	entries, err := f.svc.GetTimeEntries(ctx, timeclock.Filter{})
	require.NoError(t, err)
	byEmployee := map[string]timeclock.Session{}
	for _, s := range entries {
		byEmployee[s.EmployeeID] = s
	}

	e1 := byEmployee["E1"]
	require.NotNil(t, e1.ClockOut)
	assert.Equal(t, time.Date(2024, 3, 4, 17, 0, 0, 0, time.UTC), *e1.ClockOut)
	assert.Equal(t, 480, e1.TotalWorkTime)

	e2 := byEmployee["E2"]
	require.NotNil(t, e2.ClockOut)
	assert.Equal(t, time.Date(2024, 3, 4, 21, 0, 0, 0, time.UTC), *e2.ClockOut)

	assert.True(t, byEmployee["E3"].IsOpen())
}

func TestGetTimeEntries_InvalidRange(t *testing.T) {
	f := newTimeClockFixture(t)

	_, err := f.svc.GetTimeEntries(context.Background(), timeclock.Filter{
		StartDate: clock.MustParseDate("2024-03-10"),
		EndDate:   clock.MustParseDate("2024-03-01"),
	})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func ptr[T any](v T) *T { return &v }
