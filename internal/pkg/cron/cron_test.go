package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cmlabs-hris/shift-planner-go/internal/domain/shift"
	"github.com/cmlabs-hris/shift-planner-go/internal/domain/timeclock"
	"github.com/cmlabs-hris/shift-planner-go/internal/pkg/clock"
	"github.com/cmlabs-hris/shift-planner-go/internal/pkg/keylock"
	"github.com/cmlabs-hris/shift-planner-go/internal/repository/memory"
	"github.com/cmlabs-hris/shift-planner-go/internal/service/conflict"
	"github.com/cmlabs-hris/shift-planner-go/internal/service/schedule"
	timeclockService "github.com/cmlabs-hris/shift-planner-go/internal/service/timeclock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_StartRunsImmediatelyAndStops(t *testing.T) {
	s := NewScheduler(time.Second)
	var runs atomic.Int32
	done := make(chan struct{}, 1)
	s.AddJob("count", time.Hour, func(ctx context.Context) error {
		runs.Add(1)
		select {
		case done <- struct{}{}:
		default:
		}
		return nil
	})

	s.Start(context.Background())
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("job did not run on start")
	}
	s.Stop()

	assert.Equal(t, int32(1), runs.Load())
}

func TestScheduler_RunOnceJoinsErrors(t *testing.T) {
	s := NewScheduler(0)
	boom := errors.New("boom")
	s.AddJob("ok", time.Minute, func(context.Context) error { return nil })
	s.AddJob("fails", time.Minute, func(context.Context) error { return boom })

	err := s.RunOnce(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "fails")
}

type jobsFixture struct {
	jobs   *TimeClockJobs
	shifts shift.ShiftService
	clocks timeclock.TimeClockService
	clock  *clock.Manual
}

func newJobsFixture() jobsFixture {
	clk := clock.NewManual(time.Date(2024, 3, 4, 9, 5, 0, 0, time.UTC))
	locks := keylock.New()
	absenceRepo := memory.NewAbsenceRepository()

	shifts := schedule.NewScheduleService(memory.NewShiftRepository(), absenceRepo, conflict.NewDetector(10), clk, nil, locks)
	clocks := timeclockService.NewTimeClockService(memory.NewSessionRepository(), shifts, clk, nil, locks, timeclockService.Config{})

	return jobsFixture{
		jobs:   NewTimeClockJobs(shifts, clocks, clk, 16*time.Hour, time.Hour),
		shifts: shifts,
		clocks: clocks,
		clock:  clk,
	}
}

func (f jobsFixture) plan(t *testing.T, employee, start, end string, status shift.Status) shift.Shift {
	t.Helper()
	st := string(status)
	s, err := f.shifts.CreateShift(context.Background(), shift.CreateShiftRequest{
		EmployeeID: employee,
		Date:       "2024-03-04",
		StartTime:  start,
		EndTime:    end,
		Status:     &st,
	})
	require.NoError(t, err)
	return s
}

func TestMarkNoShows(t *testing.T) {
	f := newJobsFixture()
	ctx := context.Background()

	absent := f.plan(t, "E1", "09:00", "17:00", shift.StatusScheduled)
	present := f.plan(t, "E2", "09:00", "17:00", shift.StatusConfirmed)
	inGrace := f.plan(t, "E3", "10:30", "18:00", shift.StatusScheduled)
	cancelled := f.plan(t, "E4", "08:00", "12:00", shift.StatusCancelled)

	_, err := f.clocks.ClockIn(ctx, timeclock.ClockInRequest{EmployeeID: "E2"})
	require.NoError(t, err)

	f.clock.Set(time.Date(2024, 3, 4, 11, 0, 0, 0, time.UTC))
	require.NoError(t, f.jobs.MarkNoShows(ctx))

	got, err := f.shifts.GetShift(ctx, absent.ID)
	require.NoError(t, err)
	assert.Equal(t, shift.StatusNoShow, got.Status)
	require.NotNil(t, got.ModifiedBy)
	assert.Equal(t, SystemActor, *got.ModifiedBy)

	for _, id := range []string{present.ID, inGrace.ID} {
		got, err := f.shifts.GetShift(ctx, id)
		require.NoError(t, err)
		assert.NotEqual(t, shift.StatusNoShow, got.Status, id)
	}

	got, err = f.shifts.GetShift(ctx, cancelled.ID)
	require.NoError(t, err)
	assert.Equal(t, shift.StatusCancelled, got.Status)

	// A second pass finds nothing left to mark.
	require.NoError(t, f.jobs.MarkNoShows(ctx))
}

func TestCloseStaleSessionsJob(t *testing.T) {
	f := newJobsFixture()
	ctx := context.Background()

	_, err := f.clocks.ClockIn(ctx, timeclock.ClockInRequest{EmployeeID: "E9"})
	require.NoError(t, err)

	f.clock.Advance(20 * time.Hour)
	require.NoError(t, f.jobs.CloseStaleSessions(ctx))

	_, err = f.clocks.GetCurrentSession(ctx, "E9")
	assert.ErrorIs(t, err, timeclock.ErrNotClockedIn)
}
