package sqlite

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/cmlabs-hris/shift-planner-go/internal/domain/absence"
	"github.com/cmlabs-hris/shift-planner-go/internal/domain/event"
	"github.com/cmlabs-hris/shift-planner-go/internal/domain/shift"
	"github.com/cmlabs-hris/shift-planner-go/internal/domain/timeclock"
	"github.com/cmlabs-hris/shift-planner-go/internal/pkg/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func TestShiftRepository(t *testing.T) {
	repo, err := NewShiftRepository(openTestDB(t))
	require.NoError(t, err)
	ctx := context.Background()

	mk := func(employee, date, start, end string) shift.Shift {
		s := shift.Shift{
			EmployeeID: employee,
			Date:       clock.MustParseDate(date),
			StartTime:  clock.MustParseTimeOfDay(start),
			EndTime:    clock.MustParseTimeOfDay(end),
			Status:     shift.StatusScheduled,
			CreatedAt:  time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC),
		}
		s.Recompute()
		return s
	}

	late, err := repo.Create(ctx, mk("E1", "2024-03-04", "13:00", "17:00"))
	require.NoError(t, err)
	early, err := repo.Create(ctx, mk("E1", "2024-03-04", "08:00", "12:00"))
	require.NoError(t, err)
	_, err = repo.Create(ctx, mk("E2", "2024-03-12", "08:00", "12:00"))
	require.NoError(t, err)

	start, end := clock.MustParseDate("2024-03-04"), clock.MustParseDate("2024-03-10")
	week, err := repo.List(ctx, shift.Filter{StartDate: &start, EndDate: &end})
	require.NoError(t, err)
	require.Len(t, week, 2)
	assert.Equal(t, early.ID, week[0].ID)
	assert.Equal(t, late.ID, week[1].ID)
	assert.Equal(t, "13:00", week[1].StartTime.String())

	late.Status = shift.StatusCancelled
	_, err = repo.Update(ctx, late)
	require.NoError(t, err)

	active, err := repo.List(ctx, shift.Filter{EmployeeIDs: []string{"E1"}, Statuses: []shift.Status{shift.StatusScheduled}})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, early.ID, active[0].ID)

	require.NoError(t, repo.Delete(ctx, early.ID))
	assert.ErrorIs(t, repo.Delete(ctx, early.ID), shift.ErrShiftNotFound)
	_, err = repo.Update(ctx, early)
	assert.ErrorIs(t, err, shift.ErrShiftNotFound)
}

func TestEventRepository(t *testing.T) {
	repo, err := NewEventRepository(openTestDB(t))
	require.NoError(t, err)
	ctx := context.Background()

	start := clock.MustParseTimeOfDay("10:00")
	created, err := repo.Create(ctx, event.Event{
		Title:     "Training",
		StartDate: clock.MustParseDate("2024-03-04"),
		EndDate:   clock.MustParseDate("2024-03-06"),
		StartTime: &start,
		Type:      event.TypeTraining,
		Priority:  event.PriorityNormal,
		Attendees: []string{"E1", "E2"},
	})
	require.NoError(t, err)
	_, err = repo.Create(ctx, event.Event{
		Title:     "Holiday",
		StartDate: clock.MustParseDate("2024-03-05"),
		EndDate:   clock.MustParseDate("2024-03-05"),
		AllDay:    true,
		Type:      event.TypeHoliday,
		Priority:  event.PriorityLow,
	})
	require.NoError(t, err)

	attendee := "E2"
	mine, err := repo.List(ctx, event.Filter{Attendee: &attendee})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, created.ID, mine[0].ID)
	assert.Equal(t, []string{"E1", "E2"}, mine[0].Attendees)
	require.NotNil(t, mine[0].StartTime)
	assert.Equal(t, start, *mine[0].StartTime)

	day, err := repo.List(ctx, event.Filter{StartDate: clock.MustParseDate("2024-03-06"), EndDate: clock.MustParseDate("2024-03-06")})
	require.NoError(t, err)
	require.Len(t, day, 1)
	assert.Equal(t, "Training", day[0].Title)
}

func TestAbsenceRepository(t *testing.T) {
	repo, err := NewAbsenceRepository(openTestDB(t))
	require.NoError(t, err)
	ctx := context.Background()

	a, err := repo.Create(ctx, absence.Absence{
		EmployeeID:  "E1",
		StartDate:   clock.MustParseDate("2024-03-04"),
		EndDate:     clock.MustParseDate("2024-03-06"),
		Type:        absence.TypeSickLeave,
		Status:      absence.StatusPending,
		TotalDays:   3,
		RequestedBy: "E1",
		RequestedAt: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	approver := "manager-1"
	approvedAt := time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC)
	a.Status = absence.StatusApproved
	a.ApprovedBy = &approver
	a.ApprovedAt = &approvedAt
	_, err = repo.Update(ctx, a)
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, absence.StatusApproved, got.Status)
	require.NotNil(t, got.ApprovedAt)
	assert.True(t, approvedAt.Equal(*got.ApprovedAt))

	employee := "E1"
	approved, err := repo.List(ctx, absence.Filter{
		EmployeeID: &employee,
		StartDate:  clock.MustParseDate("2024-03-06"),
		EndDate:    clock.MustParseDate("2024-03-06"),
		Statuses:   []absence.Status{absence.StatusApproved},
	})
	require.NoError(t, err)
	assert.Len(t, approved, 1)
}

func TestSessionRepository(t *testing.T) {
	repo, err := NewSessionRepository(openTestDB(t))
	require.NoError(t, err)
	ctx := context.Background()

	in := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	open := timeclock.Session{EmployeeID: "E1", Date: clock.DateOf(in), ClockIn: in}

	first, err := repo.Create(ctx, open)
	require.NoError(t, err)

	_, err = repo.Create(ctx, open)
	assert.ErrorIs(t, err, timeclock.ErrAlreadyClockedIn)

	current, err := repo.GetOpen(ctx, "E1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, current.ID)

	current.Breaks = append(current.Breaks, timeclock.Break{StartTime: in.Add(3 * time.Hour), Reason: "lunch"})
	current.Close(in.Add(8 * time.Hour))
	_, err = repo.Update(ctx, current)
	require.NoError(t, err)

	_, err = repo.GetOpen(ctx, "E1")
	assert.ErrorIs(t, err, timeclock.ErrNotClockedIn)

	second, err := repo.Create(ctx, timeclock.Session{EmployeeID: "E1", Date: clock.DateOf(in), ClockIn: in.Add(9 * time.Hour)})
	require.NoError(t, err)

	cutoff := in.Add(time.Hour)
	stale, err := repo.List(ctx, timeclock.Filter{OpenOnly: true, ClockInBefore: &cutoff})
	require.NoError(t, err)
	assert.Empty(t, stale)

	all, err := repo.List(ctx, timeclock.Filter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID, "newest first")
	require.Len(t, all[1].Breaks, 1)
	assert.Equal(t, "lunch", all[1].Breaks[0].Reason)
	assert.Equal(t, 300, all[1].Breaks[0].DurationMinutes)
	assert.Equal(t, 180, all[1].TotalWorkTime)
}
