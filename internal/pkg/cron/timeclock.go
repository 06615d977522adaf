package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/shift-planner-go/internal/domain/shift"
	"github.com/cmlabs-hris/shift-planner-go/internal/domain/timeclock"
	"github.com/cmlabs-hris/shift-planner-go/internal/pkg/clock"
)

// noShowLookbackDays bounds how far back MarkNoShows looks for unattended shifts.
const noShowLookbackDays = 7

// SystemActor is recorded as the modifier of shifts changed by background jobs.
const SystemActor = "system"

type TimeClockJobs struct {
	shiftService     shift.ShiftService
	timeClockService timeclock.TimeClockService
	clock            clock.Clock
	staleAfter       time.Duration
	noShowGrace      time.Duration
}

func NewTimeClockJobs(
	shiftService shift.ShiftService,
	timeClockService timeclock.TimeClockService,
	clk clock.Clock,
	staleAfter time.Duration,
	noShowGrace time.Duration,
) *TimeClockJobs {
	return &TimeClockJobs{
		shiftService:     shiftService,
		timeClockService: timeClockService,
		clock:            clk,
		staleAfter:       staleAfter,
		noShowGrace:      noShowGrace,
	}
}

func (j *TimeClockJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("close_stale_sessions", 15*time.Minute, j.CloseStaleSessions)
	scheduler.AddJob("mark_no_shows", 15*time.Minute, j.MarkNoShows)
}

// CloseStaleSessions closes sessions left open longer than the configured limit.
func (j *TimeClockJobs) CloseStaleSessions(ctx context.Context) error {
	closed, err := j.timeClockService.CloseStaleSessions(ctx, j.staleAfter)
	if err != nil {
		return fmt.Errorf("close stale sessions: %w", err)
	}
	if closed > 0 {
		slog.Info("Cron: closed stale sessions", "count", closed)
	}
	return nil
}

// MarkNoShows flags scheduled or confirmed shifts whose start passed more than the
// grace period ago without the employee clocking in that day.
func (j *TimeClockJobs) MarkNoShows(ctx context.Context) error {
	now := j.clock.Now()
	loc := j.clock.Location()
	today := clock.DateOf(now.In(loc))
	from := today.AddDays(-noShowLookbackDays)

	candidates, err := j.shiftService.GetShifts(ctx, shift.Filter{
		StartDate: &from,
		EndDate:   &today,
		Statuses:  []shift.Status{shift.StatusScheduled, shift.StatusConfirmed},
	})
	if err != nil {
		return fmt.Errorf("list unattended shifts: %w", err)
	}

	attended := make(map[string]bool)
	marked := 0
	for _, sh := range candidates {
		if now.Before(sh.StartsAt(loc).Add(j.noShowGrace)) {
			continue
		}

		key := sh.EmployeeID + "|" + sh.Date.String()
		present, seen := attended[key]
		if !seen {
			employeeID := sh.EmployeeID
			sessions, err := j.timeClockService.GetTimeEntries(ctx, timeclock.Filter{
				EmployeeID: &employeeID,
				StartDate:  sh.Date,
				EndDate:    sh.Date,
			})
			if err != nil {
				return fmt.Errorf("list sessions of %s on %s: %w", sh.EmployeeID, sh.Date, err)
			}
			present = len(sessions) > 0
			attended[key] = present
		}
		if present {
			continue
		}

		status := string(shift.StatusNoShow)
		if _, err := j.shiftService.UpdateShift(ctx, sh.ID, shift.UpdateShiftRequest{
			Status:     &status,
			ModifiedBy: SystemActor,
		}); err != nil {
			slog.Warn("Cron: failed to mark shift as no-show", "shift_id", sh.ID, "error", err)
			continue
		}
		marked++
	}

	if marked > 0 {
		slog.Info("Cron: marked no-show shifts", "count", marked)
	}
	return nil
}
