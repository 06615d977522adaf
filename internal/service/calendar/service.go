package calendar

import (
	"context"

	"github.com/cmlabs-hris/shift-planner-go/internal/domain/absence"
	"github.com/cmlabs-hris/shift-planner-go/internal/domain/event"
	"github.com/cmlabs-hris/shift-planner-go/internal/domain/planning"
	"github.com/cmlabs-hris/shift-planner-go/internal/domain/shift"
	"github.com/cmlabs-hris/shift-planner-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/shift-planner-go/internal/pkg/clock"
	"golang.org/x/sync/errgroup"
)

// maxStatsRangeDays caps GetPlanningStats ranges.
const maxStatsRangeDays = 366

type calendarServiceImpl struct {
	shiftRepo   shift.ShiftRepository
	eventRepo   event.EventRepository
	absenceRepo absence.AbsenceRepository
}

func NewCalendarService(
	shiftRepo shift.ShiftRepository,
	eventRepo event.EventRepository,
	absenceRepo absence.AbsenceRepository,
) planning.PlanningService {
	return &calendarServiceImpl{
		shiftRepo:   shiftRepo,
		eventRepo:   eventRepo,
		absenceRepo: absenceRepo,
	}
}

// GetWeekView implements planning.PlanningService. The three collections are read
// concurrently; the view is a point-in-time snapshot and holds no locks.
func (c *calendarServiceImpl) GetWeekView(ctx context.Context, anyDate clock.Date) (planning.WeekView, error) {
	if anyDate.IsZero() {
		return planning.WeekView{}, apperror.Validation("date is required")
	}

	weekStart := anyDate.MondayOf()
	weekEnd := weekStart.AddDays(6)

	var (
		shifts   []shift.Shift
		events   []event.Event
		absences []absence.Absence
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		shifts, err = c.shiftRepo.List(gctx, shift.Filter{StartDate: &weekStart, EndDate: &weekEnd})
		return apperror.Repository("list shifts", err)
	})
	g.Go(func() error {
		var err error
		events, err = c.eventRepo.List(gctx, event.Filter{StartDate: weekStart, EndDate: weekEnd})
		return apperror.Repository("list events", err)
	})
	g.Go(func() error {
		var err error
		absences, err = c.absenceRepo.List(gctx, absence.Filter{
			StartDate: weekStart,
			EndDate:   weekEnd,
			Statuses:  []absence.Status{absence.StatusPending, absence.StatusApproved},
		})
		return apperror.Repository("list absences", err)
	})
	if err := g.Wait(); err != nil {
		return planning.WeekView{}, err
	}

	view := planning.WeekView{
		WeekStart: weekStart,
		WeekEnd:   weekEnd,
		Days:      make([]planning.DayView, 0, 7),
	}
	for i := 0; i < 7; i++ {
		date := weekStart.AddDays(i)
		day := planning.DayView{
			Date:     date,
			Weekday:  date.Weekday().String(),
			Shifts:   []shift.Shift{},
			Events:   []event.Event{},
			Absences: []absence.Absence{},
		}
		for _, s := range shifts {
			if s.Date == date {
				day.Shifts = append(day.Shifts, s)
			}
		}
		for _, e := range events {
			if e.OccursOn(date) {
				day.Events = append(day.Events, e)
			}
		}
		for _, a := range absences {
			if a.Covers(date) {
				day.Absences = append(day.Absences, a)
			}
		}
		view.Days = append(view.Days, day)
	}

	return view, nil
}

// GetPlanningStats implements planning.PlanningService. Cancelled shifts are left out.
func (c *calendarServiceImpl) GetPlanningStats(ctx context.Context, start, end clock.Date) (planning.PlanningStats, error) {
	if start.IsZero() || end.IsZero() {
		return planning.PlanningStats{}, apperror.Validation("start_date and end_date are required")
	}
	if end.Before(start) {
		return planning.PlanningStats{}, apperror.Validation("end_date must be on or after start_date")
	}
	if clock.InclusiveDays(start, end) > maxStatsRangeDays {
		return planning.PlanningStats{}, apperror.Validation("date range must not exceed one year")
	}

	shifts, err := c.shiftRepo.List(ctx, shift.Filter{StartDate: &start, EndDate: &end})
	if err != nil {
		return planning.PlanningStats{}, apperror.Repository("list shifts", err)
	}

	stats := planning.PlanningStats{
		StartDate:       start,
		EndDate:         end,
		HoursByEmployee: make(map[string]float64),
		HoursByPosition: make(map[string]float64),
	}
	for _, s := range shifts {
		if s.IsCancelled() {
			continue
		}
		stats.TotalShifts++
		stats.TotalHours += s.TotalHours
		stats.HoursByEmployee[s.EmployeeID] += s.TotalHours

		position := s.PositionLabel()
		if position == "" {
			position = planning.UnassignedPosition
		}
		stats.HoursByPosition[position] += s.TotalHours
	}

	return stats, nil
}
