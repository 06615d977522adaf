package timeclock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/shift-planner-go/internal/domain/notification"
	"github.com/cmlabs-hris/shift-planner-go/internal/domain/shift"
	"github.com/cmlabs-hris/shift-planner-go/internal/domain/timeclock"
	"github.com/cmlabs-hris/shift-planner-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/shift-planner-go/internal/pkg/clock"
	"github.com/cmlabs-hris/shift-planner-go/internal/pkg/keylock"
)

const (
	DefaultTrainingDayMinutes       = 7 * 60
	DefaultOvertimeReferenceMinutes = 8 * 60
)

// PlanReader is the read path into the scheduling service.
type PlanReader interface {
	PlannedStart(ctx context.Context, employeeID string, date clock.Date) (time.Time, bool, error)
	GetShifts(ctx context.Context, filter shift.Filter) ([]shift.Shift, error)
}

type Config struct {
	TrainingDayMinutes       int
	OvertimeReferenceMinutes int
}

type timeClockServiceImpl struct {
	sessionRepo timeclock.SessionRepository
	plans       PlanReader
	clock       clock.Clock
	publisher   notification.Publisher
	locks       *keylock.Locker
	cfg         Config
}

func NewTimeClockService(
	sessionRepo timeclock.SessionRepository,
	plans PlanReader,
	clk clock.Clock,
	publisher notification.Publisher,
	locks *keylock.Locker,
	cfg Config,
) timeclock.TimeClockService {
	if publisher == nil {
		publisher = notification.Nop{}
	}
	if locks == nil {
		locks = keylock.New()
	}
	if cfg.TrainingDayMinutes <= 0 {
		cfg.TrainingDayMinutes = DefaultTrainingDayMinutes
	}
	if cfg.OvertimeReferenceMinutes <= 0 {
		cfg.OvertimeReferenceMinutes = DefaultOvertimeReferenceMinutes
	}
	return &timeClockServiceImpl{
		sessionRepo: sessionRepo,
		plans:       plans,
		clock:       clk,
		publisher:   publisher,
		locks:       locks,
		cfg:         cfg,
	}
}

func clockKey(employeeID string) string {
	return "clock:" + employeeID
}

// ClockIn implements timeclock.TimeClockService. Arriving after the planned start
// records the delay and emits a late-arrival notification; it never blocks the
// clock-in.
func (t *timeClockServiceImpl) ClockIn(ctx context.Context, req timeclock.ClockInRequest) (timeclock.Session, error) {
	if err := req.Validate(); err != nil {
		return timeclock.Session{}, err
	}

	unlock := t.locks.Lock(clockKey(req.EmployeeID))
	defer unlock()

	if _, err := t.openSession(ctx, req.EmployeeID); err == nil {
		return timeclock.Session{}, timeclock.ErrAlreadyClockedIn
	} else if !errors.Is(err, timeclock.ErrNotClockedIn) {
		return timeclock.Session{}, err
	}

	now := t.clock.Now()
	session := timeclock.Session{
		EmployeeID:     req.EmployeeID,
		Date:           clock.DateOf(now.In(t.clock.Location())),
		ClockIn:        now,
		Breaks:         []timeclock.Break{},
		IsRemote:       req.IsRemote,
		Location:       req.Location,
		ClockInComment: req.Comment,
	}

	created, err := t.sessionRepo.Create(ctx, session)
	if err != nil {
		return timeclock.Session{}, apperror.Repository("create session", err)
	}

	slog.Info("employee clocked in", "session_id", created.ID, "employee_id", created.EmployeeID, "remote", created.IsRemote)
	t.notify(ctx, notification.TypeClockIn, created, []string{created.EmployeeID, notification.AudienceManagers},
		fmt.Sprintf("%s clocked in", created.EmployeeID))

	return t.checkLateArrival(ctx, created), nil
}

// checkLateArrival compares the clock-in with the planned start of the day. Lookup
// failures are logged and leave the session untouched.
func (t *timeClockServiceImpl) checkLateArrival(ctx context.Context, s timeclock.Session) timeclock.Session {
	if t.plans == nil {
		return s
	}

	plannedStart, ok, err := t.plans.PlannedStart(ctx, s.EmployeeID, s.Date)
	if err != nil {
		slog.Warn("failed to look up planned start", "employee_id", s.EmployeeID, "error", err)
		return s
	}
	if !ok {
		return s
	}

	late := clock.MinutesLate(plannedStart, s.ClockIn)
	if late == 0 {
		return s
	}

	s.LateMinutes = late
	if updated, err := t.sessionRepo.Update(ctx, s); err != nil {
		slog.Warn("failed to record late minutes", "session_id", s.ID, "error", err)
	} else {
		s = updated
	}

	slog.Info("late arrival detected", "employee_id", s.EmployeeID, "late_minutes", late)
	t.publisher.Publish(ctx, notification.Notification{
		Type:       notification.TypeLateArrival,
		Recipients: []string{s.EmployeeID, notification.AudienceManagers},
		EntityID:   s.ID,
		Message:    fmt.Sprintf("%s clocked in %d minutes late", s.EmployeeID, late),
		Data: map[string]interface{}{
			"session_id":    s.ID,
			"employee_id":   s.EmployeeID,
			"planned_start": plannedStart,
			"clock_in":      s.ClockIn,
			"late_minutes":  late,
		},
		OccurredAt: s.ClockIn,
	})
	return s
}

// StartBreak implements timeclock.TimeClockService.
func (t *timeClockServiceImpl) StartBreak(ctx context.Context, employeeID, reason string) (timeclock.Session, error) {
	unlock := t.locks.Lock(clockKey(employeeID))
	defer unlock()

	s, err := t.openSession(ctx, employeeID)
	if err != nil {
		return timeclock.Session{}, err
	}
	if s.OpenBreak() >= 0 {
		return timeclock.Session{}, timeclock.ErrBreakAlreadyOpen
	}

	s.Breaks = append(s.Breaks, timeclock.Break{StartTime: t.clock.Now(), Reason: reason})
	updated, err := t.sessionRepo.Update(ctx, s)
	if err != nil {
		return timeclock.Session{}, apperror.Repository("update session", err)
	}

	t.notify(ctx, notification.TypeBreakStarted, updated, []string{employeeID, notification.AudienceManagers},
		fmt.Sprintf("%s started a break", employeeID))
	return updated, nil
}

// EndBreak implements timeclock.TimeClockService.
func (t *timeClockServiceImpl) EndBreak(ctx context.Context, employeeID string) (timeclock.Session, error) {
	unlock := t.locks.Lock(clockKey(employeeID))
	defer unlock()

	s, err := t.openSession(ctx, employeeID)
	if err != nil {
		return timeclock.Session{}, err
	}
	i := s.OpenBreak()
	if i < 0 {
		return timeclock.Session{}, timeclock.ErrNoOpenBreak
	}

	s.Breaks[i].Close(t.clock.Now())
	updated, err := t.sessionRepo.Update(ctx, s)
	if err != nil {
		return timeclock.Session{}, apperror.Repository("update session", err)
	}

	t.notify(ctx, notification.TypeBreakEnded, updated, []string{employeeID, notification.AudienceManagers},
		fmt.Sprintf("%s ended a %d minute break", employeeID, updated.Breaks[i].DurationMinutes))
	return updated, nil
}

// ClockOut implements timeclock.TimeClockService. An open break is closed at the same
// instant.
func (t *timeClockServiceImpl) ClockOut(ctx context.Context, employeeID, comment string) (timeclock.Session, error) {
	unlock := t.locks.Lock(clockKey(employeeID))
	defer unlock()

	s, err := t.openSession(ctx, employeeID)
	if err != nil {
		return timeclock.Session{}, err
	}

	s.Close(t.clock.Now())
	s.ClockOutComment = comment

	updated, err := t.sessionRepo.Update(ctx, s)
	if err != nil {
		return timeclock.Session{}, apperror.Repository("update session", err)
	}

	slog.Info("employee clocked out",
		"session_id", updated.ID,
		"employee_id", employeeID,
		"work_minutes", updated.TotalWorkTime,
		"break_minutes", updated.TotalBreakTime,
	)
	t.notify(ctx, notification.TypeClockOut, updated, []string{employeeID, notification.AudienceManagers},
		fmt.Sprintf("%s clocked out after %d minutes of work", employeeID, updated.TotalWorkTime))
	return updated, nil
}

// ClockTraining implements timeclock.TimeClockService. The session is stored already
// closed and does not count against the open-session rule.
func (t *timeClockServiceImpl) ClockTraining(ctx context.Context, employeeID, comment string) (timeclock.Session, error) {
	if employeeID == "" {
		return timeclock.Session{}, apperror.Validation("employee ID is required")
	}

	now := t.clock.Now()
	out := now.Add(time.Duration(t.cfg.TrainingDayMinutes) * time.Minute)
	s := timeclock.Session{
		EmployeeID:      employeeID,
		Date:            clock.DateOf(now.In(t.clock.Location())),
		ClockIn:         now,
		ClockOut:        &out,
		Breaks:          []timeclock.Break{},
		IsTraining:      true,
		ClockInComment:  comment,
		ClockOutComment: comment,
	}
	s.Recompute()

	created, err := t.sessionRepo.Create(ctx, s)
	if err != nil {
		return timeclock.Session{}, apperror.Repository("create training session", err)
	}

	slog.Info("training day recorded", "session_id", created.ID, "employee_id", employeeID)
	t.notify(ctx, notification.TypeTrainingCompleted, created, []string{employeeID, notification.AudienceManagers},
		fmt.Sprintf("%s completed a training day", employeeID))
	return created, nil
}

// GetCurrentSession implements timeclock.TimeClockService.
func (t *timeClockServiceImpl) GetCurrentSession(ctx context.Context, employeeID string) (timeclock.Session, error) {
	return t.openSession(ctx, employeeID)
}

// GetTimeEntries implements timeclock.TimeClockService.
func (t *timeClockServiceImpl) GetTimeEntries(ctx context.Context, filter timeclock.Filter) ([]timeclock.Session, error) {
	if !filter.StartDate.IsZero() && !filter.EndDate.IsZero() && filter.EndDate.Before(filter.StartDate) {
		return nil, apperror.Validation("end_date must be on or after start_date")
	}
	sessions, err := t.sessionRepo.List(ctx, filter)
	if err != nil {
		return nil, apperror.Repository("list sessions", err)
	}
	return sessions, nil
}

// ComputeStats implements timeclock.TimeClockService. Overtime is the work beyond the
// reference day, summed per session.
func (t *timeClockServiceImpl) ComputeStats(entries []timeclock.Session) timeclock.Stats {
	var stats timeclock.Stats
	for _, s := range entries {
		stats.Sessions++
		if s.IsOpen() {
			stats.OpenSessions++
			continue
		}
		stats.TotalWorkTime += s.TotalWorkTime
		stats.TotalBreakTime += s.TotalBreakTime
		if s.IsTraining {
			stats.TrainingDays++
		}
		if s.LateMinutes > 0 {
			stats.LateArrivals++
		}
		if over := s.TotalWorkTime - t.cfg.OvertimeReferenceMinutes; over > 0 {
			stats.OvertimeMinutes += over
		}
	}
	return stats
}

// CorrectSession implements timeclock.TimeClockService. Only managers reach it; the
// result must be a consistent closed session.
func (t *timeClockServiceImpl) CorrectSession(ctx context.Context, id string, req timeclock.CorrectSessionRequest, actor string) (timeclock.Session, error) {
	if err := req.Validate(); err != nil {
		return timeclock.Session{}, err
	}
	if actor == "" {
		return timeclock.Session{}, apperror.Validation("correcting actor is required")
	}

	s, err := t.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return timeclock.Session{}, apperror.Repository("get session", err)
	}

	unlock := t.locks.Lock(clockKey(s.EmployeeID))
	defer unlock()

	// Re-read under the lock so a concurrent break or clock-out is not overwritten.
	s, err = t.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return timeclock.Session{}, apperror.Repository("get session", err)
	}

	if err := req.Apply(&s, t.clock.Location()); err != nil {
		return timeclock.Session{}, err
	}
	now := t.clock.Now()
	correctedBy := actor
	s.CorrectedBy = &correctedBy
	s.CorrectedAt = &now

	updated, err := t.sessionRepo.Update(ctx, s)
	if err != nil {
		return timeclock.Session{}, apperror.Repository("update session", err)
	}

	slog.Info("session corrected", "session_id", id, "corrected_by", actor, "work_minutes", updated.TotalWorkTime)
	return updated, nil
}

// CloseStaleSessions implements timeclock.TimeClockService. Sessions open for longer
// than maxOpen are closed at the end of the last shift planned that day, or after
// maxOpen when nothing usable was planned.
func (t *timeClockServiceImpl) CloseStaleSessions(ctx context.Context, maxOpen time.Duration) (int, error) {
	cutoff := t.clock.Now().Add(-maxOpen)
	stale, err := t.sessionRepo.List(ctx, timeclock.Filter{OpenOnly: true, ClockInBefore: &cutoff})
	if err != nil {
		return 0, apperror.Repository("list stale sessions", err)
	}

	closed := 0
	for _, candidate := range stale {
		if err := t.closeStale(ctx, candidate, maxOpen); err != nil {
			slog.Error("failed to auto-close session", "session_id", candidate.ID, "employee_id", candidate.EmployeeID, "error", err)
			continue
		}
		closed++
	}
	return closed, nil
}

func (t *timeClockServiceImpl) closeStale(ctx context.Context, candidate timeclock.Session, maxOpen time.Duration) error {
	unlock := t.locks.Lock(clockKey(candidate.EmployeeID))
	defer unlock()

	s, err := t.sessionRepo.GetByID(ctx, candidate.ID)
	if err != nil {
		return err
	}
	if !s.IsOpen() {
		return nil
	}

	closeAt := s.ClockIn.Add(maxOpen)
	if end, ok := t.plannedEnd(ctx, s); ok {
		closeAt = end
	}

	s.Close(closeAt)
	s.ClockOutComment = "Auto-closed: no clock-out recorded"
	updated, err := t.sessionRepo.Update(ctx, s)
	if err != nil {
		return err
	}

	t.notify(ctx, notification.TypeClockOut, updated, []string{s.EmployeeID, notification.AudienceManagers},
		fmt.Sprintf("Session of %s on %s was closed automatically", s.EmployeeID, s.Date))
	return nil
}

func (t *timeClockServiceImpl) plannedEnd(ctx context.Context, s timeclock.Session) (time.Time, bool) {
	if t.plans == nil {
		return time.Time{}, false
	}
	employeeID := s.EmployeeID
	date := s.Date
	shifts, err := t.plans.GetShifts(ctx, shift.Filter{EmployeeID: &employeeID, Date: &date})
	if err != nil {
		return time.Time{}, false
	}

	var latest time.Time
	for _, sh := range shifts {
		if sh.IsCancelled() {
			continue
		}
		if end := sh.EndsAt(t.clock.Location()); end.After(latest) {
			latest = end
		}
	}
	if latest.IsZero() || !latest.After(s.ClockIn) || latest.After(t.clock.Now()) {
		return time.Time{}, false
	}
	return latest, true
}

func (t *timeClockServiceImpl) openSession(ctx context.Context, employeeID string) (timeclock.Session, error) {
	if employeeID == "" {
		return timeclock.Session{}, apperror.Validation("employee ID is required")
	}
	s, err := t.sessionRepo.GetOpen(ctx, employeeID)
	if err != nil {
		return timeclock.Session{}, apperror.Repository("get open session", err)
	}
	return s, nil
}

func (t *timeClockServiceImpl) notify(ctx context.Context, typ notification.NotificationType, s timeclock.Session, recipients []string, message string) {
	t.publisher.Publish(ctx, notification.Notification{
		Type:       typ,
		Recipients: recipients,
		EntityID:   s.ID,
		Message:    message,
		Data:       s,
		OccurredAt: t.clock.Now(),
	})
}
