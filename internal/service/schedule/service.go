package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/shift-planner-go/internal/domain/absence"
	"github.com/cmlabs-hris/shift-planner-go/internal/domain/notification"
	"github.com/cmlabs-hris/shift-planner-go/internal/domain/shift"
	"github.com/cmlabs-hris/shift-planner-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/shift-planner-go/internal/pkg/clock"
	"github.com/cmlabs-hris/shift-planner-go/internal/pkg/keylock"
	"github.com/cmlabs-hris/shift-planner-go/internal/service/conflict"
)

// maxPlacementRetries bounds how often UpdateShift re-reads a shift that was moved by
// a concurrent writer between the read and the lock.
const maxPlacementRetries = 3

type scheduleServiceImpl struct {
	shiftRepo   shift.ShiftRepository
	absenceRepo absence.AbsenceRepository
	detector    conflict.Detector
	clock       clock.Clock
	publisher   notification.Publisher
	locks       *keylock.Locker
}

func NewScheduleService(
	shiftRepo shift.ShiftRepository,
	absenceRepo absence.AbsenceRepository,
	detector conflict.Detector,
	clk clock.Clock,
	publisher notification.Publisher,
	locks *keylock.Locker,
) shift.ShiftService {
	if publisher == nil {
		publisher = notification.Nop{}
	}
	if locks == nil {
		locks = keylock.New()
	}
	return &scheduleServiceImpl{
		shiftRepo:   shiftRepo,
		absenceRepo: absenceRepo,
		detector:    detector,
		clock:       clk,
		publisher:   publisher,
		locks:       locks,
	}
}

// PlacementKey is the serialization key for shift writes of one employee on one day.
func PlacementKey(employeeID string, date clock.Date) string {
	return "shift:" + employeeID + ":" + date.String()
}

// CreateShift implements shift.ShiftService.
func (s *scheduleServiceImpl) CreateShift(ctx context.Context, req shift.CreateShiftRequest) (shift.Shift, error) {
	if err := req.Validate(); err != nil {
		return shift.Shift{}, err
	}

	candidate := req.ToEntity()

	var created shift.Shift
	err := s.withPlacement(ctx, []string{PlacementKey(candidate.EmployeeID, candidate.Date)}, func(ctx context.Context) error {
		if !candidate.IsCancelled() {
			conflicts, err := s.CheckConflicts(ctx, candidate, "")
			if err != nil {
				return err
			}
			if len(conflicts) > 0 {
				if !req.Override {
					return &shift.ConflictError{Conflicts: conflicts}
				}
				slog.Warn("shift conflicts overridden",
					"employee_id", candidate.EmployeeID,
					"date", candidate.Date.String(),
					"conflicts", len(conflicts),
				)
			}
		}

		candidate.CreatedAt = s.clock.Now()
		var err error
		created, err = s.shiftRepo.Create(ctx, candidate)
		if err != nil {
			return apperror.Repository("create shift", err)
		}
		return nil
	})
	if err != nil {
		return shift.Shift{}, err
	}

	slog.Info("shift created",
		"shift_id", created.ID,
		"employee_id", created.EmployeeID,
		"date", created.Date.String(),
		"total_hours", created.TotalHours,
	)
	s.notify(ctx, notification.TypeShiftCreated, created,
		fmt.Sprintf("New shift on %s from %s to %s", created.Date, created.StartTime, created.EndTime))

	return created, nil
}

// UpdateShift implements shift.ShiftService.
func (s *scheduleServiceImpl) UpdateShift(ctx context.Context, id string, req shift.UpdateShiftRequest) (shift.Shift, error) {
	if err := req.Validate(); err != nil {
		return shift.Shift{}, err
	}
	if req.IsEmpty() {
		return shift.Shift{}, apperror.Validation("no fields to update")
	}

	for attempt := 0; ; attempt++ {
		current, err := s.shiftRepo.GetByID(ctx, id)
		if err != nil {
			return shift.Shift{}, apperror.Repository("get shift", err)
		}

		updated := current
		if err := req.Apply(&updated); err != nil {
			return shift.Shift{}, err
		}

		keys := []string{
			PlacementKey(current.EmployeeID, current.Date),
			PlacementKey(updated.EmployeeID, updated.Date),
		}

		var saved shift.Shift
		moved := false
		err = s.withPlacement(ctx, keys, func(ctx context.Context) error {
			latest, err := s.shiftRepo.GetByID(ctx, id)
			if err != nil {
				return apperror.Repository("get shift", err)
			}
			if latest.EmployeeID != current.EmployeeID || latest.Date != current.Date {
				moved = true
				return nil
			}
			current = latest
			saved, err = s.commitUpdate(ctx, latest, req)
			return err
		})
		if err != nil {
			return shift.Shift{}, err
		}
		if moved {
			if attempt >= maxPlacementRetries {
				return shift.Shift{}, apperror.State("shift is being modified concurrently, retry later")
			}
			continue
		}

		s.notifyUpdated(ctx, current, saved)
		return saved, nil
	}
}

func (s *scheduleServiceImpl) commitUpdate(ctx context.Context, current shift.Shift, req shift.UpdateShiftRequest) (shift.Shift, error) {
	updated := current
	if err := req.Apply(&updated); err != nil {
		return shift.Shift{}, err
	}

	reactivated := current.IsCancelled() && !updated.IsCancelled()
	if !updated.IsCancelled() && (req.AffectsPlacement() || reactivated) {
		conflicts, err := s.CheckConflicts(ctx, updated, updated.ID)
		if err != nil {
			return shift.Shift{}, err
		}
		if len(conflicts) > 0 && !req.Override {
			return shift.Shift{}, &shift.ConflictError{Conflicts: conflicts}
		}
	}

	now := s.clock.Now()
	updated.ModifiedAt = &now
	if req.ModifiedBy != "" {
		modifiedBy := req.ModifiedBy
		updated.ModifiedBy = &modifiedBy
	}

	saved, err := s.shiftRepo.Update(ctx, updated)
	if err != nil {
		return shift.Shift{}, apperror.Repository("update shift", err)
	}

	slog.Info("shift updated", "shift_id", saved.ID, "employee_id", saved.EmployeeID, "status", saved.Status)
	return saved, nil
}

func (s *scheduleServiceImpl) notifyUpdated(ctx context.Context, previous, saved shift.Shift) {
	if saved.IsCancelled() && !previous.IsCancelled() {
		s.notify(ctx, notification.TypeShiftCancelled, saved,
			fmt.Sprintf("Your shift on %s was cancelled", saved.Date))
	} else {
		s.notify(ctx, notification.TypeShiftModified, saved,
			fmt.Sprintf("Your shift on %s is now %s to %s", saved.Date, saved.StartTime, saved.EndTime))
	}
	if saved.EmployeeID != previous.EmployeeID {
		s.notify(ctx, notification.TypeShiftCancelled, previous,
			fmt.Sprintf("Your shift on %s was reassigned", previous.Date))
	}
}

// DeleteShift implements shift.ShiftService.
func (s *scheduleServiceImpl) DeleteShift(ctx context.Context, id string) error {
	existing, err := s.shiftRepo.GetByID(ctx, id)
	if err != nil {
		return apperror.Repository("get shift", err)
	}

	if err := s.shiftRepo.Delete(ctx, id); err != nil {
		return apperror.Repository("delete shift", err)
	}

	slog.Info("shift deleted", "shift_id", id, "employee_id", existing.EmployeeID, "date", existing.Date.String())
	s.notify(ctx, notification.TypeShiftCancelled, existing,
		fmt.Sprintf("Your shift on %s was removed", existing.Date))
	return nil
}

// DuplicateShifts implements shift.ShiftService. Every source shift is validated and
// stored on its own; conflicts skip that shift without aborting the batch.
func (s *scheduleServiceImpl) DuplicateShifts(ctx context.Context, req shift.DuplicateShiftsRequest) (shift.DuplicateResult, error) {
	if err := req.Validate(); err != nil {
		return shift.DuplicateResult{}, err
	}

	sourceDate, _ := clock.ParseDate(req.SourceWeek)
	targetDate, _ := clock.ParseDate(req.TargetWeek)
	sourceStart := sourceDate.MondayOf()
	targetStart := targetDate.MondayOf()
	offset := sourceStart.DaysUntil(targetStart)
	if offset == 0 {
		return shift.DuplicateResult{}, apperror.Validation("source and target weeks must differ")
	}

	sourceEnd := sourceStart.AddDays(6)
	sources, err := s.shiftRepo.List(ctx, shift.Filter{
		StartDate:   &sourceStart,
		EndDate:     &sourceEnd,
		EmployeeIDs: req.EmployeeIDs,
	})
	if err != nil {
		return shift.DuplicateResult{}, apperror.Repository("list source shifts", err)
	}

	result := shift.DuplicateResult{
		SourceWeekStart: sourceStart,
		TargetWeekStart: targetStart,
		OffsetDays:      offset,
		Created:         make([]shift.Shift, 0, len(sources)),
		Skipped:         make([]shift.SkippedShift, 0),
	}

	for _, src := range sources {
		created, skipped := s.duplicateOne(ctx, src, offset, req.CreatedBy)
		if skipped != nil {
			result.Skipped = append(result.Skipped, *skipped)
			continue
		}
		result.Created = append(result.Created, created)
	}

	slog.Info("shifts duplicated",
		"source_week", sourceStart.String(),
		"target_week", targetStart.String(),
		"created", len(result.Created),
		"skipped", len(result.Skipped),
	)

	return result, nil
}

func (s *scheduleServiceImpl) duplicateOne(ctx context.Context, src shift.Shift, offset int, createdBy string) (shift.Shift, *shift.SkippedShift) {
	sourceID := src.ID
	candidate := shift.Shift{
		EmployeeID:    src.EmployeeID,
		Date:          src.Date.AddDays(offset),
		StartTime:     src.StartTime,
		EndTime:       src.EndTime,
		BreakMinutes:  src.BreakMinutes,
		Position:      src.Position,
		Status:        shift.StatusScheduled,
		Notes:         src.Notes,
		SourceShiftID: &sourceID,
		CreatedBy:     createdBy,
	}
	candidate.Recompute()

	skip := func(reason string, conflicts []shift.Conflict) *shift.SkippedShift {
		return &shift.SkippedShift{
			SourceShiftID: src.ID,
			EmployeeID:    src.EmployeeID,
			TargetDate:    candidate.Date,
			Reason:        reason,
			Conflicts:     conflicts,
		}
	}

	if src.IsCancelled() {
		return shift.Shift{}, skip("source shift is cancelled", nil)
	}

	var (
		created  shift.Shift
		skipped  *shift.SkippedShift
		blocking []shift.Conflict
	)
	err := s.withPlacement(ctx, []string{PlacementKey(candidate.EmployeeID, candidate.Date)}, func(ctx context.Context) error {
		conflicts, err := s.CheckConflicts(ctx, candidate, "")
		if err != nil {
			return err
		}
		// The source was already accepted at its length, so only overlaps and
		// absences block the copy.
		for _, c := range conflicts {
			if c.Kind != shift.ConflictLegalLimit {
				blocking = append(blocking, c)
			}
		}
		if len(blocking) > 0 {
			skipped = skip((&shift.ConflictError{Conflicts: blocking}).Error(), blocking)
			return nil
		}

		candidate.CreatedAt = s.clock.Now()
		created, err = s.shiftRepo.Create(ctx, candidate)
		if err != nil {
			slog.Error("failed to store duplicated shift", "source_shift_id", src.ID, "error", err)
			return apperror.Repository("create shift", err)
		}
		return nil
	})
	if err != nil {
		return shift.Shift{}, skip(err.Error(), nil)
	}
	if skipped != nil {
		return shift.Shift{}, skipped
	}

	s.notify(ctx, notification.TypeShiftCreated, created,
		fmt.Sprintf("New shift on %s from %s to %s", created.Date, created.StartTime, created.EndTime))
	return created, nil
}

// withPlacement serializes a check-then-write on the given placement keys, first in
// this process and then in the store so other processes sharing it wait as well.
// Errors returned by fn pass through unchanged.
func (s *scheduleServiceImpl) withPlacement(ctx context.Context, keys []string, fn func(ctx context.Context) error) error {
	unlock := s.locks.Lock(keys...)
	defer unlock()

	var fnErr error
	err := s.shiftRepo.WithPlacementLock(ctx, keys, func(ctx context.Context) error {
		fnErr = fn(ctx)
		return fnErr
	})
	if fnErr != nil {
		return fnErr
	}
	if err != nil {
		return apperror.Repository("lock shift placement", err)
	}
	return nil
}

// GetShift implements shift.ShiftService.
func (s *scheduleServiceImpl) GetShift(ctx context.Context, id string) (shift.Shift, error) {
	found, err := s.shiftRepo.GetByID(ctx, id)
	if err != nil {
		return shift.Shift{}, apperror.Repository("get shift", err)
	}
	return found, nil
}

// GetShifts implements shift.ShiftService.
func (s *scheduleServiceImpl) GetShifts(ctx context.Context, filter shift.Filter) ([]shift.Shift, error) {
	shifts, err := s.shiftRepo.List(ctx, filter)
	if err != nil {
		return nil, apperror.Repository("list shifts", err)
	}
	return shifts, nil
}

// CheckConflicts implements shift.ShiftService. It loads the employee's shifts and
// approved absences for the candidate's day and runs the detector over them.
func (s *scheduleServiceImpl) CheckConflicts(ctx context.Context, candidate shift.Shift, excludingID string) ([]shift.Conflict, error) {
	employeeID := candidate.EmployeeID
	date := candidate.Date

	existing, err := s.shiftRepo.List(ctx, shift.Filter{EmployeeID: &employeeID, Date: &date})
	if err != nil {
		return nil, apperror.Repository("list shifts", err)
	}

	absences, err := s.absenceRepo.List(ctx, absence.Filter{
		EmployeeID: &employeeID,
		StartDate:  date,
		EndDate:    date,
		Statuses:   []absence.Status{absence.StatusApproved},
	})
	if err != nil {
		return nil, apperror.Repository("list absences", err)
	}

	return s.detector.Check(candidate, excludingID, existing, absences), nil
}

// PlannedStart implements shift.ShiftService.
func (s *scheduleServiceImpl) PlannedStart(ctx context.Context, employeeID string, date clock.Date) (time.Time, bool, error) {
	shifts, err := s.shiftRepo.List(ctx, shift.Filter{EmployeeID: &employeeID, Date: &date})
	if err != nil {
		return time.Time{}, false, apperror.Repository("list shifts", err)
	}

	for _, sh := range shifts {
		if sh.IsCancelled() {
			continue
		}
		// List is ordered by start time, so the first active shift is the earliest.
		return sh.StartsAt(s.clock.Location()), true, nil
	}
	return time.Time{}, false, nil
}

func (s *scheduleServiceImpl) notify(ctx context.Context, t notification.NotificationType, sh shift.Shift, message string) {
	s.publisher.Publish(ctx, notification.Notification{
		Type:       t,
		Recipients: []string{sh.EmployeeID},
		EntityID:   sh.ID,
		Message:    message,
		Data:       sh,
		OccurredAt: s.clock.Now(),
	})
}
