package absence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/shift-planner-go/internal/domain/absence"
	"github.com/cmlabs-hris/shift-planner-go/internal/domain/notification"
	"github.com/cmlabs-hris/shift-planner-go/internal/domain/shift"
	"github.com/cmlabs-hris/shift-planner-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/shift-planner-go/internal/pkg/clock"
	"github.com/cmlabs-hris/shift-planner-go/internal/pkg/keylock"
	"github.com/cmlabs-hris/shift-planner-go/internal/service/schedule"
)

// ShiftRemover is the part of the scheduling service the approval cascade needs.
type ShiftRemover interface {
	GetShifts(ctx context.Context, filter shift.Filter) ([]shift.Shift, error)
	DeleteShift(ctx context.Context, id string) error
}

type absenceServiceImpl struct {
	absenceRepo absence.AbsenceRepository
	shifts      ShiftRemover
	clock       clock.Clock
	publisher   notification.Publisher
	locks       *keylock.Locker
}

func NewAbsenceService(
	absenceRepo absence.AbsenceRepository,
	shifts ShiftRemover,
	clk clock.Clock,
	publisher notification.Publisher,
	locks *keylock.Locker,
) absence.AbsenceService {
	if publisher == nil {
		publisher = notification.Nop{}
	}
	if locks == nil {
		locks = keylock.New()
	}
	return &absenceServiceImpl{
		absenceRepo: absenceRepo,
		shifts:      shifts,
		clock:       clk,
		publisher:   publisher,
		locks:       locks,
	}
}

// RequestAbsence implements absence.AbsenceService.
func (s *absenceServiceImpl) RequestAbsence(ctx context.Context, req absence.RequestAbsenceRequest) (absence.Absence, error) {
	if err := req.Validate(); err != nil {
		return absence.Absence{}, err
	}

	a := req.ToEntity()

	unlock := s.locks.Lock("absence-employee:" + a.EmployeeID)
	defer unlock()

	employeeID := a.EmployeeID
	overlapping, err := s.absenceRepo.List(ctx, absence.Filter{
		EmployeeID: &employeeID,
		StartDate:  a.StartDate,
		EndDate:    a.EndDate,
		Statuses:   []absence.Status{absence.StatusPending, absence.StatusApproved},
	})
	if err != nil {
		return absence.Absence{}, apperror.Repository("list absences", err)
	}
	if len(overlapping) > 0 {
		return absence.Absence{}, absence.ErrOverlapping
	}

	a.RequestedAt = s.clock.Now()
	created, err := s.absenceRepo.Create(ctx, a)
	if err != nil {
		return absence.Absence{}, apperror.Repository("create absence", err)
	}

	slog.Info("absence requested",
		"absence_id", created.ID,
		"employee_id", created.EmployeeID,
		"start_date", created.StartDate.String(),
		"end_date", created.EndDate.String(),
		"total_days", created.TotalDays,
	)
	s.publisher.Publish(ctx, notification.Notification{
		Type:       notification.TypeAbsenceRequested,
		Recipients: []string{notification.AudienceManagers},
		EntityID:   created.ID,
		Message: fmt.Sprintf("%s absence requested by %s from %s to %s",
			created.Type, created.EmployeeID, created.StartDate, created.EndDate),
		Data:       created,
		OccurredAt: created.RequestedAt,
	})

	return created, nil
}

// DecideAbsence implements absence.AbsenceService. An approval removes the employee's
// shifts inside the absence; when that cleanup fails the approved absence is returned
// together with a *absence.CascadeError.
func (s *absenceServiceImpl) DecideAbsence(ctx context.Context, id string, req absence.DecideAbsenceRequest, actor string) (absence.Absence, error) {
	if err := req.Validate(); err != nil {
		return absence.Absence{}, err
	}
	if actor == "" {
		return absence.Absence{}, apperror.Validation("deciding actor is required")
	}

	unlock := s.locks.Lock("absence:" + id)
	defer unlock()

	a, err := s.absenceRepo.GetByID(ctx, id)
	if err != nil {
		return absence.Absence{}, apperror.Repository("get absence", err)
	}
	if !a.IsPending() {
		return absence.Absence{}, absence.ErrAlreadyDecided
	}

	if absence.Decision(req.Decision) == absence.DecisionApprove {
		// Hold every day of the absence so no shift can slip in between the approval
		// and the cascade.
		unlockDays := s.locks.Lock(placementKeys(a)...)
		defer unlockDays()
	}

	now := s.clock.Now()
	decidedBy := actor
	a.ApprovedBy = &decidedBy
	a.ApprovedAt = &now
	a.DecisionNotes = req.Notes
	a.Status = absence.StatusRejected
	notifType := notification.TypeAbsenceRejected
	if absence.Decision(req.Decision) == absence.DecisionApprove {
		a.Status = absence.StatusApproved
		notifType = notification.TypeAbsenceApproved
	}

	updated, err := s.absenceRepo.Update(ctx, a)
	if err != nil {
		return absence.Absence{}, apperror.Repository("update absence", err)
	}

	slog.Info("absence decided", "absence_id", updated.ID, "status", updated.Status, "decided_by", actor)
	s.publisher.Publish(ctx, notification.Notification{
		Type:       notifType,
		Recipients: []string{updated.EmployeeID},
		EntityID:   updated.ID,
		Message:    fmt.Sprintf("Your absence from %s to %s was %s", updated.StartDate, updated.EndDate, updated.Status),
		Data:       updated,
		OccurredAt: now,
	})

	if updated.IsApproved() {
		if err := s.cascade(ctx, updated); err != nil {
			return updated, err
		}
	}

	return updated, nil
}

// RetryCascade implements absence.AbsenceService. Shifts already gone are skipped, so
// the cleanup can be repeated until it succeeds.
func (s *absenceServiceImpl) RetryCascade(ctx context.Context, id string) error {
	a, err := s.absenceRepo.GetByID(ctx, id)
	if err != nil {
		return apperror.Repository("get absence", err)
	}
	if !a.IsApproved() {
		return absence.ErrNotApproved
	}
	return s.cascade(ctx, a)
}

func (s *absenceServiceImpl) cascade(ctx context.Context, a absence.Absence) error {
	employeeID := a.EmployeeID
	startDate := a.StartDate
	endDate := a.EndDate

	shifts, err := s.shifts.GetShifts(ctx, shift.Filter{
		EmployeeID: &employeeID,
		StartDate:  &startDate,
		EndDate:    &endDate,
	})
	if err != nil {
		return &absence.CascadeError{AbsenceID: a.ID, Err: apperror.Repository("list shifts", err)}
	}

	var remaining []string
	var firstErr error
	for _, sh := range shifts {
		err := s.shifts.DeleteShift(ctx, sh.ID)
		if err == nil || errors.Is(err, apperror.ErrNotFound) {
			continue
		}
		slog.Error("failed to remove shift covered by absence", "absence_id", a.ID, "shift_id", sh.ID, "error", err)
		remaining = append(remaining, sh.ID)
		if firstErr == nil {
			firstErr = err
		}
	}

	if len(remaining) > 0 {
		return &absence.CascadeError{AbsenceID: a.ID, Remaining: remaining, Err: firstErr}
	}

	slog.Info("absence cascade completed", "absence_id", a.ID, "removed", len(shifts))
	return nil
}

func placementKeys(a absence.Absence) []string {
	keys := make([]string, 0, a.TotalDays)
	for d := a.StartDate; !d.After(a.EndDate); d = d.AddDays(1) {
		keys = append(keys, schedule.PlacementKey(a.EmployeeID, d))
	}
	return keys
}

// GetAbsence implements absence.AbsenceService.
func (s *absenceServiceImpl) GetAbsence(ctx context.Context, id string) (absence.Absence, error) {
	a, err := s.absenceRepo.GetByID(ctx, id)
	if err != nil {
		return absence.Absence{}, apperror.Repository("get absence", err)
	}
	return a, nil
}

// ListAbsences implements absence.AbsenceService.
func (s *absenceServiceImpl) ListAbsences(ctx context.Context, filter absence.Filter) ([]absence.Absence, error) {
	absences, err := s.absenceRepo.List(ctx, filter)
	if err != nil {
		return nil, apperror.Repository("list absences", err)
	}
	return absences, nil
}
