package schedule

import (
	"context"
	"log/slog"

	"github.com/cmlabs-hris/shift-planner-go/internal/domain/event"
	"github.com/cmlabs-hris/shift-planner-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/shift-planner-go/internal/pkg/clock"
)

type eventServiceImpl struct {
	eventRepo event.EventRepository
	clock     clock.Clock
}

func NewEventService(eventRepo event.EventRepository, clk clock.Clock) event.EventService {
	return &eventServiceImpl{eventRepo: eventRepo, clock: clk}
}

// CreateEvent implements event.EventService.
func (s *eventServiceImpl) CreateEvent(ctx context.Context, req event.CreateEventRequest) (event.Event, error) {
	if err := req.Validate(); err != nil {
		return event.Event{}, err
	}

	e := req.ToEntity()
	e.CreatedAt = s.clock.Now()

	created, err := s.eventRepo.Create(ctx, e)
	if err != nil {
		return event.Event{}, apperror.Repository("create event", err)
	}

	slog.Info("event created", "event_id", created.ID, "type", created.Type, "start_date", created.StartDate.String())
	return created, nil
}

// UpdateEvent implements event.EventService.
func (s *eventServiceImpl) UpdateEvent(ctx context.Context, id string, req event.UpdateEventRequest) (event.Event, error) {
	if err := req.Validate(); err != nil {
		return event.Event{}, err
	}

	existing, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return event.Event{}, apperror.Repository("get event", err)
	}

	if err := req.Apply(&existing); err != nil {
		return event.Event{}, err
	}
	now := s.clock.Now()
	existing.ModifiedAt = &now
	if req.ModifiedBy != "" {
		modifiedBy := req.ModifiedBy
		existing.ModifiedBy = &modifiedBy
	}

	updated, err := s.eventRepo.Update(ctx, existing)
	if err != nil {
		return event.Event{}, apperror.Repository("update event", err)
	}
	return updated, nil
}

// DeleteEvent implements event.EventService.
func (s *eventServiceImpl) DeleteEvent(ctx context.Context, id string) error {
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return apperror.Repository("delete event", err)
	}
	slog.Info("event deleted", "event_id", id)
	return nil
}

// GetEvent implements event.EventService.
func (s *eventServiceImpl) GetEvent(ctx context.Context, id string) (event.Event, error) {
	e, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return event.Event{}, apperror.Repository("get event", err)
	}
	return e, nil
}

// ListEvents implements event.EventService.
func (s *eventServiceImpl) ListEvents(ctx context.Context, filter event.Filter) ([]event.Event, error) {
	if !filter.StartDate.IsZero() && !filter.EndDate.IsZero() && filter.EndDate.Before(filter.StartDate) {
		return nil, apperror.Validation("end_date must be on or after start_date")
	}
	events, err := s.eventRepo.List(ctx, filter)
	if err != nil {
		return nil, apperror.Repository("list events", err)
	}
	return events, nil
}
