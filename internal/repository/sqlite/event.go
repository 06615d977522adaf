package sqlite

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/shift-planner-go/internal/domain/event"
	"gorm.io/gorm"
)

type eventRepositoryImpl struct {
	db *gorm.DB
}

// NewEventRepository migrates the events table and returns a gorm-backed repository.
func NewEventRepository(db *gorm.DB) (event.EventRepository, error) {
	if err := db.AutoMigrate(&eventModel{}); err != nil {
		return nil, fmt.Errorf("migrate events: %w", err)
	}
	return &eventRepositoryImpl{db: db}, nil
}

// Create implements event.EventRepository.
func (r *eventRepositoryImpl) Create(ctx context.Context, e event.Event) (event.Event, error) {
	e.ID = newID()
	m := eventToModel(e)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return event.Event{}, fmt.Errorf("insert event: %w", err)
	}
	return m.toEntity(), nil
}

// GetByID implements event.EventRepository.
func (r *eventRepositoryImpl) GetByID(ctx context.Context, id string) (event.Event, error) {
	var m eventModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return event.Event{}, event.ErrEventNotFound
		}
		return event.Event{}, err
	}
	return m.toEntity(), nil
}

// Update implements event.EventRepository.
func (r *eventRepositoryImpl) Update(ctx context.Context, e event.Event) (event.Event, error) {
	m := eventToModel(e)
	result := r.db.WithContext(ctx).Model(&eventModel{}).
		Where("id = ?", e.ID).
		Select("*").Omit("id", "created_by", "created_at").
		Updates(&m)
	if result.Error != nil {
		return event.Event{}, fmt.Errorf("update event: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return event.Event{}, event.ErrEventNotFound
	}
	return e, nil
}

// Delete implements event.EventRepository.
func (r *eventRepositoryImpl) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&eventModel{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("delete event: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return event.ErrEventNotFound
	}
	return nil
}

// List implements event.EventRepository.
func (r *eventRepositoryImpl) List(ctx context.Context, filter event.Filter) ([]event.Event, error) {
	query := r.db.WithContext(ctx).Model(&eventModel{})

	if !filter.StartDate.IsZero() {
		query = query.Where("end_date >= ?", filter.StartDate.String())
	}
	if !filter.EndDate.IsZero() {
		query = query.Where("start_date <= ?", filter.EndDate.String())
	}
	if filter.Attendee != nil {
		query = query.Where("EXISTS (SELECT 1 FROM json_each(events.attendees) WHERE json_each.value = ?)", *filter.Attendee)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", string(*filter.Type))
	}

	var models []eventModel
	if err := query.Order("start_date, start_minute, id").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	events := make([]event.Event, 0, len(models))
	for _, m := range models {
		events = append(events, m.toEntity())
	}
	return events, nil
}
