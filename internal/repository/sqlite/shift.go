package sqlite

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/shift-planner-go/internal/domain/shift"
	"github.com/cmlabs-hris/shift-planner-go/internal/pkg/keylock"
	"gorm.io/gorm"
)

type shiftRepositoryImpl struct {
	db         *gorm.DB
	placements *keylock.Locker
}

// NewShiftRepository migrates the shifts table and returns a gorm-backed repository.
func NewShiftRepository(db *gorm.DB) (shift.ShiftRepository, error) {
	if err := db.AutoMigrate(&shiftModel{}); err != nil {
		return nil, fmt.Errorf("migrate shifts: %w", err)
	}
	return &shiftRepositoryImpl{db: db, placements: keylock.New()}, nil
}

// WithPlacementLock implements shift.ShiftRepository. The embedded file is served by
// one API process, so a repository-owned locker serializes its writers.
func (r *shiftRepositoryImpl) WithPlacementLock(ctx context.Context, keys []string, fn func(ctx context.Context) error) error {
	unlock := r.placements.Lock(keys...)
	defer unlock()
	return fn(ctx)
}

// Create implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) Create(ctx context.Context, s shift.Shift) (shift.Shift, error) {
	s.ID = newID()
	m := shiftToModel(s)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return shift.Shift{}, fmt.Errorf("insert shift: %w", err)
	}
	return s, nil
}

// GetByID implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) GetByID(ctx context.Context, id string) (shift.Shift, error) {
	var m shiftModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return shift.Shift{}, shift.ErrShiftNotFound
		}
		return shift.Shift{}, err
	}
	return m.toEntity(), nil
}

// Update implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) Update(ctx context.Context, s shift.Shift) (shift.Shift, error) {
	m := shiftToModel(s)
	result := r.db.WithContext(ctx).Model(&shiftModel{}).
		Where("id = ?", s.ID).
		Select("*").Omit("id", "created_by", "created_at", "source_shift_id").
		Updates(&m)
	if result.Error != nil {
		return shift.Shift{}, fmt.Errorf("update shift: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shift.Shift{}, shift.ErrShiftNotFound
	}
	return s, nil
}

// Delete implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&shiftModel{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("delete shift: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shift.ErrShiftNotFound
	}
	return nil
}

// List implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) List(ctx context.Context, filter shift.Filter) ([]shift.Shift, error) {
	query := r.db.WithContext(ctx).Model(&shiftModel{})

	if filter.EmployeeID != nil {
		query = query.Where("employee_id = ?", *filter.EmployeeID)
	}
	if len(filter.EmployeeIDs) > 0 {
		query = query.Where("employee_id IN ?", filter.EmployeeIDs)
	}
	if filter.Date != nil {
		query = query.Where("date = ?", filter.Date.String())
	}
	if filter.StartDate != nil {
		query = query.Where("date >= ?", filter.StartDate.String())
	}
	if filter.EndDate != nil {
		query = query.Where("date <= ?", filter.EndDate.String())
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, st := range filter.Statuses {
			statuses[i] = string(st)
		}
		query = query.Where("status IN ?", statuses)
	}

	var models []shiftModel
	if err := query.Order("date, start_minute, id").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list shifts: %w", err)
	}

	shifts := make([]shift.Shift, 0, len(models))
	for _, m := range models {
		shifts = append(shifts, m.toEntity())
	}
	return shifts, nil
}
