package sqlite

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/shift-planner-go/internal/domain/absence"
	"gorm.io/gorm"
)

type absenceRepositoryImpl struct {
	db *gorm.DB
}

// NewAbsenceRepository migrates the absences table and returns a gorm-backed repository.
func NewAbsenceRepository(db *gorm.DB) (absence.AbsenceRepository, error) {
	if err := db.AutoMigrate(&absenceModel{}); err != nil {
		return nil, fmt.Errorf("migrate absences: %w", err)
	}
	return &absenceRepositoryImpl{db: db}, nil
}

// Create implements absence.AbsenceRepository.
func (r *absenceRepositoryImpl) Create(ctx context.Context, a absence.Absence) (absence.Absence, error) {
	a.ID = newID()
	m := absenceToModel(a)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return absence.Absence{}, fmt.Errorf("insert absence: %w", err)
	}
	return a, nil
}

// GetByID implements absence.AbsenceRepository.
func (r *absenceRepositoryImpl) GetByID(ctx context.Context, id string) (absence.Absence, error) {
	var m absenceModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return absence.Absence{}, absence.ErrAbsenceNotFound
		}
		return absence.Absence{}, err
	}
	return m.toEntity(), nil
}

// Update implements absence.AbsenceRepository.
func (r *absenceRepositoryImpl) Update(ctx context.Context, a absence.Absence) (absence.Absence, error) {
	m := absenceToModel(a)
	result := r.db.WithContext(ctx).Model(&absenceModel{}).
		Where("id = ?", a.ID).
		Select("*").Omit("id", "employee_id", "requested_by", "requested_at").
		Updates(&m)
	if result.Error != nil {
		return absence.Absence{}, fmt.Errorf("update absence: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return absence.Absence{}, absence.ErrAbsenceNotFound
	}
	return a, nil
}

// Delete implements absence.AbsenceRepository.
func (r *absenceRepositoryImpl) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&absenceModel{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("delete absence: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return absence.ErrAbsenceNotFound
	}
	return nil
}

// List implements absence.AbsenceRepository.
func (r *absenceRepositoryImpl) List(ctx context.Context, filter absence.Filter) ([]absence.Absence, error) {
	query := r.db.WithContext(ctx).Model(&absenceModel{})

	if filter.EmployeeID != nil {
		query = query.Where("employee_id = ?", *filter.EmployeeID)
	}
	if !filter.StartDate.IsZero() {
		query = query.Where("end_date >= ?", filter.StartDate.String())
	}
	if !filter.EndDate.IsZero() {
		query = query.Where("start_date <= ?", filter.EndDate.String())
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, st := range filter.Statuses {
			statuses[i] = string(st)
		}
		query = query.Where("status IN ?", statuses)
	}

	var models []absenceModel
	if err := query.Order("start_date, requested_at, id").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list absences: %w", err)
	}

	absences := make([]absence.Absence, 0, len(models))
	for _, m := range models {
		absences = append(absences, m.toEntity())
	}
	return absences, nil
}
