package sqlite

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/cmlabs-hris/shift-planner-go/internal/domain/timeclock"
	"gorm.io/gorm"
)

const openSessionIndex = `CREATE UNIQUE INDEX IF NOT EXISTS idx_sessions_one_open
	ON timeclock_sessions (employee_id) WHERE clock_out IS NULL`

type sessionRepositoryImpl struct {
	db *gorm.DB
}

// NewSessionRepository migrates the sessions table and adds the partial unique index
// that keeps one open session per employee.
func NewSessionRepository(db *gorm.DB) (timeclock.SessionRepository, error) {
	if err := db.AutoMigrate(&sessionModel{}); err != nil {
		return nil, fmt.Errorf("migrate timeclock_sessions: %w", err)
	}
	if err := db.Exec(openSessionIndex).Error; err != nil {
		return nil, fmt.Errorf("create open session index: %w", err)
	}
	return &sessionRepositoryImpl{db: db}, nil
}

// Create implements timeclock.SessionRepository.
func (r *sessionRepositoryImpl) Create(ctx context.Context, s timeclock.Session) (timeclock.Session, error) {
	s.ID = newID()
	m := sessionToModel(s)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if isUniqueViolation(err) {
			return timeclock.Session{}, timeclock.ErrAlreadyClockedIn
		}
		return timeclock.Session{}, fmt.Errorf("insert session: %w", err)
	}
	return m.toEntity(), nil
}

// GetByID implements timeclock.SessionRepository.
func (r *sessionRepositoryImpl) GetByID(ctx context.Context, id string) (timeclock.Session, error) {
	var m sessionModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return timeclock.Session{}, timeclock.ErrSessionNotFound
		}
		return timeclock.Session{}, err
	}
	return m.toEntity(), nil
}

// GetOpen implements timeclock.SessionRepository.
func (r *sessionRepositoryImpl) GetOpen(ctx context.Context, employeeID string) (timeclock.Session, error) {
	var m sessionModel
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND clock_out IS NULL", employeeID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return timeclock.Session{}, timeclock.ErrNotClockedIn
		}
		return timeclock.Session{}, err
	}
	return m.toEntity(), nil
}

// Update implements timeclock.SessionRepository.
func (r *sessionRepositoryImpl) Update(ctx context.Context, s timeclock.Session) (timeclock.Session, error) {
	m := sessionToModel(s)
	result := r.db.WithContext(ctx).Model(&sessionModel{}).
		Where("id = ?", s.ID).
		Select("*").Omit("id", "employee_id", "is_training").
		Updates(&m)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return timeclock.Session{}, timeclock.ErrAlreadyClockedIn
		}
		return timeclock.Session{}, fmt.Errorf("update session: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return timeclock.Session{}, timeclock.ErrSessionNotFound
	}
	return m.toEntity(), nil
}

// List implements timeclock.SessionRepository. The clock-in bound and ordering are
// applied on the decoded instants rather than on SQLite's text timestamps.
func (r *sessionRepositoryImpl) List(ctx context.Context, filter timeclock.Filter) ([]timeclock.Session, error) {
	query := r.db.WithContext(ctx).Model(&sessionModel{})

	if filter.EmployeeID != nil {
		query = query.Where("employee_id = ?", *filter.EmployeeID)
	}
	if !filter.StartDate.IsZero() {
		query = query.Where("date >= ?", filter.StartDate.String())
	}
	if !filter.EndDate.IsZero() {
		query = query.Where("date <= ?", filter.EndDate.String())
	}
	if filter.OpenOnly {
		query = query.Where("clock_out IS NULL")
	}

	var models []sessionModel
	if err := query.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	sessions := make([]timeclock.Session, 0, len(models))
	for _, m := range models {
		s := m.toEntity()
		if filter.Matches(s) {
			sessions = append(sessions, s)
		}
	}
	sort.SliceStable(sessions, func(i, j int) bool {
		if !sessions[i].ClockIn.Equal(sessions[j].ClockIn) {
			return sessions[i].ClockIn.After(sessions[j].ClockIn)
		}
		return sessions[i].ID < sessions[j].ID
	})
	return sessions, nil
}
