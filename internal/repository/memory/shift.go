package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/cmlabs-hris/shift-planner-go/internal/domain/shift"
	"github.com/cmlabs-hris/shift-planner-go/internal/pkg/keylock"
	"github.com/google/uuid"
)

type shiftRepository struct {
	mu         sync.RWMutex
	shifts     map[string]shift.Shift
	placements *keylock.Locker
}

func NewShiftRepository() shift.ShiftRepository {
	return &shiftRepository{
		shifts:     make(map[string]shift.Shift),
		placements: keylock.New(),
	}
}

// WithPlacementLock implements shift.ShiftRepository. The map lives in one process,
// so a repository-owned locker covers every service sharing it.
func (r *shiftRepository) WithPlacementLock(ctx context.Context, keys []string, fn func(ctx context.Context) error) error {
	unlock := r.placements.Lock(keys...)
	defer unlock()
	return fn(ctx)
}

// Create implements shift.ShiftRepository.
func (r *shiftRepository) Create(ctx context.Context, s shift.Shift) (shift.Shift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	r.shifts[s.ID] = s
	return s, nil
}

// GetByID implements shift.ShiftRepository.
func (r *shiftRepository) GetByID(ctx context.Context, id string) (shift.Shift, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.shifts[id]
	if !ok {
		return shift.Shift{}, shift.ErrShiftNotFound
	}
	return s, nil
}

// Update implements shift.ShiftRepository.
func (r *shiftRepository) Update(ctx context.Context, s shift.Shift) (shift.Shift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.shifts[s.ID]; !ok {
		return shift.Shift{}, shift.ErrShiftNotFound
	}
	r.shifts[s.ID] = s
	return s, nil
}

// Delete implements shift.ShiftRepository.
func (r *shiftRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.shifts[id]; !ok {
		return shift.ErrShiftNotFound
	}
	delete(r.shifts, id)
	return nil
}

// List implements shift.ShiftRepository.
func (r *shiftRepository) List(ctx context.Context, filter shift.Filter) ([]shift.Shift, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]shift.Shift, 0)
	for _, s := range r.shifts {
		if filter.Matches(s) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date.Before(out[j].Date)
		}
		if out[i].StartTime != out[j].StartTime {
			return out[i].StartTime < out[j].StartTime
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
