package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/cmlabs-hris/shift-planner-go/internal/domain/absence"
	"github.com/google/uuid"
)

type absenceRepository struct {
	mu       sync.RWMutex
	absences map[string]absence.Absence
}

func NewAbsenceRepository() absence.AbsenceRepository {
	return &absenceRepository{absences: make(map[string]absence.Absence)}
}

func (r *absenceRepository) Create(ctx context.Context, a absence.Absence) (absence.Absence, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	r.absences[a.ID] = a
	return a, nil
}

func (r *absenceRepository) GetByID(ctx context.Context, id string) (absence.Absence, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.absences[id]
	if !ok {
		return absence.Absence{}, absence.ErrAbsenceNotFound
	}
	return a, nil
}

func (r *absenceRepository) Update(ctx context.Context, a absence.Absence) (absence.Absence, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.absences[a.ID]; !ok {
		return absence.Absence{}, absence.ErrAbsenceNotFound
	}
	r.absences[a.ID] = a
	return a, nil
}

func (r *absenceRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.absences[id]; !ok {
		return absence.ErrAbsenceNotFound
	}
	delete(r.absences, id)
	return nil
}

func (r *absenceRepository) List(ctx context.Context, filter absence.Filter) ([]absence.Absence, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]absence.Absence, 0)
	for _, a := range r.absences {
		if filter.Matches(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartDate != out[j].StartDate {
			return out[i].StartDate.Before(out[j].StartDate)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
