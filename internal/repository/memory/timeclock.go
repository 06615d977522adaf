package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/cmlabs-hris/shift-planner-go/internal/domain/timeclock"
	"github.com/google/uuid"
)

// sessionRepository keeps the single-open-session rule under its own mutex, so two
// racing clock-ins for one employee cannot both be stored.
type sessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]timeclock.Session
}

func NewSessionRepository() timeclock.SessionRepository {
	return &sessionRepository{sessions: make(map[string]timeclock.Session)}
}

func (r *sessionRepository) Create(ctx context.Context, s timeclock.Session) (timeclock.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s.IsOpen() {
		if _, ok := r.openLocked(s.EmployeeID); ok {
			return timeclock.Session{}, timeclock.ErrAlreadyClockedIn
		}
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	s.Breaks = cloneBreaks(s.Breaks)
	r.sessions[s.ID] = s
	return s, nil
}

func (r *sessionRepository) GetByID(ctx context.Context, id string) (timeclock.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return timeclock.Session{}, timeclock.ErrSessionNotFound
	}
	s.Breaks = cloneBreaks(s.Breaks)
	return s, nil
}

func (r *sessionRepository) GetOpen(ctx context.Context, employeeID string) (timeclock.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.openLocked(employeeID)
	if !ok {
		return timeclock.Session{}, timeclock.ErrNotClockedIn
	}
	s.Breaks = cloneBreaks(s.Breaks)
	return s, nil
}

func (r *sessionRepository) Update(ctx context.Context, s timeclock.Session) (timeclock.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[s.ID]; !ok {
		return timeclock.Session{}, timeclock.ErrSessionNotFound
	}
	if s.IsOpen() {
		if open, ok := r.openLocked(s.EmployeeID); ok && open.ID != s.ID {
			return timeclock.Session{}, timeclock.ErrAlreadyClockedIn
		}
	}
	s.Breaks = cloneBreaks(s.Breaks)
	r.sessions[s.ID] = s
	return s, nil
}

func (r *sessionRepository) List(ctx context.Context, filter timeclock.Filter) ([]timeclock.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]timeclock.Session, 0)
	for _, s := range r.sessions {
		if filter.Matches(s) {
			s.Breaks = cloneBreaks(s.Breaks)
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ClockIn.Equal(out[j].ClockIn) {
			return out[i].ClockIn.After(out[j].ClockIn)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *sessionRepository) openLocked(employeeID string) (timeclock.Session, bool) {
	for _, s := range r.sessions {
		if s.EmployeeID == employeeID && s.IsOpen() {
			return s, true
		}
	}
	return timeclock.Session{}, false
}

func cloneBreaks(in []timeclock.Break) []timeclock.Break {
	out := make([]timeclock.Break, len(in))
	copy(out, in)
	return out
}
