package timeclock

import (
	"context"
)

// SessionRepository - interface for the timeclock_sessions collection
type SessionRepository interface {
	// Create fails with ErrAlreadyClockedIn when s is open and another open session
	// exists for the same employee.
	Create(ctx context.Context, s Session) (Session, error)
	GetByID(ctx context.Context, id string) (Session, error)
	// GetOpen returns the open session of the employee or ErrNotClockedIn.
	GetOpen(ctx context.Context, employeeID string) (Session, error)
	Update(ctx context.Context, s Session) (Session, error)
	// List returns matching sessions ordered by clock-in, newest first.
	List(ctx context.Context, filter Filter) ([]Session, error)
}
