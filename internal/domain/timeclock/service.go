package timeclock

import (
	"context"
	"time"
)

type TimeClockService interface {
	ClockIn(ctx context.Context, req ClockInRequest) (Session, error)
	StartBreak(ctx context.Context, employeeID, reason string) (Session, error)
	EndBreak(ctx context.Context, employeeID string) (Session, error)
	ClockOut(ctx context.Context, employeeID, comment string) (Session, error)
	ClockTraining(ctx context.Context, employeeID, comment string) (Session, error)
	GetCurrentSession(ctx context.Context, employeeID string) (Session, error)
	GetTimeEntries(ctx context.Context, filter Filter) ([]Session, error)
	ComputeStats(entries []Session) Stats
	CorrectSession(ctx context.Context, id string, req CorrectSessionRequest, actor string) (Session, error)
	CloseStaleSessions(ctx context.Context, maxOpen time.Duration) (int, error)
}
