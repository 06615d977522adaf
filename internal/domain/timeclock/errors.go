package timeclock

import "github.com/cmlabs-hris/shift-planner-go/internal/pkg/apperror"

// Time clock domain errors
var (
	ErrAlreadyClockedIn = apperror.State("a session is already open for this employee")
	ErrNotClockedIn     = apperror.State("no open session for this employee")
	ErrBreakAlreadyOpen = apperror.State("a break is already open")
	ErrNoOpenBreak      = apperror.State("no open break to end")
	ErrSessionOpen      = apperror.State("session is still open")

	ErrSessionNotFound = apperror.NotFound("time clock session not found")
)
