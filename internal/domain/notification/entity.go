package notification

import (
	"time"
)

// NotificationType names a change the planning core emits.
type NotificationType string

const (
	TypeShiftCreated      NotificationType = "shift.created"
	TypeShiftModified     NotificationType = "shift.modified"
	TypeShiftCancelled    NotificationType = "shift.cancelled"
	TypeAbsenceRequested  NotificationType = "absence.requested"
	TypeAbsenceApproved   NotificationType = "absence.approved"
	TypeAbsenceRejected   NotificationType = "absence.rejected"
	TypeLateArrival       NotificationType = "attendance.late"
	TypeBreakStarted      NotificationType = "attendance.break_started"
	TypeBreakEnded        NotificationType = "attendance.break_ended"
	TypeClockIn           NotificationType = "attendance.clock_in"
	TypeClockOut          NotificationType = "attendance.clock_out"
	TypeTrainingCompleted NotificationType = "attendance.training_completed"
)

// AllNotificationTypes returns all available notification types
func AllNotificationTypes() []NotificationType {
	return []NotificationType{
		TypeShiftCreated,
		TypeShiftModified,
		TypeShiftCancelled,
		TypeAbsenceRequested,
		TypeAbsenceApproved,
		TypeAbsenceRejected,
		TypeLateArrival,
		TypeBreakStarted,
		TypeBreakEnded,
		TypeClockIn,
		TypeClockOut,
		TypeTrainingCompleted,
	}
}

// AudienceManagers is the recipient key every manager subscribes to.
const AudienceManagers = "role:manager"

// Notification is a domain change addressed to one or more recipients. A recipient is
// an employee id or an audience key such as AudienceManagers.
type Notification struct {
	ID         string           `json:"id"`
	Type       NotificationType `json:"type"`
	Recipients []string         `json:"recipients"`
	EntityID   string           `json:"entity_id"`
	Message    string           `json:"message"`
	Data       interface{}      `json:"data,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
}

type SSETokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}
