package user

type Permission string

const (
	// Schedule
	PermissionScheduleView   Permission = "schedule.view"
	PermissionScheduleManage Permission = "schedule.manage"
	PermissionEventManage    Permission = "event.manage"

	// Absences
	PermissionAbsenceRequest Permission = "absence.request"
	PermissionAbsenceViewAll Permission = "absence.view_all"
	PermissionAbsenceDecide  Permission = "absence.decide"

	// Time clock
	PermissionTimeClockUse     Permission = "timeclock.use"
	PermissionTimeClockViewAll Permission = "timeclock.view_all"
	PermissionTimeClockCorrect Permission = "timeclock.correct"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleOwner: {
		PermissionScheduleView,
		PermissionScheduleManage,
		PermissionEventManage,
		PermissionAbsenceRequest,
		PermissionAbsenceViewAll,
		PermissionAbsenceDecide,
		PermissionTimeClockUse,
		PermissionTimeClockViewAll,
		PermissionTimeClockCorrect,
	},
	RoleManager: {
		PermissionScheduleView,
		PermissionScheduleManage,
		PermissionEventManage,
		PermissionAbsenceRequest,
		PermissionAbsenceViewAll,
		PermissionAbsenceDecide,
		PermissionTimeClockUse,
		PermissionTimeClockViewAll,
		PermissionTimeClockCorrect,
	},
	RoleEmployee: {
		PermissionScheduleView,
		PermissionAbsenceRequest,
		PermissionTimeClockUse,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
