package user

type Role string

const (
	RoleOwner    Role = "owner"    // Site owner - full access
	RoleManager  Role = "manager"  // Plans shifts, decides absences, corrects sessions
	RoleEmployee Role = "employee" // Clocks in and requests absences
)

// Principal is the caller identified by the bearer token.
type Principal struct {
	EmployeeID string
	Role       Role
}

// IsManager checks if the caller is manager or owner
func (p Principal) IsManager() bool {
	return p.Role == RoleManager || p.Role == RoleOwner
}

// CanActFor reports whether the caller may read or write another employee's records.
func (p Principal) CanActFor(employeeID string) bool {
	return p.IsManager() || p.EmployeeID == employeeID
}

func (r Role) IsValid() bool {
	switch r {
	case RoleOwner, RoleManager, RoleEmployee:
		return true
	}
	return false
}
