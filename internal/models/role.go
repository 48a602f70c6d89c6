package models

// Role is the closed set of platform roles stored on a profile.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleNGO     Role = "ngo"
)

// Roles lists every valid role.
var Roles = []Role{RoleStudent, RoleTeacher, RoleNGO}

// ParseRole converts raw into a Role, reporting false for unknown values.
func ParseRole(raw string) (Role, bool) {
	role := Role(raw)
	return role, role.Valid()
}

// Valid reports whether r is a member of the enumeration.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleNGO:
		return true
	default:
		return false
	}
}

// Actor is the authenticated caller resolved for a request.
type Actor struct {
	ID       string `json:"id"`
	Email    string `json:"email,omitempty"`
	FullName string `json:"full_name"`
	Role     Role   `json:"role"`
}
