package rbac

import "strings"

// Role is the position of an employee in the access hierarchy.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
	RoleHR       Role = "hr"
	RoleAdmin    Role = "admin"
)

var roles = []Role{RoleEmployee, RoleManager, RoleHR, RoleAdmin}

// Roles lists every known role, lowest privilege first.
func Roles() []Role {
	out := make([]Role, len(roles))
	copy(out, roles)
	return out
}

func ParseRole(v string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(v)))
	return r, r.Valid()
}

func (r Role) Valid() bool {
	switch r {
	case RoleEmployee, RoleManager, RoleHR, RoleAdmin:
		return true
	}
	return false
}

// Global reports whether the role sees every employee regardless of the
// reporting line.
func (r Role) Global() bool {
	return r == RoleHR || r == RoleAdmin
}

func (r Role) String() string {
	return string(r)
}
