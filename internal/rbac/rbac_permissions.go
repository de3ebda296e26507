package rbac

import "sort"

// Permission tokens. Values are matched case-sensitively.
const (
	PermCreateLeave        = "create_leave"
	PermCancelOwnLeave     = "cancel_own_leave"
	PermViewOwnLeave       = "view_own_leave"
	PermUpdateOwnLeave     = "update_own_leave"
	PermDeleteOwnLeave     = "delete_own_leave"
	PermViewOwnAttendance  = "view_own_attendance"
	PermApproveLeave       = "approve_leave"
	PermRejectLeave        = "reject_leave"
	PermViewTeamLeave      = "view_team_leave"
	PermViewTeamAttendance = "view_team_attendance"
	PermCreateEmployee     = "create_employee"
	PermUploadEmployees    = "upload_employees"
	PermUpdateEmployee     = "update_employee"
	PermDeleteEmployee     = "delete_employee"
	PermViewAllEmployee    = "view_all_employee"
	PermViewAllLeave       = "view_all_leave"
	PermUpdateLeave        = "update_leave"
	PermDeleteLeave        = "delete_leave"
	PermViewAllAttendance  = "view_all_attendance"

	Wildcard = "*"
)

var allPermissions = []string{
	PermCreateLeave,
	PermCancelOwnLeave,
	PermViewOwnLeave,
	PermUpdateOwnLeave,
	PermDeleteOwnLeave,
	PermViewOwnAttendance,
	PermApproveLeave,
	PermRejectLeave,
	PermViewTeamLeave,
	PermViewTeamAttendance,
	PermCreateEmployee,
	PermUploadEmployees,
	PermUpdateEmployee,
	PermDeleteEmployee,
	PermViewAllEmployee,
	PermViewAllLeave,
	PermUpdateLeave,
	PermDeleteLeave,
	PermViewAllAttendance,
}

// AllPermissions returns every concrete token, sorted.
func AllPermissions() []string {
	out := make([]string, len(allPermissions))
	copy(out, allPermissions)
	sort.Strings(out)
	return out
}

// Table maps a role to the tokens it holds.
type Table map[Role][]string

// DefaultTable returns a fresh copy of the built-in role table.
func DefaultTable() Table {
	return Table{
		RoleEmployee: {
			PermCreateLeave,
			PermCancelOwnLeave,
			PermViewOwnLeave,
			PermUpdateOwnLeave,
			PermDeleteOwnLeave,
			PermViewOwnAttendance,
		},
		RoleManager: {
			PermApproveLeave,
			PermRejectLeave,
			PermViewTeamLeave,
			PermViewTeamAttendance,
			PermViewOwnAttendance,
		},
		RoleHR: {
			PermApproveLeave,
			PermRejectLeave,
			PermViewAllLeave,
			PermUpdateLeave,
			PermDeleteLeave,
			PermViewAllAttendance,
			PermCreateEmployee,
			PermUploadEmployees,
			PermUpdateEmployee,
			PermDeleteEmployee,
			PermViewAllEmployee,
		},
		RoleAdmin: {Wildcard},
	}
}

func (t Table) clone() Table {
	out := make(Table, len(t))
	for role, perms := range t {
		cp := make([]string, len(perms))
		copy(cp, perms)
		out[role] = cp
	}
	return out
}
