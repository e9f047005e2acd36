package access

type Role string

const (
	RoleEmployee   Role = "Employee_Agent"
	RoleSupervisor Role = "Supervisor"
	RoleAdmin      Role = "Admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleEmployee, RoleSupervisor, RoleAdmin:
		return true
	}
	return false
}

type Permission string

const (
	PermissionShiftManage      Permission = "shift.manage"
	PermissionAttendanceTeam   Permission = "attendance.view_team"
	PermissionAttendanceExport Permission = "attendance.export"
	PermissionReportApprove    Permission = "report.approve"
	PermissionEmployeeManage   Permission = "employee.manage"
	PermissionDepartmentManage Permission = "department.manage"
	PermissionWebhookLogView   Permission = "webhook_log.view"
)

// RolePermissions maps roles to their route-level permissions. Record-level
// checks still go through Actor.
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionShiftManage,
		PermissionAttendanceTeam,
		PermissionAttendanceExport,
		PermissionReportApprove,
		PermissionEmployeeManage,
		PermissionDepartmentManage,
		PermissionWebhookLogView,
	},
	RoleSupervisor: {
		PermissionShiftManage,
		PermissionAttendanceTeam,
		PermissionAttendanceExport,
		PermissionReportApprove,
	},
	RoleEmployee: {},
}

// HasPermission reports whether role carries permission.
func HasPermission(role Role, permission Permission) bool {
	for _, p := range RolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}
