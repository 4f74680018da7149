package user

type Permission string

const (
	// Attendance
	PermissionAttendanceMark    Permission = "attendance.mark"
	PermissionAttendanceViewOwn Permission = "attendance.view_own"
	PermissionAttendanceViewAll Permission = "attendance.view_all"

	// Regularization
	PermissionRegularizationSubmit  Permission = "regularization.submit"
	PermissionRegularizationViewAll Permission = "regularization.view_all"
	PermissionRegularizationApprove Permission = "regularization.approve"

	// Leave
	PermissionLeaveCreate  Permission = "leave.create"
	PermissionLeaveViewAll Permission = "leave.view_all"
	PermissionLeaveApprove Permission = "leave.approve"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleSuperAdmin: {
		PermissionAttendanceViewAll,
		PermissionRegularizationViewAll,
		PermissionRegularizationApprove,
		PermissionLeaveViewAll,
		PermissionLeaveApprove,
	},
	RoleAdmin: {
		PermissionAttendanceMark,
		PermissionAttendanceViewOwn,
		PermissionAttendanceViewAll,
		PermissionRegularizationSubmit,
		PermissionRegularizationViewAll,
		PermissionRegularizationApprove,
		PermissionLeaveCreate,
		PermissionLeaveViewAll,
		PermissionLeaveApprove,
	},
	RoleManager: {
		PermissionAttendanceMark,
		PermissionAttendanceViewOwn,
		PermissionAttendanceViewAll,
		PermissionRegularizationSubmit,
		PermissionRegularizationViewAll,
		PermissionRegularizationApprove,
		PermissionLeaveCreate,
		PermissionLeaveViewAll,
	},
	RoleEmployee: {
		PermissionAttendanceMark,
		PermissionAttendanceViewOwn,
		PermissionRegularizationSubmit,
		PermissionLeaveCreate,
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
