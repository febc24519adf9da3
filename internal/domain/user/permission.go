package user

type Permission string

const (
	// Self Management
	PermissionViewOwnProfile Permission = "profile.view_own"

	// Leave
	PermissionLeaveCalculate Permission = "leave.calculate"
	PermissionLeaveApprove   Permission = "leave.approve"

	// Organization settings
	PermissionHolidayView   Permission = "holiday.view"
	PermissionHolidayManage Permission = "holiday.manage"

	// Employee records
	PermissionEmployeeViewAll Permission = "employee.view_all"

	// Platform
	PermissionCompanyManageAll Permission = "company.manage_all"
)

// Permissions returns what a role may do.
func Permissions(role Role) []Permission {
	switch role {
	case RoleSuperAdmin:
		return []Permission{
			PermissionViewOwnProfile,
			PermissionLeaveCalculate,
			PermissionLeaveApprove,
			PermissionHolidayView,
			PermissionHolidayManage,
			PermissionEmployeeViewAll,
			PermissionCompanyManageAll,
		}
	case RoleHrAdmin:
		return []Permission{
			PermissionViewOwnProfile,
			PermissionLeaveCalculate,
			PermissionLeaveApprove,
			PermissionHolidayView,
			PermissionHolidayManage,
			PermissionEmployeeViewAll,
		}
	case RoleManager:
		return []Permission{
			PermissionViewOwnProfile,
			PermissionLeaveCalculate,
			PermissionLeaveApprove,
			PermissionHolidayView,
			PermissionEmployeeViewAll,
		}
	case RoleEmployee:
		return []Permission{
			PermissionViewOwnProfile,
			PermissionLeaveCalculate,
			PermissionHolidayView,
		}
	case RoleCandidate:
		// Onboarding only
		return []Permission{
			PermissionViewOwnProfile,
		}
	default:
		return nil
	}
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	for _, p := range Permissions(role) {
		if p == permission {
			return true
		}
	}
	return false
}
