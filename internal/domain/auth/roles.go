package auth

// Role is a flat enum. There is no hierarchy inference anywhere: a capability
// or transition rule that should apply to ADMIN lists ADMIN explicitly.
type Role string

const (
	RoleEmployee Role = "EMPLOYEE"
	RoleManager  Role = "MANAGER"
	RoleAdmin    Role = "ADMIN"
)

var Roles = []Role{RoleEmployee, RoleManager, RoleAdmin}

func ValidRole(value string) bool {
	switch Role(value) {
	case RoleEmployee, RoleManager, RoleAdmin:
		return true
	}
	return false
}

const (
	CapEmployeesRead     = "employees.read"
	CapEmployeesWrite    = "employees.write"
	CapRequestsRead      = "requests.read"
	CapRequestsWrite     = "requests.write"
	CapRequestsAssign    = "requests.assign"
	CapOnboardingRead    = "onboarding.read"
	CapOnboardingWrite   = "onboarding.write"
	CapOnboardingReview  = "onboarding.review"
	CapPayrollRead       = "payroll.read"
	CapPayrollWrite      = "payroll.write"
	CapPayrollApprove    = "payroll.approve"
	CapLeaveRead         = "leave.read"
	CapLeaveWrite        = "leave.write"
	CapLeaveApprove      = "leave.approve"
	CapAttendanceRead    = "attendance.read"
	CapAttendanceWrite   = "attendance.write"
	CapReportsRead       = "reports.read"
	CapNotificationsRead = "notifications.read"
	CapAuditRead         = "audit.read"
	CapMetricsRead       = "metrics.read"
)

// RoleCapabilities is the single source of truth for route-level gating.
// Ownership-sensitive decisions (may this employee close this request) live in
// the workflow gate, not here.
var RoleCapabilities = map[Role][]string{
	RoleEmployee: {
		CapEmployeesRead,
		CapRequestsRead,
		CapRequestsWrite,
		CapOnboardingRead,
		CapOnboardingWrite,
		CapPayrollRead,
		CapLeaveRead,
		CapLeaveWrite,
		CapAttendanceRead,
		CapAttendanceWrite,
		CapReportsRead,
		CapNotificationsRead,
	},
	RoleManager: {
		CapEmployeesRead,
		CapRequestsRead,
		CapRequestsWrite,
		CapRequestsAssign,
		CapOnboardingRead,
		CapOnboardingWrite,
		CapOnboardingReview,
		CapPayrollRead,
		CapPayrollWrite,
		CapLeaveRead,
		CapLeaveWrite,
		CapLeaveApprove,
		CapAttendanceRead,
		CapAttendanceWrite,
		CapReportsRead,
		CapNotificationsRead,
	},
	RoleAdmin: {
		CapEmployeesRead,
		CapEmployeesWrite,
		CapRequestsRead,
		CapRequestsWrite,
		CapRequestsAssign,
		CapOnboardingRead,
		CapOnboardingWrite,
		CapOnboardingReview,
		CapPayrollRead,
		CapPayrollWrite,
		CapPayrollApprove,
		CapLeaveRead,
		CapLeaveWrite,
		CapLeaveApprove,
		CapAttendanceRead,
		CapAttendanceWrite,
		CapReportsRead,
		CapNotificationsRead,
		CapAuditRead,
		CapMetricsRead,
	},
}

func HasCapability(role Role, capability string) bool {
	for _, c := range RoleCapabilities[role] {
		if c == capability {
			return true
		}
	}
	return false
}

// UserContext is what the auth middleware stores in the request context.
type UserContext struct {
	UserID     string
	EmployeeID string
	Role       Role
}

func (u UserContext) IsManagerOrAdmin() bool {
	return u.Role == RoleManager || u.Role == RoleAdmin
}
