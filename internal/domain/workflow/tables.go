package workflow

import "hrmflow/internal/domain/auth"

const (
	// Employee requests.
	StatusOpen       Status = "OPEN"
	StatusInProgress Status = "IN_PROGRESS"
	StatusResolved   Status = "RESOLVED"
	StatusClosed     Status = "CLOSED"
	StatusCancelled  Status = "CANCELLED"

	// Onboarding steps.
	StatusPending   Status = "PENDING"
	StatusSubmitted Status = "SUBMITTED"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"

	// Onboarding submissions (derived, not rule-driven).
	StatusCompleted Status = "COMPLETED"

	// Payroll records.
	StatusDraft           Status = "DRAFT"
	StatusPendingApproval Status = "PENDING_APPROVAL"
	StatusPaid            Status = "PAID"

	// Correction requests.
	StatusInReview Status = "IN_REVIEW"
)

var managersAndAdmins = []auth.Role{auth.RoleManager, auth.RoleAdmin}

// EmployeeRequests governs the general employee request lifecycle. Managers
// work the request, the owning employee closes it once resolved or cancels it
// while still open.
var EmployeeRequests = Workflow{
	Name:     "employee_request",
	Initial:  StatusOpen,
	Terminal: []Status{StatusClosed, StatusCancelled},
	Rules: []Rule{
		{From: StatusOpen, To: StatusInProgress, Roles: managersAndAdmins, Description: "start work"},
		{From: StatusInProgress, To: StatusResolved, Roles: managersAndAdmins, Description: "mark resolved"},
		{From: StatusInProgress, To: StatusOpen, Roles: managersAndAdmins, Description: "return to queue"},
		{From: StatusResolved, To: StatusInProgress, Roles: managersAndAdmins, Description: "reopen"},
		{From: StatusResolved, To: StatusClosed, Roles: []auth.Role{auth.RoleEmployee, auth.RoleManager, auth.RoleAdmin}, Description: "confirm and close"},
		{From: StatusOpen, To: StatusCancelled, Roles: []auth.Role{auth.RoleEmployee, auth.RoleAdmin}, Description: "withdraw"},
	},
}

// OnboardingSteps governs a single onboarding step. A rejected step loops
// back to SUBMITTED after the employee edits; APPROVED is terminal.
var OnboardingSteps = Workflow{
	Name:     "onboarding_step",
	Initial:  StatusPending,
	Terminal: []Status{StatusApproved},
	Rules: []Rule{
		{From: StatusPending, To: StatusSubmitted, Roles: []auth.Role{auth.RoleEmployee}, Description: "submit"},
		{From: StatusSubmitted, To: StatusApproved, Roles: managersAndAdmins, Description: "approve"},
		{From: StatusSubmitted, To: StatusRejected, Roles: managersAndAdmins, Description: "reject"},
		{From: StatusRejected, To: StatusSubmitted, Roles: []auth.Role{auth.RoleEmployee}, Description: "resubmit"},
	},
}

var VariablePay = Workflow{
	Name:     "variable_pay",
	Initial:  StatusPending,
	Terminal: []Status{StatusApproved, StatusRejected},
	Rules: []Rule{
		{From: StatusPending, To: StatusApproved, Roles: managersAndAdmins, Description: "approve"},
		{From: StatusPending, To: StatusRejected, Roles: managersAndAdmins, Description: "reject"},
	},
}

var PayrollRecords = Workflow{
	Name:     "payroll_record",
	Initial:  StatusDraft,
	Terminal: []Status{StatusPaid},
	Rules: []Rule{
		{From: StatusDraft, To: StatusPendingApproval, Roles: []auth.Role{auth.RoleAdmin}, Description: "submit for approval"},
		{From: StatusPendingApproval, To: StatusApproved, Roles: []auth.Role{auth.RoleAdmin}, Description: "approve"},
		{From: StatusPendingApproval, To: StatusDraft, Roles: []auth.Role{auth.RoleAdmin}, Description: "send back"},
		{From: StatusApproved, To: StatusPaid, Roles: []auth.Role{auth.RoleAdmin}, Description: "mark paid"},
	},
}

var CorrectionRequests = Workflow{
	Name:     "correction_request",
	Initial:  StatusPending,
	Terminal: []Status{StatusResolved, StatusRejected},
	Rules: []Rule{
		{From: StatusPending, To: StatusInReview, Roles: []auth.Role{auth.RoleAdmin}, Description: "take for review"},
		{From: StatusInReview, To: StatusResolved, Roles: []auth.Role{auth.RoleAdmin}, Description: "resolve"},
		{From: StatusInReview, To: StatusRejected, Roles: []auth.Role{auth.RoleAdmin}, Description: "reject"},
	},
}

var LeaveRequests = Workflow{
	Name:     "leave_request",
	Initial:  StatusPending,
	Terminal: []Status{StatusApproved, StatusRejected, StatusCancelled},
	Rules: []Rule{
		{From: StatusPending, To: StatusApproved, Roles: managersAndAdmins, Description: "approve"},
		{From: StatusPending, To: StatusRejected, Roles: managersAndAdmins, Description: "reject"},
		{From: StatusPending, To: StatusCancelled, Roles: []auth.Role{auth.RoleEmployee, auth.RoleAdmin}, Description: "cancel"},
	},
}
