package workflow

import (
	"errors"
	"testing"

	"hrmflow/internal/domain/auth"
)

func allWorkflows() []Workflow {
	return []Workflow{
		EmployeeRequests,
		OnboardingSteps,
		VariablePay,
		PayrollRecords,
		CorrectionRequests,
		LeaveRequests,
	}
}

func statusesOf(w Workflow) []Status {
	seen := map[Status]bool{w.Initial: true}
	for _, t := range w.Terminal {
		seen[t] = true
	}
	for _, rule := range w.Rules {
		seen[rule.From] = true
		seen[rule.To] = true
	}
	out := make([]Status, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	return out
}

func ruleExists(w Workflow, from, to Status, role auth.Role) bool {
	for _, rule := range w.Rules {
		if rule.From != from || rule.To != to {
			continue
		}
		for _, r := range rule.Roles {
			if r == role {
				return true
			}
		}
	}
	return false
}

func TestAllowedMatchesDeclaredRulesExactly(t *testing.T) {
	for _, w := range allWorkflows() {
		statuses := statusesOf(w)
		for _, from := range statuses {
			for _, to := range statuses {
				for _, role := range auth.Roles {
					want := from != to && ruleExists(w, from, to, role)
					if got := w.Allowed(from, to, role); got != want {
						t.Errorf("%s: Allowed(%s, %s, %s) = %v, want %v", w.Name, from, to, role, got, want)
					}
				}
			}
		}
	}
}

func TestSelfTransitionAlwaysRejected(t *testing.T) {
	for _, w := range allWorkflows() {
		for _, status := range statusesOf(w) {
			for _, role := range auth.Roles {
				if w.Allowed(status, status, role) {
					t.Errorf("%s: self transition %s allowed for %s", w.Name, status, role)
				}
			}
		}
	}
}

func TestTerminalStatusesHaveNoNextStatuses(t *testing.T) {
	for _, w := range allWorkflows() {
		for _, terminal := range w.Terminal {
			for _, role := range auth.Roles {
				next := w.ValidNextStatuses(terminal, role)
				if len(next) != 0 {
					t.Errorf("%s: terminal %s has next statuses %v for %s", w.Name, terminal, next, role)
				}
			}
		}
	}
}

func TestValidNextStatusesNeverNil(t *testing.T) {
	next := EmployeeRequests.ValidNextStatuses("NO_SUCH_STATUS", auth.RoleAdmin)
	if next == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(next) != 0 {
		t.Fatalf("expected no next statuses, got %v", next)
	}
}

func TestEmployeeRequestLifecycle(t *testing.T) {
	w := EmployeeRequests

	if err := w.Transition(StatusOpen, StatusInProgress, auth.RoleManager); err != nil {
		t.Fatalf("manager OPEN->IN_PROGRESS rejected: %v", err)
	}
	if err := w.Transition(StatusOpen, StatusInProgress, auth.RoleEmployee); err == nil {
		t.Fatal("employee OPEN->IN_PROGRESS must be rejected")
	} else if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	if !w.Allowed(StatusResolved, StatusClosed, auth.RoleEmployee) {
		t.Fatal("owner role must be able to close from RESOLVED")
	}
	if w.Allowed(StatusOpen, StatusClosed, auth.RoleAdmin) {
		t.Fatal("no rule declares OPEN->CLOSED, even for admin")
	}
	if w.Allowed(StatusCancelled, StatusOpen, auth.RoleAdmin) {
		t.Fatal("transitions out of CANCELLED must be rejected")
	}
}

func TestOnboardingStepResubmissionLoop(t *testing.T) {
	w := OnboardingSteps

	if !w.Allowed(StatusPending, StatusSubmitted, auth.RoleEmployee) {
		t.Fatal("employee must be able to submit a pending step")
	}
	if w.Allowed(StatusPending, StatusSubmitted, auth.RoleManager) {
		t.Fatal("submission is owner work, not reviewer work")
	}
	if !w.Allowed(StatusSubmitted, StatusApproved, auth.RoleManager) {
		t.Fatal("manager must be able to approve")
	}
	if !w.Allowed(StatusRejected, StatusSubmitted, auth.RoleEmployee) {
		t.Fatal("rejected steps must be resubmittable")
	}
	if w.Allowed(StatusApproved, StatusSubmitted, auth.RoleEmployee) {
		t.Fatal("APPROVED is terminal")
	}
}

func TestAdminNotImplicitlyAllowed(t *testing.T) {
	// The evaluator has no wildcard: ADMIN is rejected where not listed.
	if OnboardingSteps.Allowed(StatusPending, StatusSubmitted, auth.RoleAdmin) {
		t.Fatal("admin is not listed on PENDING->SUBMITTED and must be rejected")
	}
}

func TestPayrollRecordFlow(t *testing.T) {
	w := PayrollRecords
	moves := []struct {
		from, to Status
	}{
		{StatusDraft, StatusPendingApproval},
		{StatusPendingApproval, StatusApproved},
		{StatusApproved, StatusPaid},
	}
	for _, m := range moves {
		if err := w.Transition(m.from, m.to, auth.RoleAdmin); err != nil {
			t.Fatalf("admin %s->%s rejected: %v", m.from, m.to, err)
		}
		if err := w.Transition(m.from, m.to, auth.RoleManager); err == nil {
			t.Fatalf("manager %s->%s must be rejected", m.from, m.to)
		}
	}
	if !w.Allowed(StatusPendingApproval, StatusDraft, auth.RoleAdmin) {
		t.Fatal("send back to draft must be allowed")
	}
	if len(w.ValidNextStatuses(StatusPaid, auth.RoleAdmin)) != 0 {
		t.Fatal("PAID is terminal")
	}
}

func TestValidStatus(t *testing.T) {
	if !EmployeeRequests.ValidStatus(StatusResolved) {
		t.Fatal("RESOLVED is a declared status")
	}
	if EmployeeRequests.ValidStatus("DRAFT") {
		t.Fatal("DRAFT is not part of the request workflow")
	}
}
