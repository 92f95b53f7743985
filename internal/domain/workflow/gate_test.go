package workflow

import (
	"testing"

	"hrmflow/internal/domain/auth"
)

var gateStatuses = []Status{StatusOpen, StatusInProgress, StatusResolved, StatusClosed, StatusCancelled}

// wantGate mirrors the documented formulas independently so the whole
// 3 roles x 5 statuses x 5 actions x ownership domain is asserted.
func wantGate(action Action, f Facts) bool {
	elevated := f.Role == auth.RoleManager || f.Role == auth.RoleAdmin
	switch action {
	case ActionView:
		return f.IsOwner || f.IsAssignee || elevated
	case ActionEdit:
		return f.Role == auth.RoleAdmin || (f.IsOwner && f.Status == StatusOpen)
	case ActionAssign:
		return elevated
	case ActionComment:
		if elevated {
			return true
		}
		if f.Status == StatusClosed || f.Status == StatusCancelled {
			return false
		}
		return f.IsOwner || f.IsAssignee
	case ActionClose:
		if f.Role == auth.RoleAdmin {
			return true
		}
		if f.IsOwner && f.Status == StatusResolved {
			return true
		}
		return f.IsAssignee && f.Status != StatusOpen
	}
	return false
}

func TestGateTruthTable(t *testing.T) {
	bools := []bool{false, true}
	for _, action := range Actions {
		for _, role := range auth.Roles {
			for _, status := range gateStatuses {
				for _, owner := range bools {
					for _, assignee := range bools {
						facts := Facts{IsOwner: owner, IsAssignee: assignee, Role: role, Status: status}
						want := wantGate(action, facts)
						if got := GateAllows(action, facts); got != want {
							t.Errorf("GateAllows(%s, owner=%v assignee=%v role=%s status=%s) = %v, want %v",
								action, owner, assignee, role, status, got, want)
						}
					}
				}
			}
		}
	}
}

func TestGateCloseFormula(t *testing.T) {
	if GateAllows(ActionClose, Facts{IsOwner: true, Role: auth.RoleEmployee, Status: StatusOpen}) {
		t.Fatal("owner must not close an OPEN request")
	}
	if !GateAllows(ActionClose, Facts{IsOwner: true, Role: auth.RoleEmployee, Status: StatusResolved}) {
		t.Fatal("owner must be able to close a RESOLVED request")
	}
	if !GateAllows(ActionClose, Facts{Role: auth.RoleAdmin, Status: StatusOpen}) {
		t.Fatal("admin may always close")
	}
	if GateAllows(ActionClose, Facts{IsAssignee: true, Role: auth.RoleEmployee, Status: StatusOpen}) {
		t.Fatal("assignee must not close from OPEN")
	}
	if !GateAllows(ActionClose, Facts{IsAssignee: true, Role: auth.RoleEmployee, Status: StatusInProgress}) {
		t.Fatal("assignee may close from any non-OPEN status")
	}
}

func TestGateUnknownActionDenied(t *testing.T) {
	if GateAllows(Action("delete"), Facts{Role: auth.RoleAdmin}) {
		t.Fatal("undeclared actions are denied")
	}
}
