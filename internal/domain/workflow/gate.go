package workflow

import "hrmflow/internal/domain/auth"

// Action is a per-record operation checked against ownership facts.
type Action string

const (
	ActionView    Action = "view"
	ActionEdit    Action = "edit"
	ActionAssign  Action = "assign"
	ActionComment Action = "comment"
	ActionClose   Action = "close"
)

var Actions = []Action{ActionView, ActionEdit, ActionAssign, ActionComment, ActionClose}

// Facts are the inputs the gate decides on. Pure data, no lookups.
type Facts struct {
	IsOwner    bool
	IsAssignee bool
	Role       auth.Role
	Status     Status
}

// GateAllows is a pure function over a small input domain:
//
//	view    - owner, assignee, or manager/admin
//	edit    - owner while OPEN; admin always
//	assign  - manager/admin
//	comment - owner or assignee while the record is not terminal; manager/admin always
//	close   - admin always; owner only from RESOLVED; assignee from any non-OPEN status
func GateAllows(action Action, facts Facts) bool {
	elevated := facts.Role == auth.RoleManager || facts.Role == auth.RoleAdmin
	terminal := facts.Status == StatusClosed || facts.Status == StatusCancelled

	switch action {
	case ActionView:
		return facts.IsOwner || facts.IsAssignee || elevated
	case ActionEdit:
		if facts.Role == auth.RoleAdmin {
			return true
		}
		return facts.IsOwner && facts.Status == StatusOpen
	case ActionAssign:
		return elevated
	case ActionComment:
		if elevated {
			return true
		}
		return (facts.IsOwner || facts.IsAssignee) && !terminal
	case ActionClose:
		if facts.Role == auth.RoleAdmin {
			return true
		}
		if facts.IsOwner && facts.Status == StatusResolved {
			return true
		}
		return facts.IsAssignee && facts.Status != StatusOpen
	}
	return false
}
