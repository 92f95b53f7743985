// Package workflow holds the declarative status-transition tables that govern
// every lifecycle-bearing record in the system, the evaluator that answers
// whether a principal may move a record between two statuses, and the
// ownership gate for per-record action checks.
//
// Transition rules are plain data, not branching logic: a workflow is the
// initial status, the terminal statuses, and an enumerated list of
// (from, to, roles) rules. If no rule matches, the move is rejected.
package workflow

import (
	"errors"
	"fmt"

	"hrmflow/internal/domain/auth"
)

type Status string

// Rule permits moving from From to To for the listed roles only. Roles are
// never inferred: ADMIN must appear on a rule to use it.
type Rule struct {
	From        Status
	To          Status
	Roles       []auth.Role
	Description string
}

type Workflow struct {
	Name     string
	Initial  Status
	Terminal []Status
	Rules    []Rule
}

var ErrInvalidTransition = errors.New("invalid transition")

// Transition validates a requested status move. from == to is always
// rejected: a no-op move is not a transition.
func (w Workflow) Transition(from, to Status, role auth.Role) error {
	if w.Allowed(from, to, role) {
		return nil
	}
	return fmt.Errorf("%w: %s %s -> %s as %s", ErrInvalidTransition, w.Name, from, to, role)
}

func (w Workflow) Allowed(from, to Status, role auth.Role) bool {
	if from == to {
		return false
	}
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

// ValidNextStatuses lists where the given role may move a record currently in
// from. Terminal statuses, unknown statuses, and statuses with no outgoing
// rules for the role all yield an empty slice, never an error.
func (w Workflow) ValidNextStatuses(from Status, role auth.Role) []Status {
	next := []Status{}
	for _, rule := range w.Rules {
		if rule.From != from {
			continue
		}
		for _, r := range rule.Roles {
			if r == role {
				next = append(next, rule.To)
				break
			}
		}
	}
	return next
}

func (w Workflow) IsTerminal(status Status) bool {
	for _, t := range w.Terminal {
		if t == status {
			return true
		}
	}
	return false
}

func (w Workflow) ValidStatus(status Status) bool {
	if status == w.Initial {
		return true
	}
	for _, t := range w.Terminal {
		if t == status {
			return true
		}
	}
	for _, rule := range w.Rules {
		if rule.From == status || rule.To == status {
			return true
		}
	}
	return false
}
