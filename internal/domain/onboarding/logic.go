package onboarding

import "hrmflow/internal/domain/workflow"

// AggregateStatus derives a submission's status from its step statuses.
// COMPLETED requires every step APPROVED: a conjunctive barrier, not a count
// threshold. An already-COMPLETED submission is not re-derived when a step
// later leaves APPROVED; derivation runs only when a review lands.
func AggregateStatus(steps []workflow.Status) workflow.Status {
	if len(steps) == 0 {
		return workflow.StatusPending
	}
	allApproved := true
	anyMoved := false
	for _, s := range steps {
		if s != workflow.StatusApproved {
			allApproved = false
		}
		if s != workflow.StatusPending {
			anyMoved = true
		}
	}
	if allApproved {
		return workflow.StatusCompleted
	}
	if anyMoved {
		return workflow.StatusInProgress
	}
	return workflow.StatusPending
}
