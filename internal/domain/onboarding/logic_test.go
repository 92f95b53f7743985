package onboarding

import (
	"testing"

	"hrmflow/internal/domain/workflow"
)

func TestAggregateStatusCompletedOnlyWhenAllApproved(t *testing.T) {
	approved := workflow.StatusApproved
	cases := []struct {
		name  string
		steps []workflow.Status
		want  workflow.Status
	}{
		{"no steps", nil, workflow.StatusPending},
		{"all pending", []workflow.Status{workflow.StatusPending, workflow.StatusPending}, workflow.StatusPending},
		{"one submitted", []workflow.Status{workflow.StatusSubmitted, workflow.StatusPending}, workflow.StatusInProgress},
		{"one rejected", []workflow.Status{approved, workflow.StatusRejected}, workflow.StatusInProgress},
		{"almost done", []workflow.Status{approved, approved, workflow.StatusSubmitted}, workflow.StatusInProgress},
		{"all approved", []workflow.Status{approved, approved, approved}, workflow.StatusCompleted},
		{"single approved", []workflow.Status{approved}, workflow.StatusCompleted},
	}
	for _, tc := range cases {
		if got := AggregateStatus(tc.steps); got != tc.want {
			t.Errorf("%s: AggregateStatus = %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestAggregateStatusEveryStepMatters(t *testing.T) {
	// Flipping any single step away from APPROVED must drop the derived
	// status out of COMPLETED.
	steps := []workflow.Status{workflow.StatusApproved, workflow.StatusApproved, workflow.StatusApproved}
	for i := range steps {
		mutated := append([]workflow.Status{}, steps...)
		mutated[i] = workflow.StatusSubmitted
		if AggregateStatus(mutated) == workflow.StatusCompleted {
			t.Fatalf("step %d not APPROVED but aggregate still COMPLETED", i)
		}
	}
}
