package onboarding

import (
	"context"
	"errors"

	"hrmflow/internal/domain/auth"
	"hrmflow/internal/domain/workflow"
)

var ErrAlreadyExists = errors.New("employee already has an onboarding submission")

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

func (s *Service) CreateSubmission(ctx context.Context, employeeID string, stepTitles []string) (Submission, error) {
	existing, err := s.Store.ListSubmissions(ctx, employeeID, "", 1, 0)
	if err != nil {
		return Submission{}, err
	}
	if len(existing) > 0 {
		return Submission{}, ErrAlreadyExists
	}
	if len(stepTitles) == 0 {
		stepTitles = DefaultStepTitles
	}
	id, err := s.Store.CreateSubmission(ctx, employeeID, stepTitles)
	if err != nil {
		return Submission{}, err
	}
	return s.Store.GetSubmission(ctx, id)
}

func (s *Service) GetSubmission(ctx context.Context, user auth.UserContext, id string) (Submission, error) {
	sub, err := s.Store.GetSubmission(ctx, id)
	if err != nil {
		return Submission{}, err
	}
	if !user.IsManagerOrAdmin() && user.EmployeeID != sub.EmployeeID {
		return Submission{}, ErrForbidden
	}
	return sub, nil
}

func (s *Service) ListSubmissions(ctx context.Context, user auth.UserContext, status string, limit, offset int) ([]Submission, error) {
	scope := ""
	if !user.IsManagerOrAdmin() {
		if user.EmployeeID == "" {
			return nil, ErrForbidden
		}
		scope = user.EmployeeID
	}
	return s.Store.ListSubmissions(ctx, scope, status, limit, offset)
}

// SubmitStep moves a PENDING or REJECTED step to SUBMITTED with the employee's
// payload. Only the owning employee may submit; APPROVED steps are immutable.
func (s *Service) SubmitStep(ctx context.Context, user auth.UserContext, stepID, payload string) (Step, error) {
	step, err := s.Store.GetStep(ctx, stepID)
	if err != nil {
		return Step{}, err
	}
	sub, err := s.Store.GetSubmission(ctx, step.SubmissionID)
	if err != nil {
		return Step{}, err
	}
	if user.EmployeeID == "" || user.EmployeeID != sub.EmployeeID {
		return Step{}, ErrForbidden
	}
	if step.Status == workflow.StatusApproved {
		return Step{}, ErrStepApproved
	}
	if err := workflow.OnboardingSteps.Transition(step.Status, workflow.StatusSubmitted, user.Role); err != nil {
		return Step{}, err
	}
	if err := s.Store.TransitionStep(ctx, stepID, step.Status, workflow.StatusSubmitted, step.Version, payload, "", ""); err != nil {
		return Step{}, err
	}
	if err := s.refreshSubmission(ctx, step.SubmissionID); err != nil {
		return Step{}, err
	}
	return s.Store.GetStep(ctx, stepID)
}

// ReviewStep approves or rejects a SUBMITTED step. On approval the submission
// is re-derived and becomes COMPLETED once every step is APPROVED.
func (s *Service) ReviewStep(ctx context.Context, user auth.UserContext, stepID string, approve bool, note string) (Step, error) {
	step, err := s.Store.GetStep(ctx, stepID)
	if err != nil {
		return Step{}, err
	}
	to := workflow.StatusRejected
	if approve {
		to = workflow.StatusApproved
	}
	if err := workflow.OnboardingSteps.Transition(step.Status, to, user.Role); err != nil {
		return Step{}, err
	}
	if err := s.Store.TransitionStep(ctx, stepID, step.Status, to, step.Version, "", note, user.UserID); err != nil {
		return Step{}, err
	}
	if err := s.refreshSubmission(ctx, step.SubmissionID); err != nil {
		return Step{}, err
	}
	return s.Store.GetStep(ctx, stepID)
}

// refreshSubmission re-derives the aggregate status. A submission already
// COMPLETED stays COMPLETED.
func (s *Service) refreshSubmission(ctx context.Context, submissionID string) error {
	sub, err := s.Store.GetSubmission(ctx, submissionID)
	if err != nil {
		return err
	}
	if sub.Status == workflow.StatusCompleted {
		return nil
	}
	statuses, err := s.Store.StepStatuses(ctx, submissionID)
	if err != nil {
		return err
	}
	derived := AggregateStatus(statuses)
	if derived == sub.Status {
		return nil
	}
	return s.Store.SetSubmissionStatus(ctx, submissionID, derived)
}
