package request

import (
	"context"
	"errors"
	"strings"

	"hrmflow/internal/domain/auth"
	"hrmflow/internal/domain/workflow"
)

var (
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidPriority = errors.New("invalid priority")
)

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

func facts(user auth.UserContext, r Request) workflow.Facts {
	return workflow.Facts{
		IsOwner:    user.EmployeeID != "" && user.EmployeeID == r.EmployeeID,
		IsAssignee: user.EmployeeID != "" && user.EmployeeID == r.AssigneeID,
		Role:       user.Role,
		Status:     r.Status,
	}
}

func (s *Service) Create(ctx context.Context, user auth.UserContext, category, priority, subject, body string) (string, error) {
	if user.EmployeeID == "" {
		return "", ErrForbidden
	}
	category = strings.ToUpper(strings.TrimSpace(category))
	if !contains(Categories, category) {
		return "", ErrInvalidCategory
	}
	priority = strings.ToUpper(strings.TrimSpace(priority))
	if priority == "" {
		priority = PriorityMedium
	}
	if !contains(Priorities, priority) {
		return "", ErrInvalidPriority
	}
	return s.Store.Create(ctx, Request{
		EmployeeID: user.EmployeeID,
		Category:   category,
		Priority:   priority,
		Subject:    subject,
		Body:       body,
		Status:     workflow.EmployeeRequests.Initial,
	})
}

func (s *Service) Get(ctx context.Context, user auth.UserContext, id string) (Request, error) {
	r, err := s.Store.Get(ctx, id)
	if err != nil {
		return Request{}, err
	}
	if !workflow.GateAllows(workflow.ActionView, facts(user, r)) {
		return Request{}, ErrForbidden
	}
	return r, nil
}

// List scopes EMPLOYEE principals to their own requests; managers and admins
// see the whole organization.
func (s *Service) List(ctx context.Context, user auth.UserContext, status string, limit, offset int) ([]Request, error) {
	scope := ""
	if !user.IsManagerOrAdmin() {
		if user.EmployeeID == "" {
			return nil, ErrForbidden
		}
		scope = user.EmployeeID
	}
	return s.Store.List(ctx, scope, status, limit, offset)
}

func (s *Service) Edit(ctx context.Context, user auth.UserContext, id, category, priority, subject, body string) (Request, error) {
	r, err := s.Store.Get(ctx, id)
	if err != nil {
		return Request{}, err
	}
	if !workflow.GateAllows(workflow.ActionEdit, facts(user, r)) {
		return Request{}, ErrForbidden
	}
	category = strings.ToUpper(strings.TrimSpace(category))
	if !contains(Categories, category) {
		return Request{}, ErrInvalidCategory
	}
	priority = strings.ToUpper(strings.TrimSpace(priority))
	if !contains(Priorities, priority) {
		return Request{}, ErrInvalidPriority
	}
	if err := s.Store.UpdateContent(ctx, id, category, priority, subject, body); err != nil {
		return Request{}, err
	}
	return s.Store.Get(ctx, id)
}

func (s *Service) Assign(ctx context.Context, user auth.UserContext, id, assigneeID string) (Request, error) {
	r, err := s.Store.Get(ctx, id)
	if err != nil {
		return Request{}, err
	}
	if !workflow.GateAllows(workflow.ActionAssign, facts(user, r)) {
		return Request{}, ErrForbidden
	}
	if err := s.Store.Assign(ctx, id, assigneeID); err != nil {
		return Request{}, err
	}
	return s.Store.Get(ctx, id)
}

func (s *Service) Comment(ctx context.Context, user auth.UserContext, id, body string) (string, error) {
	r, err := s.Store.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if !workflow.GateAllows(workflow.ActionComment, facts(user, r)) {
		return "", ErrForbidden
	}
	return s.Store.AddComment(ctx, id, user.UserID, body)
}

func (s *Service) Comments(ctx context.Context, user auth.UserContext, id string) ([]Comment, error) {
	r, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !workflow.GateAllows(workflow.ActionView, facts(user, r)) {
		return nil, ErrForbidden
	}
	return s.Store.ListComments(ctx, id)
}

// Transition moves a request to the requested status. The closing move also
// consults the ownership gate, so an owner may close only from RESOLVED while
// the assignee may close from any non-OPEN status. Cancellation is reserved
// for the requester and admins; the role table alone would let any employee
// cancel anyone's request.
func (s *Service) Transition(ctx context.Context, user auth.UserContext, id string, to workflow.Status) (Request, error) {
	r, err := s.Store.Get(ctx, id)
	if err != nil {
		return Request{}, err
	}
	if err := workflow.EmployeeRequests.Transition(r.Status, to, user.Role); err != nil {
		return Request{}, err
	}
	if to == workflow.StatusClosed && !workflow.GateAllows(workflow.ActionClose, facts(user, r)) {
		return Request{}, ErrForbidden
	}
	if to == workflow.StatusCancelled && user.Role != auth.RoleAdmin && user.EmployeeID != r.EmployeeID {
		return Request{}, ErrForbidden
	}
	if err := s.Store.TransitionStatus(ctx, id, r.Status, to, r.Version); err != nil {
		return Request{}, err
	}
	return s.Store.Get(ctx, id)
}

func (s *Service) ValidNextStatuses(ctx context.Context, user auth.UserContext, id string) ([]workflow.Status, error) {
	r, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !workflow.GateAllows(workflow.ActionView, facts(user, r)) {
		return nil, ErrForbidden
	}
	return workflow.EmployeeRequests.ValidNextStatuses(r.Status, user.Role), nil
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
