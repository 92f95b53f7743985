package leave

import (
	"context"
	"errors"
	"strings"
	"time"

	"hrmflow/internal/domain/auth"
	"hrmflow/internal/domain/workflow"
)

var ErrInvalidType = errors.New("invalid leave type")

// ManagerDirectory answers reporting-line questions. The employee store
// implements it.
type ManagerDirectory interface {
	IsManagerOf(ctx context.Context, managerEmployeeID, employeeID string) (bool, error)
}

type Service struct {
	Store    *Store
	Managers ManagerDirectory
}

func NewService(store *Store, managers ManagerDirectory) *Service {
	return &Service{Store: store, Managers: managers}
}

func (s *Service) Create(ctx context.Context, user auth.UserContext, leaveType string, start, end time.Time, startHalf, endHalf bool, reason string) (Request, error) {
	if user.EmployeeID == "" {
		return Request{}, ErrForbidden
	}
	leaveType = strings.ToUpper(strings.TrimSpace(leaveType))
	if !validType(leaveType) {
		return Request{}, ErrInvalidType
	}
	days, err := CalculateRequestDays(start, end, startHalf, endHalf)
	if err != nil {
		return Request{}, err
	}
	id, err := s.Store.Create(ctx, Request{
		EmployeeID: user.EmployeeID,
		LeaveType:  leaveType,
		StartDate:  start,
		EndDate:    end,
		StartHalf:  startHalf,
		EndHalf:    endHalf,
		Days:       days,
		Reason:     reason,
		Status:     workflow.LeaveRequests.Initial,
	})
	if err != nil {
		return Request{}, err
	}
	return s.Store.Get(ctx, id)
}

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

// Transition handles approve, reject and cancel. Cancelling is owner-only
// unless the caller is an admin, and managers may only review requests from
// their own reports.
func (s *Service) Transition(ctx context.Context, user auth.UserContext, id string, to workflow.Status) (Request, error) {
	r, err := s.Store.Get(ctx, id)
	if err != nil {
		return Request{}, err
	}
	if err := workflow.LeaveRequests.Transition(r.Status, to, user.Role); err != nil {
		return Request{}, err
	}
	if to == workflow.StatusCancelled && user.Role != auth.RoleAdmin && user.EmployeeID != r.EmployeeID {
		return Request{}, ErrForbidden
	}
	reviewer := ""
	if to == workflow.StatusApproved || to == workflow.StatusRejected {
		if user.Role == auth.RoleManager {
			reports, err := s.Managers.IsManagerOf(ctx, user.EmployeeID, r.EmployeeID)
			if err != nil {
				return Request{}, err
			}
			if !reports {
				return Request{}, ErrForbidden
			}
		}
		reviewer = user.UserID
	}
	if err := s.Store.TransitionStatus(ctx, id, r.Status, to, r.Version, reviewer); err != nil {
		return Request{}, err
	}
	return s.Store.Get(ctx, id)
}

func validType(value string) bool {
	for _, t := range Types {
		if t == value {
			return true
		}
	}
	return false
}
