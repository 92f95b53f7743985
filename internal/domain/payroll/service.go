package payroll

import (
	"context"
	"errors"
	"strings"

	"hrmflow/internal/domain/auth"
	"hrmflow/internal/domain/employee"
	"hrmflow/internal/domain/workflow"
)

var (
	ErrForbidden     = errors.New("forbidden")
	ErrInvalidAmount = errors.New("amount must be positive")
	ErrEmptyReason   = errors.New("reason is required")
)

type Service struct {
	Store     *Store
	Employees *employee.Store
}

func NewService(store *Store, employees *employee.Store) *Service {
	return &Service{Store: store, Employees: employees}
}

// RecordInput is everything a payroll run needs besides the base salary and
// the approved variable pay, which the service resolves itself.
type RecordInput struct {
	EmployeeID          string `json:"employeeId"`
	Period              string `json:"period"`
	OvertimeCents       int64  `json:"overtimeCents"`
	BonusCents          int64  `json:"bonusCents"`
	AllowancesCents     int64  `json:"allowancesCents"`
	TaxCents            int64  `json:"taxCents"`
	InsuranceCents      int64  `json:"insuranceCents"`
	LeaveDeductionCents int64  `json:"leaveDeductionCents"`
	OtherDeductionCents int64  `json:"otherDeductionCents"`
}

// CreateRecord freezes the computed breakdown at creation time. Approved
// variable-pay entries for the period are folded in; later approvals do not
// change an existing record, they need a correction.
func (s *Service) CreateRecord(ctx context.Context, in RecordInput) (Record, error) {
	if !ValidPeriod(in.Period) {
		return Record{}, ErrInvalidPeriod
	}
	base, err := s.Employees.BaseSalaryCents(ctx, in.EmployeeID)
	if err != nil {
		return Record{}, err
	}
	variable, err := s.Store.ApprovedVariablePayCents(ctx, in.EmployeeID, in.Period)
	if err != nil {
		return Record{}, err
	}

	computation, err := Compute(PayInput{
		BaseSalaryCents:     base,
		VariablePayCents:    variable,
		OvertimeCents:       in.OvertimeCents,
		BonusCents:          in.BonusCents,
		AllowancesCents:     in.AllowancesCents,
		TaxCents:            in.TaxCents,
		InsuranceCents:      in.InsuranceCents,
		LeaveDeductionCents: in.LeaveDeductionCents,
		OtherDeductionCents: in.OtherDeductionCents,
	})
	if err != nil {
		return Record{}, err
	}

	id, err := s.Store.CreateRecord(ctx, in.EmployeeID, in.Period, computation)
	if err != nil {
		return Record{}, err
	}
	return s.Store.GetRecord(ctx, id)
}

func (s *Service) GetRecord(ctx context.Context, user auth.UserContext, id string) (Record, error) {
	r, err := s.Store.GetRecord(ctx, id)
	if err != nil {
		return Record{}, err
	}
	if !user.IsManagerOrAdmin() && user.EmployeeID != r.EmployeeID {
		return Record{}, ErrForbidden
	}
	return r, nil
}

func (s *Service) ListRecords(ctx context.Context, user auth.UserContext, period string, limit, offset int) ([]Record, error) {
	scope := ""
	if !user.IsManagerOrAdmin() {
		if user.EmployeeID == "" {
			return nil, ErrForbidden
		}
		scope = user.EmployeeID
	}
	return s.Store.ListRecords(ctx, scope, period, limit, offset)
}

func (s *Service) TransitionRecord(ctx context.Context, user auth.UserContext, id string, to workflow.Status) (Record, error) {
	r, err := s.Store.GetRecord(ctx, id)
	if err != nil {
		return Record{}, err
	}
	if err := workflow.PayrollRecords.Transition(r.Status, to, user.Role); err != nil {
		return Record{}, err
	}
	if err := s.Store.TransitionRecord(ctx, id, r.Status, to, r.Version); err != nil {
		return Record{}, err
	}
	return s.Store.GetRecord(ctx, id)
}

func (s *Service) CreateVariablePay(ctx context.Context, user auth.UserContext, employeeID, period string, amountCents int64, reason string) (string, error) {
	if !ValidPeriod(period) {
		return "", ErrInvalidPeriod
	}
	if amountCents <= 0 {
		return "", ErrInvalidAmount
	}
	if strings.TrimSpace(reason) == "" {
		return "", ErrEmptyReason
	}
	return s.Store.CreateVariablePay(ctx, employeeID, period, amountCents, reason, user.UserID)
}

func (s *Service) ListVariablePay(ctx context.Context, user auth.UserContext, period, status string, limit, offset int) ([]VariablePayEntry, error) {
	scope := ""
	if !user.IsManagerOrAdmin() {
		if user.EmployeeID == "" {
			return nil, ErrForbidden
		}
		scope = user.EmployeeID
	}
	return s.Store.ListVariablePay(ctx, scope, period, status, limit, offset)
}

func (s *Service) ReviewVariablePay(ctx context.Context, user auth.UserContext, id string, approve bool) (VariablePayEntry, error) {
	entry, err := s.Store.GetVariablePay(ctx, id)
	if err != nil {
		return VariablePayEntry{}, err
	}
	to := workflow.StatusRejected
	if approve {
		to = workflow.StatusApproved
	}
	if err := workflow.VariablePay.Transition(entry.Status, to, user.Role); err != nil {
		return VariablePayEntry{}, err
	}
	if err := s.Store.TransitionVariablePay(ctx, id, entry.Status, to, entry.Version, user.UserID); err != nil {
		return VariablePayEntry{}, err
	}
	return s.Store.GetVariablePay(ctx, id)
}

// CreateCorrection lets an employee dispute their own payslip only.
func (s *Service) CreateCorrection(ctx context.Context, user auth.UserContext, recordID, description string) (string, error) {
	record, err := s.Store.GetRecord(ctx, recordID)
	if err != nil {
		return "", err
	}
	if user.EmployeeID == "" || user.EmployeeID != record.EmployeeID {
		return "", ErrForbidden
	}
	if strings.TrimSpace(description) == "" {
		return "", ErrEmptyReason
	}
	return s.Store.CreateCorrection(ctx, recordID, user.EmployeeID, description)
}

func (s *Service) ListCorrections(ctx context.Context, user auth.UserContext, status string, limit, offset int) ([]CorrectionRequest, error) {
	scope := ""
	if !user.IsManagerOrAdmin() {
		if user.EmployeeID == "" {
			return nil, ErrForbidden
		}
		scope = user.EmployeeID
	}
	return s.Store.ListCorrections(ctx, scope, status, limit, offset)
}

func (s *Service) ReviewCorrection(ctx context.Context, user auth.UserContext, id string, to workflow.Status, resolution string) (CorrectionRequest, error) {
	c, err := s.Store.GetCorrection(ctx, id)
	if err != nil {
		return CorrectionRequest{}, err
	}
	if err := workflow.CorrectionRequests.Transition(c.Status, to, user.Role); err != nil {
		return CorrectionRequest{}, err
	}
	if err := s.Store.TransitionCorrection(ctx, id, c.Status, to, c.Version, resolution); err != nil {
		return CorrectionRequest{}, err
	}
	return s.Store.GetCorrection(ctx, id)
}
