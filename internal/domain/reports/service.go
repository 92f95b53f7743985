package reports

import "context"

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

type Dashboard struct {
	Requests      []StatusCount     `json:"requests"`
	Onboarding    []StatusCount     `json:"onboarding"`
	Leave         []StatusCount     `json:"leave"`
	VariablePay   []StatusCount     `json:"variablePay"`
	Headcount     []DepartmentCount `json:"headcount"`
	PayrollTotals []PeriodTotal     `json:"payrollTotals"`
}

// BuildDashboard recomputes all rollups on read. Grouping and summing only;
// nothing is cached.
func (s *Service) BuildDashboard(ctx context.Context) (Dashboard, error) {
	var d Dashboard
	var err error

	if d.Requests, err = s.Store.RequestsByStatus(ctx); err != nil {
		return Dashboard{}, err
	}
	if d.Onboarding, err = s.Store.OnboardingByStatus(ctx); err != nil {
		return Dashboard{}, err
	}
	if d.Leave, err = s.Store.LeaveByStatus(ctx); err != nil {
		return Dashboard{}, err
	}
	if d.VariablePay, err = s.Store.VariablePayByStatus(ctx); err != nil {
		return Dashboard{}, err
	}
	if d.Headcount, err = s.Store.HeadcountByDepartment(ctx); err != nil {
		return Dashboard{}, err
	}
	if d.PayrollTotals, err = s.Store.PayrollNetByPeriod(ctx, 12); err != nil {
		return Dashboard{}, err
	}
	return d, nil
}
