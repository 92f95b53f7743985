package reports

import (
	"context"

	"hrmflow/internal/platform/db"
)

type Store struct {
	DB db.Querier
}

func NewStore(q db.Querier) *Store {
	return &Store{DB: q}
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

type DepartmentCount struct {
	Department string `json:"department"`
	Count      int    `json:"count"`
}

type PeriodTotal struct {
	Period        string `json:"period"`
	NetTotalCents int64  `json:"netTotalCents"`
	Records       int    `json:"records"`
}

func (s *Store) countByStatus(ctx context.Context, query string) ([]StatusCount, error) {
	rows, err := s.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StatusCount
	for rows.Next() {
		var c StatusCount
		if err := rows.Scan(&c.Status, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) RequestsByStatus(ctx context.Context) ([]StatusCount, error) {
	return s.countByStatus(ctx, `
    SELECT status, COUNT(1) FROM employee_requests GROUP BY status ORDER BY status
  `)
}

func (s *Store) OnboardingByStatus(ctx context.Context) ([]StatusCount, error) {
	return s.countByStatus(ctx, `
    SELECT status, COUNT(1) FROM onboarding_submissions GROUP BY status ORDER BY status
  `)
}

func (s *Store) LeaveByStatus(ctx context.Context) ([]StatusCount, error) {
	return s.countByStatus(ctx, `
    SELECT status, COUNT(1) FROM leave_requests GROUP BY status ORDER BY status
  `)
}

func (s *Store) VariablePayByStatus(ctx context.Context) ([]StatusCount, error) {
	return s.countByStatus(ctx, `
    SELECT status, COUNT(1) FROM variable_pay_entries GROUP BY status ORDER BY status
  `)
}

func (s *Store) HeadcountByDepartment(ctx context.Context) ([]DepartmentCount, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT COALESCE(d.name, 'Unassigned'), COUNT(1)
    FROM employees e
    LEFT JOIN departments d ON e.department_id = d.id
    WHERE e.active
    GROUP BY d.name
    ORDER BY d.name NULLS LAST
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DepartmentCount
	for rows.Next() {
		var c DepartmentCount
		if err := rows.Scan(&c.Department, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) PayrollNetByPeriod(ctx context.Context, limit int) ([]PeriodTotal, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT period, SUM(net_salary_cents), COUNT(1)
    FROM payroll_records
    GROUP BY period
    ORDER BY period DESC
    LIMIT $1
  `, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PeriodTotal
	for rows.Next() {
		var t PeriodTotal
		if err := rows.Scan(&t.Period, &t.NetTotalCents, &t.Records); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
