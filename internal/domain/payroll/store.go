package payroll

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"hrmflow/internal/domain/workflow"
	"hrmflow/internal/platform/db"
)

type Store struct {
	DB db.Querier
}

func NewStore(q db.Querier) *Store {
	return &Store{DB: q}
}

const recordColumns = `
    SELECT id, employee_id, period, status, version,
           base_salary_cents, hra_cents, pf_cents, esi_cents, variable_pay_cents,
           overtime_cents, bonus_cents, allowances_cents, tax_cents, insurance_cents,
           leave_deduction_cents, other_deduction_cents,
           total_earnings_cents, total_deductions_cents, net_salary_cents,
           created_at, updated_at
    FROM payroll_records
`

func scanRecord(row pgx.Row) (Record, error) {
	var r Record
	err := row.Scan(&r.ID, &r.EmployeeID, &r.Period, &r.Status, &r.Version,
		&r.Breakdown.BaseSalaryCents, &r.Breakdown.HRACents, &r.Breakdown.PFCents, &r.Breakdown.ESICents,
		&r.Breakdown.VariablePayCents, &r.Breakdown.OvertimeCents, &r.Breakdown.BonusCents,
		&r.Breakdown.AllowancesCents, &r.Breakdown.TaxCents, &r.Breakdown.InsuranceCents,
		&r.Breakdown.LeaveDeductionCents, &r.Breakdown.OtherDeductionCents,
		&r.Breakdown.TotalEarningsCents, &r.Breakdown.TotalDeductionsCents, &r.Breakdown.NetSalaryCents,
		&r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, err
	}
	return r, nil
}

func (s *Store) CreateRecord(ctx context.Context, employeeID, period string, c Computation) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO payroll_records (
      employee_id, period, status,
      base_salary_cents, hra_cents, pf_cents, esi_cents, variable_pay_cents,
      overtime_cents, bonus_cents, allowances_cents, tax_cents, insurance_cents,
      leave_deduction_cents, other_deduction_cents,
      total_earnings_cents, total_deductions_cents, net_salary_cents
    )
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
    RETURNING id
  `, employeeID, period, string(workflow.StatusDraft),
		c.BaseSalaryCents, c.HRACents, c.PFCents, c.ESICents, c.VariablePayCents,
		c.OvertimeCents, c.BonusCents, c.AllowancesCents, c.TaxCents, c.InsuranceCents,
		c.LeaveDeductionCents, c.OtherDeductionCents,
		c.TotalEarningsCents, c.TotalDeductionsCents, c.NetSalaryCents).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return "", ErrDuplicate
		}
		return "", err
	}
	return id, nil
}

func (s *Store) GetRecord(ctx context.Context, id string) (Record, error) {
	return scanRecord(s.DB.QueryRow(ctx, recordColumns+" WHERE id = $1", id))
}

func (s *Store) ListRecords(ctx context.Context, employeeID, period string, limit, offset int) ([]Record, error) {
	rows, err := s.DB.Query(ctx, recordColumns+`
    WHERE ($1 = '' OR employee_id = NULLIF($1,'')::uuid)
      AND ($2 = '' OR period = $2)
    ORDER BY period DESC, created_at DESC
    LIMIT $3 OFFSET $4
  `, employeeID, period, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) TransitionRecord(ctx context.Context, id string, from, to workflow.Status, version int) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE payroll_records
    SET status = $2, version = version + 1, updated_at = now()
    WHERE id = $1 AND status = $3 AND version = $4
  `, id, string(to), string(from), version)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return workflow.ErrVersionConflict
	}
	return nil
}

// ApprovedVariablePayCents sums approved entries for an employee and period,
// used when freezing a record's breakdown.
func (s *Store) ApprovedVariablePayCents(ctx context.Context, employeeID, period string) (int64, error) {
	var total int64
	err := s.DB.QueryRow(ctx, `
    SELECT COALESCE(SUM(amount_cents), 0)
    FROM variable_pay_entries
    WHERE employee_id = $1 AND period = $2 AND status = $3
  `, employeeID, period, string(workflow.StatusApproved)).Scan(&total)
	return total, err
}

const variablePayColumns = `
    SELECT id, employee_id, period, amount_cents, reason, status, version,
           created_by, COALESCE(reviewed_by::text, ''), created_at, updated_at
    FROM variable_pay_entries
`

func scanVariablePay(row pgx.Row) (VariablePayEntry, error) {
	var v VariablePayEntry
	err := row.Scan(&v.ID, &v.EmployeeID, &v.Period, &v.AmountCents, &v.Reason, &v.Status, &v.Version,
		&v.CreatedBy, &v.ReviewedBy, &v.CreatedAt, &v.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return VariablePayEntry{}, ErrNotFound
	}
	if err != nil {
		return VariablePayEntry{}, err
	}
	return v, nil
}

func (s *Store) CreateVariablePay(ctx context.Context, employeeID, period string, amountCents int64, reason, createdBy string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO variable_pay_entries (employee_id, period, amount_cents, reason, status, created_by)
    VALUES ($1,$2,$3,$4,$5,$6)
    RETURNING id
  `, employeeID, period, amountCents, reason, string(workflow.StatusPending), createdBy).Scan(&id)
	return id, err
}

func (s *Store) GetVariablePay(ctx context.Context, id string) (VariablePayEntry, error) {
	return scanVariablePay(s.DB.QueryRow(ctx, variablePayColumns+" WHERE id = $1", id))
}

func (s *Store) ListVariablePay(ctx context.Context, employeeID, period, status string, limit, offset int) ([]VariablePayEntry, error) {
	rows, err := s.DB.Query(ctx, variablePayColumns+`
    WHERE ($1 = '' OR employee_id = NULLIF($1,'')::uuid)
      AND ($2 = '' OR period = $2)
      AND ($3 = '' OR status = $3)
    ORDER BY created_at DESC
    LIMIT $4 OFFSET $5
  `, employeeID, period, status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []VariablePayEntry
	for rows.Next() {
		v, err := scanVariablePay(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *Store) TransitionVariablePay(ctx context.Context, id string, from, to workflow.Status, version int, reviewerUserID string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE variable_pay_entries
    SET status = $2, version = version + 1, reviewed_by = $5, updated_at = now()
    WHERE id = $1 AND status = $3 AND version = $4
  `, id, string(to), string(from), version, reviewerUserID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return workflow.ErrVersionConflict
	}
	return nil
}

const correctionColumns = `
    SELECT id, record_id, employee_id, description, COALESCE(resolution, ''), status, version, created_at, updated_at
    FROM payroll_corrections
`

func scanCorrection(row pgx.Row) (CorrectionRequest, error) {
	var c CorrectionRequest
	err := row.Scan(&c.ID, &c.RecordID, &c.EmployeeID, &c.Description, &c.Resolution, &c.Status, &c.Version, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return CorrectionRequest{}, ErrNotFound
	}
	if err != nil {
		return CorrectionRequest{}, err
	}
	return c, nil
}

func (s *Store) CreateCorrection(ctx context.Context, recordID, employeeID, description string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO payroll_corrections (record_id, employee_id, description, status)
    VALUES ($1,$2,$3,$4)
    RETURNING id
  `, recordID, employeeID, description, string(workflow.StatusPending)).Scan(&id)
	return id, err
}

func (s *Store) GetCorrection(ctx context.Context, id string) (CorrectionRequest, error) {
	return scanCorrection(s.DB.QueryRow(ctx, correctionColumns+" WHERE id = $1", id))
}

func (s *Store) ListCorrections(ctx context.Context, employeeID, status string, limit, offset int) ([]CorrectionRequest, error) {
	rows, err := s.DB.Query(ctx, correctionColumns+`
    WHERE ($1 = '' OR employee_id = NULLIF($1,'')::uuid)
      AND ($2 = '' OR status = $2)
    ORDER BY created_at DESC
    LIMIT $3 OFFSET $4
  `, employeeID, status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CorrectionRequest
	for rows.Next() {
		c, err := scanCorrection(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) TransitionCorrection(ctx context.Context, id string, from, to workflow.Status, version int, resolution string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE payroll_corrections
    SET status = $2, version = version + 1, resolution = NULLIF($5, ''), updated_at = now()
    WHERE id = $1 AND status = $3 AND version = $4
  `, id, string(to), string(from), version, resolution)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return workflow.ErrVersionConflict
	}
	return nil
}
