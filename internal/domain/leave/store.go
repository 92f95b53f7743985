package leave

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"hrmflow/internal/domain/workflow"
	"hrmflow/internal/platform/db"
)

type Store struct {
	DB db.Querier
}

func NewStore(q db.Querier) *Store {
	return &Store{DB: q}
}

const leaveColumns = `
    SELECT id, employee_id, leave_type, start_date, end_date, start_half, end_half,
           days, reason, status, version, COALESCE(reviewed_by::text, ''), created_at, updated_at
    FROM leave_requests
`

func scanRequest(row pgx.Row) (Request, error) {
	var r Request
	err := row.Scan(&r.ID, &r.EmployeeID, &r.LeaveType, &r.StartDate, &r.EndDate, &r.StartHalf, &r.EndHalf,
		&r.Days, &r.Reason, &r.Status, &r.Version, &r.ReviewedBy, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Request{}, ErrNotFound
	}
	if err != nil {
		return Request{}, err
	}
	return r, nil
}

func (s *Store) Create(ctx context.Context, r Request) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO leave_requests (employee_id, leave_type, start_date, end_date, start_half, end_half, days, reason, status)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
    RETURNING id
  `, r.EmployeeID, r.LeaveType, r.StartDate, r.EndDate, r.StartHalf, r.EndHalf, r.Days, r.Reason, string(r.Status)).Scan(&id)
	return id, err
}

func (s *Store) Get(ctx context.Context, id string) (Request, error) {
	return scanRequest(s.DB.QueryRow(ctx, leaveColumns+" WHERE id = $1", id))
}

func (s *Store) List(ctx context.Context, employeeID, status string, limit, offset int) ([]Request, error) {
	rows, err := s.DB.Query(ctx, leaveColumns+`
    WHERE ($1 = '' OR employee_id = NULLIF($1,'')::uuid)
      AND ($2 = '' OR status = $2)
    ORDER BY created_at DESC
    LIMIT $3 OFFSET $4
  `, employeeID, status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Request
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) TransitionStatus(ctx context.Context, id string, from, to workflow.Status, version int, reviewerUserID string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE leave_requests
    SET status = $2, version = version + 1, reviewed_by = NULLIF($5,'')::uuid, updated_at = now()
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
