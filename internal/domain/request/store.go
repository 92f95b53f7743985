package request

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"hrmflow/internal/domain/workflow"
	"hrmflow/internal/platform/db"
)

var ErrNotFound = errors.New("request not found")

type Store struct {
	DB db.Querier
}

func NewStore(q db.Querier) *Store {
	return &Store{DB: q}
}

const requestColumns = `
    SELECT id, employee_id, COALESCE(assignee_id::text, ''), category, priority, subject, body, status, version, created_at, updated_at
    FROM employee_requests
`

func scanRequest(row pgx.Row) (Request, error) {
	var r Request
	err := row.Scan(&r.ID, &r.EmployeeID, &r.AssigneeID, &r.Category, &r.Priority, &r.Subject, &r.Body, &r.Status, &r.Version, &r.CreatedAt, &r.UpdatedAt)
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
    INSERT INTO employee_requests (employee_id, category, priority, subject, body, status)
    VALUES ($1,$2,$3,$4,$5,$6)
    RETURNING id
  `, r.EmployeeID, r.Category, r.Priority, r.Subject, r.Body, string(r.Status)).Scan(&id)
	return id, err
}

func (s *Store) Get(ctx context.Context, id string) (Request, error) {
	return scanRequest(s.DB.QueryRow(ctx, requestColumns+" WHERE id = $1", id))
}

// List returns all requests for managers/admins, or a single employee's own
// requests when employeeID is non-empty.
func (s *Store) List(ctx context.Context, employeeID, status string, limit, offset int) ([]Request, error) {
	rows, err := s.DB.Query(ctx, requestColumns+`
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

func (s *Store) UpdateContent(ctx context.Context, id, category, priority, subject, body string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE employee_requests
    SET category = $2, priority = $3, subject = $4, body = $5, updated_at = now()
    WHERE id = $1
  `, id, category, priority, subject, body)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Assign(ctx context.Context, id, assigneeID string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE employee_requests
    SET assignee_id = NULLIF($2,'')::uuid, updated_at = now()
    WHERE id = $1
  `, id, assigneeID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// TransitionStatus is a compare-and-set: the row must still hold the expected
// status and version or no row matches and the caller gets a conflict.
func (s *Store) TransitionStatus(ctx context.Context, id string, from, to workflow.Status, version int) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE employee_requests
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

func (s *Store) AddComment(ctx context.Context, requestID, authorID, body string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO request_comments (request_id, author_id, body)
    VALUES ($1,$2,$3)
    RETURNING id
  `, requestID, authorID, body).Scan(&id)
	return id, err
}

func (s *Store) ListComments(ctx context.Context, requestID string) ([]Comment, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, request_id, author_id, body, created_at
    FROM request_comments
    WHERE request_id = $1
    ORDER BY created_at
  `, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Comment
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.RequestID, &c.AuthorID, &c.Body, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
