package onboarding

import (
	"context"
	"database/sql"
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

// CreateSubmission inserts the submission and its step rows in one
// transaction so a half-created checklist never becomes visible.
func (s *Store) CreateSubmission(ctx context.Context, employeeID string, stepTitles []string) (string, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return "", err
	}
	var id string
	err = tx.QueryRow(ctx, `
    INSERT INTO onboarding_submissions (employee_id, status)
    VALUES ($1, $2)
    RETURNING id
  `, employeeID, string(workflow.StatusPending)).Scan(&id)
	if err != nil {
		_ = tx.Rollback(ctx)
		return "", err
	}
	for i, title := range stepTitles {
		if _, err := tx.Exec(ctx, `
      INSERT INTO onboarding_steps (submission_id, ordinal, title, status)
      VALUES ($1,$2,$3,$4)
    `, id, i+1, title, string(workflow.StatusPending)); err != nil {
			_ = tx.Rollback(ctx)
			return "", err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) GetSubmission(ctx context.Context, id string) (Submission, error) {
	var sub Submission
	var completedAt sql.NullTime
	err := s.DB.QueryRow(ctx, `
    SELECT id, employee_id, status, created_at, completed_at
    FROM onboarding_submissions
    WHERE id = $1
  `, id).Scan(&sub.ID, &sub.EmployeeID, &sub.Status, &sub.CreatedAt, &completedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Submission{}, ErrNotFound
	}
	if err != nil {
		return Submission{}, err
	}
	if completedAt.Valid {
		t := completedAt.Time
		sub.CompletedAt = &t
	}

	steps, err := s.ListSteps(ctx, id)
	if err != nil {
		return Submission{}, err
	}
	sub.Steps = steps
	return sub, nil
}

func (s *Store) ListSubmissions(ctx context.Context, employeeID, status string, limit, offset int) ([]Submission, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_id, status, created_at, completed_at
    FROM onboarding_submissions
    WHERE ($1 = '' OR employee_id = NULLIF($1,'')::uuid)
      AND ($2 = '' OR status = $2)
    ORDER BY created_at DESC
    LIMIT $3 OFFSET $4
  `, employeeID, status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Submission
	for rows.Next() {
		var sub Submission
		var completedAt sql.NullTime
		if err := rows.Scan(&sub.ID, &sub.EmployeeID, &sub.Status, &sub.CreatedAt, &completedAt); err != nil {
			return nil, err
		}
		if completedAt.Valid {
			t := completedAt.Time
			sub.CompletedAt = &t
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}

const stepColumns = `
    SELECT id, submission_id, ordinal, title, COALESCE(payload, ''), COALESCE(review_note, ''),
           status, version, COALESCE(reviewed_by::text, ''), created_at, updated_at
    FROM onboarding_steps
`

func scanStep(row pgx.Row) (Step, error) {
	var st Step
	err := row.Scan(&st.ID, &st.SubmissionID, &st.Ordinal, &st.Title, &st.Payload, &st.ReviewNote,
		&st.Status, &st.Version, &st.ReviewedBy, &st.CreatedAt, &st.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Step{}, ErrNotFound
	}
	if err != nil {
		return Step{}, err
	}
	return st, nil
}

func (s *Store) GetStep(ctx context.Context, id string) (Step, error) {
	return scanStep(s.DB.QueryRow(ctx, stepColumns+" WHERE id = $1", id))
}

func (s *Store) ListSteps(ctx context.Context, submissionID string) ([]Step, error) {
	rows, err := s.DB.Query(ctx, stepColumns+`
    WHERE submission_id = $1
    ORDER BY ordinal
  `, submissionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Step
	for rows.Next() {
		st, err := scanStep(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (s *Store) StepStatuses(ctx context.Context, submissionID string) ([]workflow.Status, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT status FROM onboarding_steps WHERE submission_id = $1 ORDER BY ordinal
  `, submissionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []workflow.Status
	for rows.Next() {
		var status workflow.Status
		if err := rows.Scan(&status); err != nil {
			return nil, err
		}
		out = append(out, status)
	}
	return out, rows.Err()
}

// TransitionStep writes the new status, payload or review note, and the
// version bump in one compare-and-set.
func (s *Store) TransitionStep(ctx context.Context, id string, from, to workflow.Status, version int, payload, reviewNote, reviewerUserID string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE onboarding_steps
    SET status = $2,
        version = version + 1,
        payload = COALESCE(NULLIF($5, ''), payload),
        review_note = NULLIF($6, ''),
        reviewed_by = NULLIF($7, '')::uuid,
        updated_at = now()
    WHERE id = $1 AND status = $3 AND version = $4
  `, id, string(to), string(from), version, payload, reviewNote, reviewerUserID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return workflow.ErrVersionConflict
	}
	return nil
}

func (s *Store) SetSubmissionStatus(ctx context.Context, id string, status workflow.Status) error {
	completed := status == workflow.StatusCompleted
	_, err := s.DB.Exec(ctx, `
    UPDATE onboarding_submissions
    SET status = $2,
        completed_at = CASE WHEN $3 THEN now() ELSE completed_at END
    WHERE id = $1
  `, id, string(status), completed)
	return err
}
