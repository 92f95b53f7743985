package notifications

import (
	"context"
	"time"

	"hrmflow/internal/platform/db"
)

const (
	TypeRequestAssigned    = "request_assigned"
	TypeRequestStatus      = "request_status"
	TypeStepReviewed       = "onboarding_step_reviewed"
	TypeLeaveReviewed      = "leave_reviewed"
	TypeVariablePayReview  = "variable_pay_reviewed"
	TypeCorrectionReviewed = "correction_reviewed"
)

type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	ReadAt    *string   `json:"readAt,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type Service struct {
	DB db.Querier
}

func New(q db.Querier) *Service {
	return &Service{DB: q}
}

func (s *Service) Create(ctx context.Context, userID, ntype, title, body string) error {
	if userID == "" {
		return nil
	}
	_, err := s.DB.Exec(ctx, `
    INSERT INTO notifications (user_id, type, title, body)
    VALUES ($1,$2,$3,$4)
  `, userID, ntype, title, body)
	return err
}

// NotifyEmployee resolves the employee's user account and writes the
// notification. Employees without a login get nothing, silently.
func (s *Service) NotifyEmployee(ctx context.Context, employeeID, ntype, title, body string) error {
	var userID string
	err := s.DB.QueryRow(ctx, `
    SELECT COALESCE(user_id::text, '') FROM employees WHERE id = $1
  `, employeeID).Scan(&userID)
	if err != nil || userID == "" {
		return err
	}
	return s.Create(ctx, userID, ntype, title, body)
}

func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Notification, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, user_id, type, title, body, read_at::text, created_at
    FROM notifications
    WHERE user_id = $1
    ORDER BY created_at DESC
    LIMIT $2 OFFSET $3
  `, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Body, &n.ReadAt, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *Service) MarkRead(ctx context.Context, userID, notificationID string) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE notifications SET read_at = now() WHERE id = $1 AND user_id = $2 AND read_at IS NULL
  `, notificationID, userID)
	return err
}

func (s *Service) UnreadCount(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FROM notifications WHERE user_id = $1 AND read_at IS NULL
  `, userID).Scan(&count)
	return count, err
}
