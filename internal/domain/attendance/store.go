package attendance

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"hrmflow/internal/platform/db"
)

var (
	ErrAlreadyClockedIn = errors.New("already clocked in")
	ErrNotClockedIn     = errors.New("no open attendance entry")
)

type Entry struct {
	ID         string     `json:"id"`
	EmployeeID string     `json:"employeeId"`
	ClockIn    time.Time  `json:"clockIn"`
	ClockOut   *time.Time `json:"clockOut,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

type Summary struct {
	EmployeeID   string `json:"employeeId"`
	Period       string `json:"period"`
	DaysPresent  int    `json:"daysPresent"`
	TotalMinutes int64  `json:"totalMinutes"`
}

type Store struct {
	DB db.Querier
}

func NewStore(q db.Querier) *Store {
	return &Store{DB: q}
}

func (s *Store) ClockIn(ctx context.Context, employeeID string) (Entry, error) {
	var open int
	if err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FROM attendance_entries WHERE employee_id = $1 AND clock_out IS NULL
  `, employeeID).Scan(&open); err != nil {
		return Entry{}, err
	}
	if open > 0 {
		return Entry{}, ErrAlreadyClockedIn
	}

	var e Entry
	err := s.DB.QueryRow(ctx, `
    INSERT INTO attendance_entries (employee_id, clock_in)
    VALUES ($1, now())
    RETURNING id, employee_id, clock_in, created_at
  `, employeeID).Scan(&e.ID, &e.EmployeeID, &e.ClockIn, &e.CreatedAt)
	return e, err
}

func (s *Store) ClockOut(ctx context.Context, employeeID string) (Entry, error) {
	var e Entry
	var out sql.NullTime
	err := s.DB.QueryRow(ctx, `
    UPDATE attendance_entries
    SET clock_out = now()
    WHERE employee_id = $1 AND clock_out IS NULL
    RETURNING id, employee_id, clock_in, clock_out, created_at
  `, employeeID).Scan(&e.ID, &e.EmployeeID, &e.ClockIn, &out, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Entry{}, ErrNotClockedIn
	}
	if err != nil {
		return Entry{}, err
	}
	if out.Valid {
		t := out.Time
		e.ClockOut = &t
	}
	return e, nil
}

func (s *Store) List(ctx context.Context, employeeID string, limit, offset int) ([]Entry, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_id, clock_in, clock_out, created_at
    FROM attendance_entries
    WHERE employee_id = $1
    ORDER BY clock_in DESC
    LIMIT $2 OFFSET $3
  `, employeeID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var clockOut sql.NullTime
		if err := rows.Scan(&e.ID, &e.EmployeeID, &e.ClockIn, &clockOut, &e.CreatedAt); err != nil {
			return nil, err
		}
		if clockOut.Valid {
			t := clockOut.Time
			e.ClockOut = &t
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Summarize aggregates the closed entries of a YYYY-MM period.
func (s *Store) Summarize(ctx context.Context, employeeID, period string) (Summary, error) {
	summary := Summary{EmployeeID: employeeID, Period: period}
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(DISTINCT clock_in::date),
           COALESCE(SUM(EXTRACT(EPOCH FROM (clock_out - clock_in)) / 60), 0)::bigint
    FROM attendance_entries
    WHERE employee_id = $1
      AND clock_out IS NOT NULL
      AND to_char(clock_in, 'YYYY-MM') = $2
  `, employeeID, period).Scan(&summary.DaysPresent, &summary.TotalMinutes)
	return summary, err
}
