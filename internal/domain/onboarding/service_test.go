package onboarding

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
)

func newMockService(t *testing.T) (*Service, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	t.Cleanup(mock.Close)
	return NewService(NewStore(mock)), mock
}

func expectSubmission(mock pgxmock.PgxPoolIface, id, employeeID, status string) {
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM onboarding_submissions")).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "employee_id", "status", "created_at", "completed_at",
		}).AddRow(id, employeeID, status, now, nil))
	mock.ExpectQuery(regexp.QuoteMeta("FROM onboarding_steps")).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "submission_id", "ordinal", "title", "payload", "review_note",
			"status", "version", "reviewed_by", "created_at", "updated_at",
		}))
}

// A submission that already reached COMPLETED is never re-derived: the refresh
// reads it, sees COMPLETED, and issues no further statements.
func TestRefreshSkipsCompletedSubmission(t *testing.T) {
	svc, mock := newMockService(t)

	expectSubmission(mock, "sub-1", "emp-1", "COMPLETED")

	if err := svc.refreshSubmission(context.Background(), "sub-1"); err != nil {
		t.Fatalf("refreshSubmission: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected extra statements: %v", err)
	}
}

func TestRefreshDerivesCompletedWhenAllApproved(t *testing.T) {
	svc, mock := newMockService(t)

	expectSubmission(mock, "sub-1", "emp-1", "IN_PROGRESS")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT status FROM onboarding_steps")).
		WithArgs("sub-1").
		WillReturnRows(pgxmock.NewRows([]string{"status"}).
			AddRow("APPROVED").AddRow("APPROVED"))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE onboarding_submissions")).
		WithArgs("sub-1", "COMPLETED", true).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	if err := svc.refreshSubmission(context.Background(), "sub-1"); err != nil {
		t.Fatalf("refreshSubmission: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRefreshLeavesUnchangedStatusAlone(t *testing.T) {
	svc, mock := newMockService(t)

	expectSubmission(mock, "sub-1", "emp-1", "IN_PROGRESS")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT status FROM onboarding_steps")).
		WithArgs("sub-1").
		WillReturnRows(pgxmock.NewRows([]string{"status"}).
			AddRow("APPROVED").AddRow("SUBMITTED"))

	if err := svc.refreshSubmission(context.Background(), "sub-1"); err != nil {
		t.Fatalf("refreshSubmission: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected update for unchanged status: %v", err)
	}
}
