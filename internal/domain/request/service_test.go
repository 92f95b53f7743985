package request

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"

	"hrmflow/internal/domain/auth"
	"hrmflow/internal/domain/workflow"
)

func newMockService(t *testing.T) (*Service, pgxmock.PgxPoolIface) {
	t.Helper()
	store, mock := newMockStore(t)
	return NewService(store), mock
}

func expectOpenRequest(mock pgxmock.PgxPoolIface, id, ownerEmployeeID string) {
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM employee_requests")).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "employee_id", "assignee_id", "category", "priority",
			"subject", "body", "status", "version", "created_at", "updated_at",
		}).AddRow(id, ownerEmployeeID, "", "IT", "MEDIUM", "badge", "lost badge", "OPEN", 0, now, now))
}

func TestCancelByNonOwnerEmployeeForbidden(t *testing.T) {
	svc, mock := newMockService(t)
	expectOpenRequest(mock, "req-1", "emp-owner")

	user := auth.UserContext{UserID: "u2", EmployeeID: "emp-other", Role: auth.RoleEmployee}
	_, err := svc.Transition(context.Background(), user, "req-1", workflow.StatusCancelled)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	// No UPDATE may reach the store when the ownership check refuses.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCancelByOwnerSucceeds(t *testing.T) {
	svc, mock := newMockService(t)
	now := time.Now()
	expectOpenRequest(mock, "req-1", "emp-owner")
	mock.ExpectExec(regexp.QuoteMeta("UPDATE employee_requests")).
		WithArgs("req-1", "CANCELLED", "OPEN", 0).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM employee_requests")).
		WithArgs("req-1").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "employee_id", "assignee_id", "category", "priority",
			"subject", "body", "status", "version", "created_at", "updated_at",
		}).AddRow("req-1", "emp-owner", "", "IT", "MEDIUM", "badge", "lost badge", "CANCELLED", 1, now, now))

	user := auth.UserContext{UserID: "u1", EmployeeID: "emp-owner", Role: auth.RoleEmployee}
	r, err := svc.Transition(context.Background(), user, "req-1", workflow.StatusCancelled)
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}
	if r.Status != workflow.StatusCancelled {
		t.Errorf("status = %q, want CANCELLED", r.Status)
	}
}

func TestCancelByAdminSucceeds(t *testing.T) {
	svc, mock := newMockService(t)
	now := time.Now()
	expectOpenRequest(mock, "req-1", "emp-owner")
	mock.ExpectExec(regexp.QuoteMeta("UPDATE employee_requests")).
		WithArgs("req-1", "CANCELLED", "OPEN", 0).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM employee_requests")).
		WithArgs("req-1").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "employee_id", "assignee_id", "category", "priority",
			"subject", "body", "status", "version", "created_at", "updated_at",
		}).AddRow("req-1", "emp-owner", "", "IT", "MEDIUM", "badge", "lost badge", "CANCELLED", 1, now, now))

	user := auth.UserContext{UserID: "admin", EmployeeID: "", Role: auth.RoleAdmin}
	if _, err := svc.Transition(context.Background(), user, "req-1", workflow.StatusCancelled); err != nil {
		t.Fatalf("Transition: %v", err)
	}
}
