package payroll

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"

	"hrmflow/internal/domain/workflow"
)

func newMockStore(t *testing.T) (*Store, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	t.Cleanup(mock.Close)
	return NewStore(mock), mock
}

func TestCreateRecordDuplicatePeriod(t *testing.T) {
	store, mock := newMockStore(t)

	c, err := Compute(PayInput{BaseSalaryCents: 5_000_000})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO payroll_records")).
		WithArgs("emp-1", "2026-08", "DRAFT",
			c.BaseSalaryCents, c.HRACents, c.PFCents, c.ESICents, c.VariablePayCents,
			c.OvertimeCents, c.BonusCents, c.AllowancesCents, c.TaxCents, c.InsuranceCents,
			c.LeaveDeductionCents, c.OtherDeductionCents,
			c.TotalEarningsCents, c.TotalDeductionsCents, c.NetSalaryCents).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err = store.CreateRecord(context.Background(), "emp-1", "2026-08", c)
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestTransitionRecordConflict(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE payroll_records")).
		WithArgs("rec-1", "PENDING_APPROVAL", "DRAFT", 2).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := store.TransitionRecord(context.Background(), "rec-1", workflow.StatusDraft, workflow.StatusPendingApproval, 2)
	if !errors.Is(err, workflow.ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}
}

func TestApprovedVariablePaySums(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(SUM(amount_cents), 0)")).
		WithArgs("emp-1", "2026-08", "APPROVED").
		WillReturnRows(pgxmock.NewRows([]string{"coalesce"}).AddRow(int64(250_000)))

	total, err := store.ApprovedVariablePayCents(context.Background(), "emp-1", "2026-08")
	if err != nil {
		t.Fatalf("ApprovedVariablePayCents: %v", err)
	}
	if total != 250_000 {
		t.Errorf("total = %d, want 250000", total)
	}
}

func TestTransitionVariablePaySetsReviewer(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE variable_pay_entries")).
		WithArgs("vp-1", "APPROVED", "PENDING", 0, "user-9").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := store.TransitionVariablePay(context.Background(), "vp-1", workflow.StatusPending, workflow.StatusApproved, 0, "user-9")
	if err != nil {
		t.Fatalf("TransitionVariablePay: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
