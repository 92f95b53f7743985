package payroll

import (
	"errors"
	"testing"
)

func TestComputeComponents(t *testing.T) {
	// 50,000.00 base.
	c, err := Compute(PayInput{BaseSalaryCents: 5000000})
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}
	if c.HRACents != 2000000 {
		t.Fatalf("HRA = %d, want 2000000 (40%% of base)", c.HRACents)
	}
	if c.PFCents != 600000 {
		t.Fatalf("PF = %d, want 600000 (12%% of base)", c.PFCents)
	}
	if c.ESICents != 37500 {
		t.Fatalf("ESI = %d, want 37500 (0.75%% of base)", c.ESICents)
	}
	if c.TotalEarningsCents != 7000000 {
		t.Fatalf("earnings = %d, want 7000000", c.TotalEarningsCents)
	}
	if c.TotalDeductionsCents != 637500 {
		t.Fatalf("deductions = %d, want 637500", c.TotalDeductionsCents)
	}
	if c.NetSalaryCents != 6362500 {
		t.Fatalf("net = %d, want 6362500", c.NetSalaryCents)
	}
}

func TestComputeNetIdentity(t *testing.T) {
	inputs := []PayInput{
		{BaseSalaryCents: 1},
		{BaseSalaryCents: 333333, TaxCents: 10000, InsuranceCents: 2500},
		{BaseSalaryCents: 987654321, VariablePayCents: 12345, OvertimeCents: 678,
			BonusCents: 90000, AllowancesCents: 1, TaxCents: 55555, InsuranceCents: 444,
			LeaveDeductionCents: 33, OtherDeductionCents: 2},
		{BaseSalaryCents: 2500000, LeaveDeductionCents: 125000},
	}
	for _, in := range inputs {
		c, err := Compute(in)
		if err != nil {
			t.Fatalf("compute(%+v) failed: %v", in, err)
		}
		if c.NetSalaryCents != c.TotalEarningsCents-c.TotalDeductionsCents {
			t.Fatalf("net identity broken for %+v: %d != %d - %d",
				in, c.NetSalaryCents, c.TotalEarningsCents, c.TotalDeductionsCents)
		}
	}
}

func TestComputeRoundsHalfUp(t *testing.T) {
	// 1.33 base: ESI raw is 0.9975 cents, rounds to 1.
	c, err := Compute(PayInput{BaseSalaryCents: 133})
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}
	if c.ESICents != 1 {
		t.Fatalf("ESI = %d, want 1", c.ESICents)
	}
	// 0.01 base: HRA raw 0.004 cents, rounds to 0.
	c, err = Compute(PayInput{BaseSalaryCents: 1})
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}
	if c.HRACents != 0 {
		t.Fatalf("HRA = %d, want 0", c.HRACents)
	}
}

func TestComputeRejectsNonPositiveSalary(t *testing.T) {
	for _, base := range []int64{0, -1, -5000000} {
		if _, err := Compute(PayInput{BaseSalaryCents: base}); !errors.Is(err, ErrInvalidSalary) {
			t.Fatalf("base %d: expected ErrInvalidSalary, got %v", base, err)
		}
	}
}

func TestValidPeriod(t *testing.T) {
	valid := []string{"2026-01", "2025-12"}
	invalid := []string{"", "2026-13", "2026-1", "202601", "2026/01", "abcd-ef"}
	for _, p := range valid {
		if !ValidPeriod(p) {
			t.Errorf("ValidPeriod(%q) = false, want true", p)
		}
	}
	for _, p := range invalid {
		if ValidPeriod(p) {
			t.Errorf("ValidPeriod(%q) = true, want false", p)
		}
	}
}
