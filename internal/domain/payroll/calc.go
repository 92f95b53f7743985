package payroll

import "errors"

var ErrInvalidSalary = errors.New("base salary must be positive")

// All amounts are int64 cents. Percentage components round half-up so the
// breakdown is deterministic and net = earnings - deductions holds exactly.
const (
	hraNumerator = 40 // HRA: 40% of base
	pfNumerator  = 12 // PF: 12% of base
	esiNumerator = 75 // ESI: 0.75% of base, expressed over 10000
	percentDen   = 100
	basisDen     = 10000
)

type PayInput struct {
	BaseSalaryCents     int64 `json:"baseSalaryCents"`
	VariablePayCents    int64 `json:"variablePayCents"`
	OvertimeCents       int64 `json:"overtimeCents"`
	BonusCents          int64 `json:"bonusCents"`
	AllowancesCents     int64 `json:"allowancesCents"`
	TaxCents            int64 `json:"taxCents"`
	InsuranceCents      int64 `json:"insuranceCents"`
	LeaveDeductionCents int64 `json:"leaveDeductionCents"`
	OtherDeductionCents int64 `json:"otherDeductionCents"`
}

type Computation struct {
	BaseSalaryCents      int64 `json:"baseSalaryCents"`
	HRACents             int64 `json:"hraCents"`
	PFCents              int64 `json:"pfCents"`
	ESICents             int64 `json:"esiCents"`
	VariablePayCents     int64 `json:"variablePayCents"`
	OvertimeCents        int64 `json:"overtimeCents"`
	BonusCents           int64 `json:"bonusCents"`
	AllowancesCents      int64 `json:"allowancesCents"`
	TaxCents             int64 `json:"taxCents"`
	InsuranceCents       int64 `json:"insuranceCents"`
	LeaveDeductionCents  int64 `json:"leaveDeductionCents"`
	OtherDeductionCents  int64 `json:"otherDeductionCents"`
	TotalEarningsCents   int64 `json:"totalEarningsCents"`
	TotalDeductionsCents int64 `json:"totalDeductionsCents"`
	NetSalaryCents       int64 `json:"netSalaryCents"`
}

func Compute(in PayInput) (Computation, error) {
	if in.BaseSalaryCents <= 0 {
		return Computation{}, ErrInvalidSalary
	}

	c := Computation{
		BaseSalaryCents:     in.BaseSalaryCents,
		HRACents:            roundedShare(in.BaseSalaryCents, hraNumerator, percentDen),
		PFCents:             roundedShare(in.BaseSalaryCents, pfNumerator, percentDen),
		ESICents:            roundedShare(in.BaseSalaryCents, esiNumerator, basisDen),
		VariablePayCents:    in.VariablePayCents,
		OvertimeCents:       in.OvertimeCents,
		BonusCents:          in.BonusCents,
		AllowancesCents:     in.AllowancesCents,
		TaxCents:            in.TaxCents,
		InsuranceCents:      in.InsuranceCents,
		LeaveDeductionCents: in.LeaveDeductionCents,
		OtherDeductionCents: in.OtherDeductionCents,
	}

	c.TotalEarningsCents = c.BaseSalaryCents + c.HRACents + c.VariablePayCents +
		c.OvertimeCents + c.BonusCents + c.AllowancesCents
	c.TotalDeductionsCents = c.PFCents + c.ESICents + c.TaxCents +
		c.InsuranceCents + c.LeaveDeductionCents + c.OtherDeductionCents
	c.NetSalaryCents = c.TotalEarningsCents - c.TotalDeductionsCents
	return c, nil
}

// roundedShare computes cents*num/den rounded half-up. cents is positive
// (guarded by Compute), so no negative rounding case arises.
func roundedShare(cents, num, den int64) int64 {
	return (cents*num + den/2) / den
}
