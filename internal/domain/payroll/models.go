package payroll

import (
	"errors"
	"time"

	"hrmflow/internal/domain/workflow"
)

var (
	ErrNotFound      = errors.New("payroll record not found")
	ErrDuplicate     = errors.New("payroll record already exists for period")
	ErrInvalidPeriod = errors.New("period must be YYYY-MM")
)

// Record is one employee's pay for one period (YYYY-MM), with the computed
// breakdown frozen at creation time.
type Record struct {
	ID         string          `json:"id"`
	EmployeeID string          `json:"employeeId"`
	Period     string          `json:"period"`
	Status     workflow.Status `json:"status"`
	Version    int             `json:"version"`
	Breakdown  Computation     `json:"breakdown"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

type VariablePayEntry struct {
	ID          string          `json:"id"`
	EmployeeID  string          `json:"employeeId"`
	Period      string          `json:"period"`
	AmountCents int64           `json:"amountCents"`
	Reason      string          `json:"reason"`
	Status      workflow.Status `json:"status"`
	Version     int             `json:"version"`
	CreatedBy   string          `json:"createdBy"`
	ReviewedBy  string          `json:"reviewedBy,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type CorrectionRequest struct {
	ID          string          `json:"id"`
	RecordID    string          `json:"recordId"`
	EmployeeID  string          `json:"employeeId"`
	Description string          `json:"description"`
	Resolution  string          `json:"resolution,omitempty"`
	Status      workflow.Status `json:"status"`
	Version     int             `json:"version"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// ValidPeriod checks the YYYY-MM shape.
func ValidPeriod(period string) bool {
	if len(period) != 7 || period[4] != '-' {
		return false
	}
	if _, err := time.Parse("2006-01", period); err != nil {
		return false
	}
	return true
}
