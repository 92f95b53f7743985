package leave

import (
	"errors"
	"time"

	"hrmflow/internal/domain/workflow"
)

var (
	ErrNotFound  = errors.New("leave request not found")
	ErrForbidden = errors.New("forbidden")
)

const (
	TypeAnnual = "ANNUAL"
	TypeSick   = "SICK"
	TypeUnpaid = "UNPAID"
)

var Types = []string{TypeAnnual, TypeSick, TypeUnpaid}

type Request struct {
	ID         string          `json:"id"`
	EmployeeID string          `json:"employeeId"`
	LeaveType  string          `json:"leaveType"`
	StartDate  time.Time       `json:"startDate"`
	EndDate    time.Time       `json:"endDate"`
	StartHalf  bool            `json:"startHalf"`
	EndHalf    bool            `json:"endHalf"`
	Days       float64         `json:"days"`
	Reason     string          `json:"reason"`
	Status     workflow.Status `json:"status"`
	Version    int             `json:"version"`
	ReviewedBy string          `json:"reviewedBy,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}
