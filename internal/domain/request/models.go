package request

import (
	"time"

	"hrmflow/internal/domain/workflow"
)

const (
	CategoryIT         = "IT"
	CategoryHR         = "HR"
	CategoryFacilities = "FACILITIES"
	CategoryPayroll    = "PAYROLL"
	CategoryOther      = "OTHER"
)

var Categories = []string{CategoryIT, CategoryHR, CategoryFacilities, CategoryPayroll, CategoryOther}

const (
	PriorityLow    = "LOW"
	PriorityMedium = "MEDIUM"
	PriorityHigh   = "HIGH"
)

var Priorities = []string{PriorityLow, PriorityMedium, PriorityHigh}

type Request struct {
	ID         string          `json:"id"`
	EmployeeID string          `json:"employeeId"`
	AssigneeID string          `json:"assigneeId,omitempty"`
	Category   string          `json:"category"`
	Priority   string          `json:"priority"`
	Subject    string          `json:"subject"`
	Body       string          `json:"body"`
	Status     workflow.Status `json:"status"`
	Version    int             `json:"version"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

type Comment struct {
	ID        string    `json:"id"`
	RequestID string    `json:"requestId"`
	AuthorID  string    `json:"authorId"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}
