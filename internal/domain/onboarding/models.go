package onboarding

import (
	"errors"
	"time"

	"hrmflow/internal/domain/workflow"
)

var (
	ErrNotFound     = errors.New("onboarding record not found")
	ErrForbidden    = errors.New("forbidden")
	ErrStepApproved = errors.New("approved steps cannot be edited")
)

// Submission is one employee's onboarding. Its status is derived from its
// steps: PENDING until any step moves, IN_PROGRESS while steps are being
// worked, COMPLETED once every step is APPROVED.
type Submission struct {
	ID          string          `json:"id"`
	EmployeeID  string          `json:"employeeId"`
	Status      workflow.Status `json:"status"`
	Steps       []Step          `json:"steps,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	CompletedAt *time.Time      `json:"completedAt,omitempty"`
}

type Step struct {
	ID           string          `json:"id"`
	SubmissionID string          `json:"submissionId"`
	Ordinal      int             `json:"ordinal"`
	Title        string          `json:"title"`
	Payload      string          `json:"payload,omitempty"`
	ReviewNote   string          `json:"reviewNote,omitempty"`
	Status       workflow.Status `json:"status"`
	Version      int             `json:"version"`
	ReviewedBy   string          `json:"reviewedBy,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// DefaultStepTitles seeds a new submission's checklist.
var DefaultStepTitles = []string{
	"Personal details",
	"Tax and bank information",
	"Signed policy documents",
	"Equipment acknowledgement",
}
