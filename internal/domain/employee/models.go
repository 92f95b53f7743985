package employee

import "time"

type Employee struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId,omitempty"`
	EmployeeNumber  string    `json:"employeeNumber"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	Email           string    `json:"email"`
	Position        string    `json:"position"`
	DepartmentID    string    `json:"departmentId,omitempty"`
	ManagerID       string    `json:"managerId,omitempty"`
	BaseSalaryCents int64     `json:"baseSalaryCents"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type Department struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ManagerID string    `json:"managerId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
