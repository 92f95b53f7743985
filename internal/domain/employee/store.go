package employee

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"hrmflow/internal/platform/db"
)

var ErrNotFound = errors.New("employee not found")

type Store struct {
	DB db.Querier
}

func NewStore(q db.Querier) *Store {
	return &Store{DB: q}
}

const employeeColumns = `
    SELECT id, COALESCE(user_id::text, ''), employee_number, first_name, last_name, email,
           position, COALESCE(department_id::text, ''), COALESCE(manager_id::text, ''),
           base_salary_cents, active, created_at, updated_at
    FROM employees
`

func scanEmployee(row pgx.Row) (Employee, error) {
	var e Employee
	err := row.Scan(&e.ID, &e.UserID, &e.EmployeeNumber, &e.FirstName, &e.LastName, &e.Email,
		&e.Position, &e.DepartmentID, &e.ManagerID, &e.BaseSalaryCents, &e.Active, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrNotFound
	}
	if err != nil {
		return Employee{}, err
	}
	return e, nil
}

func (s *Store) Get(ctx context.Context, id string) (Employee, error) {
	return scanEmployee(s.DB.QueryRow(ctx, employeeColumns+" WHERE id = $1", id))
}

func (s *Store) List(ctx context.Context, limit, offset int) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, employeeColumns+`
    ORDER BY employee_number
    LIMIT $1 OFFSET $2
  `, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) Create(ctx context.Context, e Employee) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employees (user_id, employee_number, first_name, last_name, email, position, department_id, manager_id, base_salary_cents, active)
    VALUES (NULLIF($1,'')::uuid, $2, $3, $4, $5, $6, NULLIF($7,'')::uuid, NULLIF($8,'')::uuid, $9, $10)
    RETURNING id
  `, e.UserID, e.EmployeeNumber, e.FirstName, e.LastName, e.Email, e.Position, e.DepartmentID, e.ManagerID, e.BaseSalaryCents, e.Active).Scan(&id)
	return id, err
}

func (s *Store) Update(ctx context.Context, e Employee) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET first_name = $2, last_name = $3, email = $4, position = $5,
        department_id = NULLIF($6,'')::uuid, manager_id = NULLIF($7,'')::uuid,
        base_salary_cents = $8, active = $9, updated_at = now()
    WHERE id = $1
  `, e.ID, e.FirstName, e.LastName, e.Email, e.Position, e.DepartmentID, e.ManagerID, e.BaseSalaryCents, e.Active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// IsManagerOf reports whether employeeID sits directly under
// managerEmployeeID. Review scoping for managers goes through here.
func (s *Store) IsManagerOf(ctx context.Context, managerEmployeeID, employeeID string) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FROM employees WHERE id = $1 AND manager_id = $2
  `, employeeID, managerEmployeeID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) BaseSalaryCents(ctx context.Context, employeeID string) (int64, error) {
	var cents int64
	err := s.DB.QueryRow(ctx, "SELECT base_salary_cents FROM employees WHERE id = $1", employeeID).Scan(&cents)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNotFound
	}
	return cents, err
}

func (s *Store) ListDepartments(ctx context.Context) ([]Department, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, COALESCE(manager_id::text, ''), created_at
    FROM departments
    ORDER BY name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Department
	for rows.Next() {
		var d Department
		if err := rows.Scan(&d.ID, &d.Name, &d.ManagerID, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Store) CreateDepartment(ctx context.Context, name, managerID string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO departments (name, manager_id)
    VALUES ($1, NULLIF($2,'')::uuid)
    RETURNING id
  `, name, managerID).Scan(&id)
	return id, err
}
