package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"hrmflow/internal/platform/config"
)

// Role strings mirror the users.role CHECK constraint in the schema. They are
// spelled out here so the seed stays a leaf below the domain packages.
const (
	seedRoleAdmin    = "ADMIN"
	seedRoleManager  = "MANAGER"
	seedRoleEmployee = "EMPLOYEE"
)

// Seed ensures an admin login exists and, when enabled, a small sample org
// for local development.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if cfg.SeedAdminEmail == "" || cfg.SeedAdminPassword == "" {
		return nil
	}
	adminID, err := ensureUser(ctx, pool, cfg.SeedAdminEmail, cfg.SeedAdminPassword, seedRoleAdmin)
	if err != nil {
		return err
	}

	if !cfg.SeedSampleData {
		return nil
	}

	deptID, err := ensureDepartment(ctx, pool, "Engineering")
	if err != nil {
		return err
	}

	managerUserID, err := ensureUser(ctx, pool, "manager@example.com", cfg.SeedAdminPassword, seedRoleManager)
	if err != nil {
		return err
	}
	managerEmpID, err := ensureEmployee(ctx, pool, managerUserID, "EMP-0001", "Morgan", "Reyes", "manager@example.com", "Engineering Manager", deptID, "", 8000000)
	if err != nil {
		return err
	}

	employeeUserID, err := ensureUser(ctx, pool, "employee@example.com", cfg.SeedAdminPassword, seedRoleEmployee)
	if err != nil {
		return err
	}
	if _, err := ensureEmployee(ctx, pool, employeeUserID, "EMP-0002", "Sam", "Kato", "employee@example.com", "Software Engineer", deptID, managerEmpID, 5000000); err != nil {
		return err
	}

	_ = adminID
	return nil
}

func ensureUser(ctx context.Context, pool *pgxpool.Pool, email, password, role string) (string, error) {
	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return "", err
	}
	err = pool.QueryRow(ctx, `
    INSERT INTO users (email, password_hash, role, active)
    VALUES ($1,$2,$3,true)
    RETURNING id
  `, email, hash, role).Scan(&id)
	return id, err
}

// hashPassword must stay wire-compatible with the login path, which compares
// stored hashes with bcrypt.
func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func ensureDepartment(ctx context.Context, pool *pgxpool.Pool, name string) (string, error) {
	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM departments WHERE name = $1", name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", err
	}
	err = pool.QueryRow(ctx, "INSERT INTO departments (name) VALUES ($1) RETURNING id", name).Scan(&id)
	return id, err
}

func ensureEmployee(ctx context.Context, pool *pgxpool.Pool, userID, number, first, last, email, position, deptID, managerID string, salaryCents int64) (string, error) {
	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM employees WHERE employee_number = $1", number).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", err
	}
	err = pool.QueryRow(ctx, `
    INSERT INTO employees (user_id, employee_number, first_name, last_name, email, position, department_id, manager_id, base_salary_cents, active)
    VALUES (NULLIF($1,'')::uuid, $2, $3, $4, $5, $6, NULLIF($7,'')::uuid, NULLIF($8,'')::uuid, $9, true)
    RETURNING id
  `, userID, number, first, last, email, position, deptID, managerID, salaryCents).Scan(&id)
	return id, err
}
