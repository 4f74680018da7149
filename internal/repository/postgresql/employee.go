package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT id, employee_code, full_name, email, department, designation, status,
			last_login_time, logout_time, created_at, updated_at
		FROM employees
		WHERE id = $1
	`

	var emp employee.Employee
	err := q.QueryRow(ctx, query, id).Scan(
		&emp.ID, &emp.EmployeeCode, &emp.FullName, &emp.Email, &emp.Department, &emp.Designation, &emp.Status,
		&emp.LastLoginTime, &emp.LogoutTime, &emp.CreatedAt, &emp.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("get employee %s: %w", id, err)
	}

	return emp, nil
}

// ListActiveIDs implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ListActiveIDs(ctx context.Context) ([]string, error) {
	q := GetQuerier(ctx, e.db)

	rows, err := q.Query(ctx, `SELECT id FROM employees WHERE status = $1 ORDER BY id`, employee.StatusActive)
	if err != nil {
		return nil, fmt.Errorf("list active employees: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan active employees: %w", err)
	}
	return ids, nil
}

// UpdateLastLoginTime implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) UpdateLastLoginTime(ctx context.Context, id string, clock string) error {
	return e.updateClock(ctx, "last_login_time", id, clock)
}

// UpdateLogoutTime implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) UpdateLogoutTime(ctx context.Context, id string, clock string) error {
	return e.updateClock(ctx, "logout_time", id, clock)
}

// column is one of the two fixed names above, never user input.
func (e *employeeRepositoryImpl) updateClock(ctx context.Context, column, id, clock string) error {
	q := GetQuerier(ctx, e.db)

	query := fmt.Sprintf(`UPDATE employees SET %s = $1, updated_at = NOW() WHERE id = $2`, column)
	tag, err := q.Exec(ctx, query, clock, id)
	if err != nil {
		return fmt.Errorf("update employee %s: %w", column, err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}
