package employee

import "context"

type EmployeeRepository interface {
	// GetByID returns ErrEmployeeNotFound when no employee has the id.
	GetByID(ctx context.Context, id string) (Employee, error)

	// ListActiveIDs returns the ids of employees whose status is active.
	ListActiveIDs(ctx context.Context) ([]string, error)

	// UpdateLastLoginTime stores the clock time of the employee's latest login.
	UpdateLastLoginTime(ctx context.Context, id string, clock string) error

	// UpdateLogoutTime stores the clock time of the employee's latest logout.
	UpdateLogoutTime(ctx context.Context, id string, clock string) error
}
