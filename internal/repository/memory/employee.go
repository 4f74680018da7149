package memory

import (
	"context"
	"sort"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/employee"
)

type employeeRepository struct {
	s *Store
}

func (s *Store) Employees() employee.EmployeeRepository {
	return employeeRepository{s: s}
}

func (r employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	defer r.s.lock(ctx)()
	if err := r.s.fail("employee.GetByID"); err != nil {
		return employee.Employee{}, err
	}
	e, ok := r.s.state.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (r employeeRepository) ListActiveIDs(ctx context.Context) ([]string, error) {
	defer r.s.lock(ctx)()
	ids := make([]string, 0)
	for id, e := range r.s.state.employees {
		if e.IsActive() {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (r employeeRepository) UpdateLastLoginTime(ctx context.Context, id string, clock string) error {
	return r.update(ctx, id, "employee.UpdateLastLoginTime", func(e *employee.Employee) { e.LastLoginTime = &clock })
}

func (r employeeRepository) UpdateLogoutTime(ctx context.Context, id string, clock string) error {
	return r.update(ctx, id, "employee.UpdateLogoutTime", func(e *employee.Employee) { e.LogoutTime = &clock })
}

func (r employeeRepository) update(ctx context.Context, id, op string, fn func(e *employee.Employee)) error {
	defer r.s.lock(ctx)()
	if err := r.s.fail(op); err != nil {
		return err
	}
	e, ok := r.s.state.employees[id]
	if !ok {
		return employee.ErrEmployeeNotFound
	}
	fn(&e)
	r.s.state.employees[id] = e
	return nil
}
