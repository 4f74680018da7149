package employee

import "time"

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Employee is the slice of the employee directory the attendance and leave
// ledgers depend on. Profile CRUD lives outside this service.
type Employee struct {
	ID            string
	EmployeeCode  string
	FullName      string
	Email         string
	Department    *string
	Designation   *string
	Status        Status
	LastLoginTime *string
	LogoutTime    *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (e Employee) IsActive() bool {
	return e.Status == StatusActive
}
