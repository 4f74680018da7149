package employee

import "github.com/cmlabs-hris/hrm-backend-go/internal/pkg/apperror"

var (
	ErrEmployeeNotFound = apperror.New(apperror.KindNotFound, "employee not found", "EmployeeRepository")
)
