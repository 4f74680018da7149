package user

import "github.com/cmlabs-hris/hrm-backend-go/internal/pkg/apperror"

var (
	ErrInsufficientPermissions = apperror.New(apperror.KindForbidden, "insufficient permissions", "RequirePermission")
	ErrEmployeeProfileRequired = apperror.New(apperror.KindForbidden, "employee profile required", "RequireEmployee")
)
