package attendance

import "github.com/cmlabs-hris/hrm-backend-go/internal/pkg/apperror"

var (
	ErrAttendanceNotFound = apperror.New(apperror.KindNotFound, "attendance record not found", "GetAttendance")
	ErrMustLoginFirst     = apperror.New(apperror.KindPrecondition, "must login first", "MarkLogout")
)
