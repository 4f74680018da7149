package attendance

import (
	"context"
	"time"
)

// AttendanceService defines the daily check-in/out ledger
type AttendanceService interface {
	// MarkLogin records today's login for the employee. The first login of the day wins.
	MarkLogin(ctx context.Context, employeeID string) (AttendanceResponse, error)

	// MarkLogout records today's logout and recomputes working hours.
	MarkLogout(ctx context.Context, employeeID string) (AttendanceResponse, error)

	// GetDaily returns one employee's record for a date
	GetDaily(ctx context.Context, query DailyQuery) (AttendanceResponse, error)

	// ListMonthly returns one employee's records for a month
	ListMonthly(ctx context.Context, filter MonthlyFilter) (ListAttendanceResponse, error)

	// MarkAbsentees inserts Absent records for active employees with no record on date.
	MarkAbsentees(ctx context.Context, date time.Time) (int64, error)
}
