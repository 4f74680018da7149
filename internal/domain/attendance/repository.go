package attendance

import (
	"context"
	"time"
)

// AttendanceRepository persists attendance records keyed by (employee, date).
type AttendanceRepository interface {
	// UpsertLogin creates the day's record as Present, or marks an existing one Present.
	// An existing non-empty login time is never overwritten. created reports an insert.
	UpsertLogin(ctx context.Context, employeeID string, date time.Time, clock string) (record Attendance, created bool, err error)

	// SetLogout stores the logout time on a record that already has a login time.
	// Returns ErrAttendanceNotFound when no such record exists.
	SetLogout(ctx context.Context, employeeID string, date time.Time, clock string) (Attendance, error)

	// UpsertCorrection writes a reconciled record as Present. Nil times leave the
	// stored value (or '' on insert) untouched.
	UpsertCorrection(ctx context.Context, employeeID string, date time.Time, loginTime, logoutTime *string) (Attendance, error)

	// SetWorkingHours overwrites total_working_hours.
	SetWorkingHours(ctx context.Context, id string, hours string) error

	// GetByEmployeeAndDate returns ErrAttendanceNotFound when the day has no record.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (Attendance, error)

	// ListByEmployeeAndMonth returns the month's records ordered by date.
	ListByEmployeeAndMonth(ctx context.Context, employeeID string, year int, month time.Month) ([]Attendance, error)

	// InsertAbsent adds an Absent record for each employee that has none on date.
	// Existing records are left as they are. Returns the number inserted.
	InsertAbsent(ctx context.Context, employeeIDs []string, date time.Time) (int64, error)
}
