package attendance

import (
	"time"

	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/timeutil"
)

type Status string

const (
	StatusPresent Status = "Present"
	StatusAbsent  Status = "Absent"
	StatusLate    Status = "Late"
	StatusHalfDay Status = "Half Day"
)

// Attendance is one employee's record for one calendar day.
// (EmployeeID, Date) is unique. Clock fields hold "HH:MM:SS" or "".
type Attendance struct {
	ID                string
	EmployeeID        string
	Date              time.Time
	Status            Status
	LoginTime         string
	LogoutTime        string
	TotalWorkingHours string
	Notes             string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// WorkingHours derives the "X.XX hours" value from the clock fields.
// ok is false when the pair is incomplete or the logout precedes the login.
func (a Attendance) WorkingHours() (string, bool) {
	hours, ok := timeutil.WorkingHours(a.LoginTime, a.LogoutTime)
	if !ok {
		return "", false
	}
	return timeutil.FormatWorkingHours(hours), true
}

func (a Attendance) HasLoggedIn() bool {
	return a.LoginTime != ""
}
