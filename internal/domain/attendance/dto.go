package attendance

import (
	"time"

	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/timeutil"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/validator"
)

type DailyQuery struct {
	EmployeeID string
	Date       string
}

func (q *DailyQuery) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(q.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}
	if _, ok := validator.IsValidDate(q.Date); !ok {
		errs.Add("date", "date must be in YYYY-MM-DD format")
	}

	return errs.Err()
}

type MonthlyFilter struct {
	EmployeeID string
	Year       int
	Month      int
}

func (f *MonthlyFilter) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(f.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}
	if f.Year < 1970 || f.Year > 9999 {
		errs.Add("year", "year is invalid")
	}
	if f.Month < 1 || f.Month > 12 {
		errs.Add("month", "month must be between 1 and 12")
	}

	return errs.Err()
}

type AttendanceResponse struct {
	ID                string    `json:"id"`
	EmployeeID        string    `json:"employee_id"`
	Date              string    `json:"date"`
	Status            Status    `json:"status"`
	LoginTime         string    `json:"login_time"`
	LogoutTime        string    `json:"logout_time"`
	TotalWorkingHours string    `json:"total_working_hours"`
	Notes             string    `json:"notes"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type ListAttendanceResponse struct {
	EmployeeID  string               `json:"employee_id"`
	Year        int                  `json:"year"`
	Month       int                  `json:"month"`
	PresentDays int                  `json:"present_days"`
	AbsentDays  int                  `json:"absent_days"`
	Attendances []AttendanceResponse `json:"attendances"`
}

func ToResponse(a Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:                a.ID,
		EmployeeID:        a.EmployeeID,
		Date:              timeutil.FormatDate(a.Date),
		Status:            a.Status,
		LoginTime:         a.LoginTime,
		LogoutTime:        a.LogoutTime,
		TotalWorkingHours: a.TotalWorkingHours,
		Notes:             a.Notes,
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}
}
