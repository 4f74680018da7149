package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/timeutil"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/validator"
)

type AttendanceServiceImpl struct {
	txManager      database.TxManager
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	clock          clock.Clock
}

func NewAttendanceService(
	txManager database.TxManager,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	clk clock.Clock,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		txManager:      txManager,
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		clock:          clk,
	}
}

// MarkLogin implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) MarkLogin(ctx context.Context, employeeID string) (attendance.AttendanceResponse, error) {
	if err := requireEmployeeID(employeeID); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := s.clock.Now()
	date, clockTime := timeutil.DateOnly(now), timeutil.FormatClock(now)

	if _, err := s.employeeRepo.GetByID(ctx, employeeID); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	var (
		record  attendance.Attendance
		created bool
	)
	err := s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		record, created, err = s.attendanceRepo.UpsertLogin(txCtx, employeeID, date, clockTime)
		if err != nil {
			return err
		}

		// a logout corrected in before the first login completes the pair
		record, err = RefreshWorkingHours(txCtx, s.attendanceRepo, record)
		if err != nil {
			return err
		}

		return s.employeeRepo.UpdateLastLoginTime(txCtx, employeeID, clockTime)
	})
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("mark login: %w", err)
	}

	slog.Info("Attendance login recorded",
		"employee_id", employeeID,
		"date", timeutil.FormatDate(date),
		"login_time", record.LoginTime,
		"created", created,
	)
	return attendance.ToResponse(record), nil
}

// MarkLogout implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) MarkLogout(ctx context.Context, employeeID string) (attendance.AttendanceResponse, error) {
	if err := requireEmployeeID(employeeID); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := s.clock.Now()
	date, clockTime := timeutil.DateOnly(now), timeutil.FormatClock(now)

	if _, err := s.employeeRepo.GetByID(ctx, employeeID); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	var record attendance.Attendance
	err := s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		record, err = s.attendanceRepo.SetLogout(txCtx, employeeID, date, clockTime)
		if err != nil {
			if errors.Is(err, attendance.ErrAttendanceNotFound) {
				return attendance.ErrMustLoginFirst
			}
			return err
		}

		record, err = RefreshWorkingHours(txCtx, s.attendanceRepo, record)
		if err != nil {
			return err
		}

		return s.employeeRepo.UpdateLogoutTime(txCtx, employeeID, clockTime)
	})
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("mark logout: %w", err)
	}

	slog.Info("Attendance logout recorded",
		"employee_id", employeeID,
		"date", timeutil.FormatDate(date),
		"logout_time", record.LogoutTime,
		"total_working_hours", record.TotalWorkingHours,
	)
	return attendance.ToResponse(record), nil
}

// GetDaily implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetDaily(ctx context.Context, query attendance.DailyQuery) (attendance.AttendanceResponse, error) {
	if err := query.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if !validator.IsValidUUID(query.EmployeeID) {
		return attendance.AttendanceResponse{}, attendance.ErrAttendanceNotFound
	}
	date, _ := timeutil.ParseDate(query.Date)

	record, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, query.EmployeeID, date)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return attendance.ToResponse(record), nil
}

// ListMonthly implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListMonthly(ctx context.Context, filter attendance.MonthlyFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	if !validator.IsValidUUID(filter.EmployeeID) {
		return attendance.ListAttendanceResponse{}, employee.ErrEmployeeNotFound
	}

	records, err := s.attendanceRepo.ListByEmployeeAndMonth(ctx, filter.EmployeeID, filter.Year, time.Month(filter.Month))
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("list monthly attendance: %w", err)
	}

	resp := attendance.ListAttendanceResponse{
		EmployeeID:  filter.EmployeeID,
		Year:        filter.Year,
		Month:       filter.Month,
		Attendances: make([]attendance.AttendanceResponse, 0, len(records)),
	}
	for _, r := range records {
		switch r.Status {
		case attendance.StatusAbsent:
			resp.AbsentDays++
		default:
			resp.PresentDays++
		}
		resp.Attendances = append(resp.Attendances, attendance.ToResponse(r))
	}
	return resp, nil
}

// MarkAbsentees implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) MarkAbsentees(ctx context.Context, date time.Time) (int64, error) {
	ids, err := s.employeeRepo.ListActiveIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("mark absentees: %w", err)
	}

	inserted, err := s.attendanceRepo.InsertAbsent(ctx, ids, timeutil.DateOnly(date))
	if err != nil {
		return 0, fmt.Errorf("mark absentees: %w", err)
	}
	return inserted, nil
}

// RefreshWorkingHours recomputes total_working_hours from the record's clock
// fields and writes it only when the value changed.
func RefreshWorkingHours(ctx context.Context, repo attendance.AttendanceRepository, record attendance.Attendance) (attendance.Attendance, error) {
	hours, ok := record.WorkingHours()
	if !ok && record.HasLoggedIn() && record.LogoutTime != "" {
		slog.Warn("Logout precedes login, working hours left empty",
			"attendance_id", record.ID,
			"login_time", record.LoginTime,
			"logout_time", record.LogoutTime,
		)
	}
	if hours == record.TotalWorkingHours {
		return record, nil
	}

	if err := repo.SetWorkingHours(ctx, record.ID, hours); err != nil {
		return attendance.Attendance{}, err
	}
	record.TotalWorkingHours = hours
	return record, nil
}

// requireEmployeeID rejects an empty id as invalid input and a malformed one as unknown.
func requireEmployeeID(employeeID string) error {
	if validator.IsEmpty(employeeID) {
		return validator.ValidationErrors{{Field: "employee_id", Message: "employee_id is required"}}
	}
	if !validator.IsValidUUID(employeeID) {
		return employee.ErrEmployeeNotFound
	}
	return nil
}
