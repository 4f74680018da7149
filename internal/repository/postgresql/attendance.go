package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const attendanceColumns = `id, employee_id, date, status, login_time, logout_time, total_working_hours, notes, created_at, updated_at`

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

func scanAttendance(row pgx.Row, extra ...any) (attendance.Attendance, error) {
	var att attendance.Attendance
	dest := []any{
		&att.ID, &att.EmployeeID, &att.Date, &att.Status, &att.LoginTime, &att.LogoutTime,
		&att.TotalWorkingHours, &att.Notes, &att.CreatedAt, &att.UpdatedAt,
	}
	err := row.Scan(append(dest, extra...)...)
	return att, err
}

// UpsertLogin implements attendance.AttendanceRepository.
func (a *attendanceRepository) UpsertLogin(ctx context.Context, employeeID string, date time.Time, clock string) (attendance.Attendance, bool, error) {
	q := GetQuerier(ctx, a.db)

	id, err := uuid.NewV7()
	if err != nil {
		return attendance.Attendance{}, false, fmt.Errorf("generate attendance id: %w", err)
	}

	// login_time is only filled while empty, so concurrent logins keep the first value
	query := `
		INSERT INTO attendances (id, employee_id, date, status, login_time, logout_time, total_working_hours)
		VALUES ($1, $2, $3, $4, $5, '', '')
		ON CONFLICT (employee_id, date) DO UPDATE SET
			status = EXCLUDED.status,
			login_time = CASE WHEN attendances.login_time = '' THEN EXCLUDED.login_time ELSE attendances.login_time END,
			updated_at = NOW()
		RETURNING ` + attendanceColumns + `, (xmax = 0) AS inserted
	`

	var inserted bool
	att, err := scanAttendance(q.QueryRow(ctx, query, id.String(), employeeID, date, attendance.StatusPresent, clock), &inserted)
	if err != nil {
		return attendance.Attendance{}, false, fmt.Errorf("upsert login: %w", err)
	}
	return att, inserted, nil
}

// SetLogout implements attendance.AttendanceRepository.
func (a *attendanceRepository) SetLogout(ctx context.Context, employeeID string, date time.Time, clock string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances
		SET logout_time = $3, updated_at = NOW()
		WHERE employee_id = $1 AND date = $2 AND login_time <> ''
		RETURNING ` + attendanceColumns

	att, err := scanAttendance(q.QueryRow(ctx, query, employeeID, date, clock))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("set logout: %w", err)
	}
	return att, nil
}

// UpsertCorrection implements attendance.AttendanceRepository.
func (a *attendanceRepository) UpsertCorrection(ctx context.Context, employeeID string, date time.Time, loginTime, logoutTime *string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	id, err := uuid.NewV7()
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("generate attendance id: %w", err)
	}

	// NULL parameters keep the stored clock value (or '' for a new row)
	query := `
		INSERT INTO attendances (id, employee_id, date, status, login_time, logout_time, total_working_hours)
		VALUES ($1, $2, $3, $4, COALESCE($5::varchar, ''), COALESCE($6::varchar, ''), '')
		ON CONFLICT (employee_id, date) DO UPDATE SET
			status = EXCLUDED.status,
			login_time = COALESCE($5::varchar, attendances.login_time),
			logout_time = COALESCE($6::varchar, attendances.logout_time),
			updated_at = NOW()
		RETURNING ` + attendanceColumns

	att, err := scanAttendance(q.QueryRow(ctx, query, id.String(), employeeID, date, attendance.StatusPresent, loginTime, logoutTime))
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("upsert corrected attendance: %w", err)
	}
	return att, nil
}

// SetWorkingHours implements attendance.AttendanceRepository.
func (a *attendanceRepository) SetWorkingHours(ctx context.Context, id string, hours string) error {
	q := GetQuerier(ctx, a.db)

	tag, err := q.Exec(ctx, `UPDATE attendances SET total_working_hours = $2, updated_at = NOW() WHERE id = $1`, id, hours)
	if err != nil {
		return fmt.Errorf("set working hours: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendances WHERE employee_id = $1 AND date = $2`

	att, err := scanAttendance(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("get attendance: %w", err)
	}
	return att, nil
}

// ListByEmployeeAndMonth implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByEmployeeAndMonth(ctx context.Context, employeeID string, year int, month time.Month) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE employee_id = $1 AND date >= $2 AND date < $3
		ORDER BY date
	`

	rows, err := q.Query(ctx, query, employeeID, start, start.AddDate(0, 1, 0))
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	defer rows.Close()

	records := make([]attendance.Attendance, 0)
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("scan attendance: %w", err)
		}
		records = append(records, att)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}

	return records, nil
}

// InsertAbsent implements attendance.AttendanceRepository.
func (a *attendanceRepository) InsertAbsent(ctx context.Context, employeeIDs []string, date time.Time) (int64, error) {
	if len(employeeIDs) == 0 {
		return 0, nil
	}
	q := GetQuerier(ctx, a.db)

	ids := make([]string, len(employeeIDs))
	for i := range employeeIDs {
		id, err := uuid.NewV7()
		if err != nil {
			return 0, fmt.Errorf("generate attendance id: %w", err)
		}
		ids[i] = id.String()
	}

	query := `
		INSERT INTO attendances (id, employee_id, date, status)
		SELECT u.id::uuid, u.employee_id::uuid, $3::date, $4::varchar
		FROM unnest($1::text[], $2::text[]) AS u(id, employee_id)
		ON CONFLICT (employee_id, date) DO NOTHING
	`

	tag, err := q.Exec(ctx, query, ids, employeeIDs, date, attendance.StatusAbsent)
	if err != nil {
		return 0, fmt.Errorf("insert absences: %w", err)
	}
	return tag.RowsAffected(), nil
}
