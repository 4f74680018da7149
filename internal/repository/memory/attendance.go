package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/attendance"
)

type attendanceRepository struct {
	s *Store
}

func (s *Store) Attendances() attendance.AttendanceRepository {
	return attendanceRepository{s: s}
}

// find must be called with mu held.
func (r attendanceRepository) find(employeeID string, date time.Time) (attendance.Attendance, bool) {
	for _, a := range r.s.state.attendances {
		if a.EmployeeID == employeeID && a.Date.Equal(date) {
			return a, true
		}
	}
	return attendance.Attendance{}, false
}

func (r attendanceRepository) insert(employeeID string, date time.Time, status attendance.Status) attendance.Attendance {
	now := time.Now()
	a := attendance.Attendance{
		ID:         r.s.nextID(),
		EmployeeID: employeeID,
		Date:       date,
		Status:     status,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return a
}

func (r attendanceRepository) UpsertLogin(ctx context.Context, employeeID string, date time.Time, clock string) (attendance.Attendance, bool, error) {
	defer r.s.lock(ctx)()
	if err := r.s.fail("attendance.UpsertLogin"); err != nil {
		return attendance.Attendance{}, false, err
	}

	a, found := r.find(employeeID, date)
	if !found {
		a = r.insert(employeeID, date, attendance.StatusPresent)
	}
	a.Status = attendance.StatusPresent
	if a.LoginTime == "" {
		a.LoginTime = clock
	}
	a.UpdatedAt = time.Now()
	r.s.state.attendances[a.ID] = a
	return a, !found, nil
}

func (r attendanceRepository) SetLogout(ctx context.Context, employeeID string, date time.Time, clock string) (attendance.Attendance, error) {
	defer r.s.lock(ctx)()
	if err := r.s.fail("attendance.SetLogout"); err != nil {
		return attendance.Attendance{}, err
	}

	a, found := r.find(employeeID, date)
	if !found || !a.HasLoggedIn() {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	a.LogoutTime = clock
	a.UpdatedAt = time.Now()
	r.s.state.attendances[a.ID] = a
	return a, nil
}

func (r attendanceRepository) UpsertCorrection(ctx context.Context, employeeID string, date time.Time, loginTime, logoutTime *string) (attendance.Attendance, error) {
	defer r.s.lock(ctx)()
	if err := r.s.fail("attendance.UpsertCorrection"); err != nil {
		return attendance.Attendance{}, err
	}

	a, found := r.find(employeeID, date)
	if !found {
		a = r.insert(employeeID, date, attendance.StatusPresent)
	}
	a.Status = attendance.StatusPresent
	if loginTime != nil {
		a.LoginTime = *loginTime
	}
	if logoutTime != nil {
		a.LogoutTime = *logoutTime
	}
	a.UpdatedAt = time.Now()
	r.s.state.attendances[a.ID] = a
	return a, nil
}

func (r attendanceRepository) SetWorkingHours(ctx context.Context, id string, hours string) error {
	defer r.s.lock(ctx)()
	if err := r.s.fail("attendance.SetWorkingHours"); err != nil {
		return err
	}

	a, ok := r.s.state.attendances[id]
	if !ok {
		return attendance.ErrAttendanceNotFound
	}
	a.TotalWorkingHours = hours
	r.s.state.attendances[id] = a
	return nil
}

func (r attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (attendance.Attendance, error) {
	defer r.s.lock(ctx)()

	a, found := r.find(employeeID, date)
	if !found {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return a, nil
}

func (r attendanceRepository) ListByEmployeeAndMonth(ctx context.Context, employeeID string, year int, month time.Month) ([]attendance.Attendance, error) {
	defer r.s.lock(ctx)()

	records := make([]attendance.Attendance, 0)
	for _, a := range r.s.state.attendances {
		if a.EmployeeID == employeeID && a.Date.Year() == year && a.Date.Month() == month {
			records = append(records, a)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Date.Before(records[j].Date) })
	return records, nil
}

func (r attendanceRepository) InsertAbsent(ctx context.Context, employeeIDs []string, date time.Time) (int64, error) {
	defer r.s.lock(ctx)()

	var inserted int64
	for _, id := range employeeIDs {
		if _, found := r.find(id, date); found {
			continue
		}
		a := r.insert(id, date, attendance.StatusAbsent)
		r.s.state.attendances[a.ID] = a
		inserted++
	}
	return inserted, nil
}
