package cron

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/timeutil"
)

// AbsenceJobs records Absent attendance for active employees who never logged
// in on the previous business day.
type AbsenceJobs struct {
	attendanceService attendance.AttendanceService
	clock             clock.Clock

	mu        sync.Mutex
	lastSwept time.Time
}

func NewAbsenceJobs(attendanceService attendance.AttendanceService, clk clock.Clock) *AbsenceJobs {
	return &AbsenceJobs{
		attendanceService: attendanceService,
		clock:             clk,
	}
}

func (j *AbsenceJobs) RegisterJobs(scheduler *Scheduler) error {
	return scheduler.AddJob(Job{
		Name:       "mark_absent_employees",
		Interval:   time.Hour,
		RunOnStart: true,
		Fn:         j.MarkAbsentEmployees,
	})
}

// MarkAbsentEmployees sweeps the previous day once. Weekends are skipped.
func (j *AbsenceJobs) MarkAbsentEmployees(ctx context.Context) error {
	target := timeutil.DateOnly(j.clock.Now()).AddDate(0, 0, -1)
	if wd := target.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return nil
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.lastSwept.Equal(target) {
		return nil
	}

	inserted, err := j.attendanceService.MarkAbsentees(ctx, target)
	if err != nil {
		return fmt.Errorf("mark absent employees for %s: %w", timeutil.FormatDate(target), err)
	}
	j.lastSwept = target

	slog.Info("Cron: absent employees recorded", "date", timeutil.FormatDate(target), "inserted", inserted)
	return nil
}
