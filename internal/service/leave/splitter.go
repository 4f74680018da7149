package leave

import (
	"time"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/timeutil"
	"github.com/shopspring/decimal"
)

// SplitByMonth cuts the inclusive range [from, to] at calendar month
// boundaries. Every calendar day counts, weekends included; half mode counts
// each day as 0.5. Returns nil when to is before from.
func SplitByMonth(from, to time.Time, mode leave.Mode) []leave.Segment {
	current, end := timeutil.DateOnly(from), timeutil.DateOnly(to)
	if end.Before(current) {
		return nil
	}

	var segments []leave.Segment
	for !current.After(end) {
		segmentEnd := timeutil.EndOfMonth(current)
		if segmentEnd.After(end) {
			segmentEnd = end
		}

		days := timeutil.DaysInclusive(current, segmentEnd)
		segments = append(segments, leave.Segment{
			Year:      current.Year(),
			Month:     int(current.Month()),
			From:      current,
			To:        segmentEnd,
			Days:      days,
			Effective: decimal.NewFromInt(int64(days)).Mul(mode.Factor()),
		})

		current = timeutil.FirstOfNextMonth(current)
	}
	return segments
}
