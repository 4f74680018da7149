package timeutil

import (
	"fmt"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04:05"
)

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatClock renders t as HH:MM:SS.
func FormatClock(t time.Time) string {
	return t.Format(ClockLayout)
}

// ParseDate parses YYYY-MM-DD into midnight UTC.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// ParseClock parses HH:MM:SS into a time on the zero date.
func ParseClock(s string) (time.Time, error) {
	return time.Parse(ClockLayout, s)
}

// DateOnly strips the time of day, keeping the calendar date of t as UTC midnight.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// EndOfMonth returns the last calendar day of t's month.
func EndOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC)
}

// FirstOfNextMonth returns the first day of the month after t's month.
func FirstOfNextMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m+1, 1, 0, 0, 0, 0, time.UTC)
}

// DaysInclusive counts calendar days from from to to, both ends included.
func DaysInclusive(from, to time.Time) int {
	return int(DateOnly(to).Sub(DateOnly(from)).Hours()/24) + 1
}

// WorkingHours returns the hours between two HH:MM:SS clock strings.
// ok is false when either value is empty or unparsable, or when logout precedes login.
func WorkingHours(login, logout string) (hours float64, ok bool) {
	if login == "" || logout == "" {
		return 0, false
	}
	in, err := ParseClock(login)
	if err != nil {
		return 0, false
	}
	out, err := ParseClock(logout)
	if err != nil {
		return 0, false
	}
	if out.Before(in) {
		return 0, false
	}
	return out.Sub(in).Hours(), true
}

// FormatWorkingHours renders hours as "X.XX hours".
func FormatWorkingHours(hours float64) string {
	return fmt.Sprintf("%.2f hours", hours)
}
