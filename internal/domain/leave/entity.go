package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

type Type string

const (
	TypeCasual    Type = "casualLeave"
	TypeSick      Type = "sickLeave"
	TypePaid      Type = "paidLeave"
	TypeEmergency Type = "emergencyLeave"
)

var Types = []Type{TypeCasual, TypeSick, TypePaid, TypeEmergency}

func (t Type) Valid() bool {
	switch t {
	case TypeCasual, TypeSick, TypePaid, TypeEmergency:
		return true
	}
	return false
}

type Mode string

const (
	ModeFull Mode = "full"
	ModeHalf Mode = "half"
)

func (m Mode) Valid() bool {
	return m == ModeFull || m == ModeHalf
}

var half = decimal.RequireFromString("0.5")

// Factor is the fraction of a day each calendar day counts for.
func (m Mode) Factor() decimal.Decimal {
	if m == ModeHalf {
		return half
	}
	return decimal.NewFromInt(1)
}

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// LeaveRequest is an employee's request for leave over an inclusive date range.
// LedgerAppliedAt is set once, when the approved request is posted to the ledger.
type LeaveRequest struct {
	ID              string
	EmployeeID      string
	From            time.Time
	To              time.Time
	Type            Type
	Mode            Mode
	Description     string
	File            string
	Status          Status
	HRRemark        string
	ApprovedBy      *string
	ApprovedAt      *time.Time
	LedgerAppliedAt *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (r LeaveRequest) IsPending() bool {
	return r.Status == StatusPending
}

// Ledger aggregates one employee's leave usage for one calendar month.
// (EmployeeID, Year, Month) is unique. Counters may be fractional.
type Ledger struct {
	ID             string
	EmployeeID     string
	Month          int
	Year           int
	CasualLeave    decimal.Decimal
	SickLeave      decimal.Decimal
	PaidLeave      decimal.Decimal
	EmergencyLeave decimal.Decimal
	Entries        []LedgerEntry
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Counter returns the counter for t.
func (l Ledger) Counter(t Type) decimal.Decimal {
	switch t {
	case TypeCasual:
		return l.CasualLeave
	case TypeSick:
		return l.SickLeave
	case TypePaid:
		return l.PaidLeave
	case TypeEmergency:
		return l.EmergencyLeave
	}
	return decimal.Zero
}

// Add increments the counter for t.
func (l *Ledger) Add(t Type, amount decimal.Decimal) {
	switch t {
	case TypeCasual:
		l.CasualLeave = l.CasualLeave.Add(amount)
	case TypeSick:
		l.SickLeave = l.SickLeave.Add(amount)
	case TypePaid:
		l.PaidLeave = l.PaidLeave.Add(amount)
	case TypeEmergency:
		l.EmergencyLeave = l.EmergencyLeave.Add(amount)
	}
}

// LedgerEntry is the audit line appended for each month segment of an applied request.
type LedgerEntry struct {
	From        time.Time
	To          time.Time
	Type        Type
	Mode        Mode
	Description string
	File        string
}

// Segment is the part of a leave range that falls inside one calendar month.
type Segment struct {
	Year      int
	Month     int
	From      time.Time
	To        time.Time
	Days      int
	Effective decimal.Decimal
}

// Decision is the terminal status transition applied to a pending request.
type Decision struct {
	Status    Status
	HRRemark  string
	DecidedBy string
	DecidedAt time.Time
}
