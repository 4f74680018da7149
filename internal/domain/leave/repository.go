package leave

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)

	// GetByID returns ErrLeaveRequestNotFound when no request has the id.
	GetByID(ctx context.Context, id string) (LeaveRequest, error)

	// Decide moves a pending request to its terminal status. Returns
	// ErrLeaveRequestNotFound or ErrLeaveRequestAlreadyProcessed when no pending row matches.
	Decide(ctx context.Context, id string, decision Decision) (LeaveRequest, error)

	// MarkLedgerApplied sets ledger_applied_at if it is still unset.
	// Returns ErrLeaveAlreadyApplied when it was set before.
	MarkLedgerApplied(ctx context.Context, id string, at time.Time) error

	// ListPending returns pending requests, oldest first.
	ListPending(ctx context.Context) ([]LeaveRequest, error)
}

type LeaveLedgerRepository interface {
	// Increment upserts the (employee, year, month) ledger, adds amount to the
	// counter for leaveType and appends entry to its audit list.
	Increment(ctx context.Context, employeeID string, year, month int, leaveType Type, amount decimal.Decimal, entry LedgerEntry) (Ledger, error)

	// ListByEmployeeAndYear returns the employee's ledgers for year ordered by month, entries included.
	ListByEmployeeAndYear(ctx context.Context, employeeID string, year int) ([]Ledger, error)
}
