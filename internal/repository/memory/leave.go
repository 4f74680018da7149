package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/leave"
	"github.com/shopspring/decimal"
)

type leaveRequestRepository struct {
	s *Store
}

func (s *Store) LeaveRequests() leave.LeaveRequestRepository {
	return leaveRequestRepository{s: s}
}

func (r leaveRequestRepository) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	defer r.s.lock(ctx)()
	if err := r.s.fail("leave.Create"); err != nil {
		return leave.LeaveRequest{}, err
	}

	now := time.Now()
	request.ID = r.s.nextID()
	request.Status = leave.StatusPending
	request.CreatedAt = now.Add(time.Duration(r.s.seq))
	request.UpdatedAt = request.CreatedAt
	r.s.state.leaveRequests[request.ID] = request
	return request, nil
}

func (r leaveRequestRepository) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	defer r.s.lock(ctx)()

	request, ok := r.s.state.leaveRequests[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return request, nil
}

func (r leaveRequestRepository) Decide(ctx context.Context, id string, decision leave.Decision) (leave.LeaveRequest, error) {
	defer r.s.lock(ctx)()
	if err := r.s.fail("leave.Decide"); err != nil {
		return leave.LeaveRequest{}, err
	}

	request, ok := r.s.state.leaveRequests[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	if !request.IsPending() {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestAlreadyProcessed
	}
	decidedBy, decidedAt := decision.DecidedBy, decision.DecidedAt
	request.Status = decision.Status
	request.HRRemark = decision.HRRemark
	request.ApprovedBy = &decidedBy
	request.ApprovedAt = &decidedAt
	request.UpdatedAt = time.Now()
	r.s.state.leaveRequests[id] = request
	return request, nil
}

func (r leaveRequestRepository) MarkLedgerApplied(ctx context.Context, id string, at time.Time) error {
	defer r.s.lock(ctx)()

	request, ok := r.s.state.leaveRequests[id]
	if !ok {
		return leave.ErrLeaveRequestNotFound
	}
	if request.LedgerAppliedAt != nil {
		return leave.ErrLeaveAlreadyApplied
	}
	request.LedgerAppliedAt = &at
	r.s.state.leaveRequests[id] = request
	return nil
}

func (r leaveRequestRepository) ListPending(ctx context.Context) ([]leave.LeaveRequest, error) {
	defer r.s.lock(ctx)()

	items := make([]leave.LeaveRequest, 0)
	for _, request := range r.s.state.leaveRequests {
		if request.IsPending() {
			items = append(items, request)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) })
	return items, nil
}

type leaveLedgerRepository struct {
	s *Store
}

func (s *Store) LeaveLedgers() leave.LeaveLedgerRepository {
	return leaveLedgerRepository{s: s}
}

func (r leaveLedgerRepository) Increment(ctx context.Context, employeeID string, year, month int, leaveType leave.Type, amount decimal.Decimal, entry leave.LedgerEntry) (leave.Ledger, error) {
	defer r.s.lock(ctx)()
	if err := r.s.fail("ledger.Increment"); err != nil {
		return leave.Ledger{}, err
	}

	key := ledgerKey{employeeID: employeeID, year: year, month: month}
	ledger, ok := r.s.state.ledgers[key]
	if !ok {
		now := time.Now()
		ledger = leave.Ledger{
			ID:         r.s.nextID(),
			EmployeeID: employeeID,
			Year:       year,
			Month:      month,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
	}
	ledger.Add(leaveType, amount)
	ledger.Entries = append(append([]leave.LedgerEntry(nil), ledger.Entries...), entry)
	r.s.state.ledgers[key] = ledger
	return ledger, nil
}

func (r leaveLedgerRepository) ListByEmployeeAndYear(ctx context.Context, employeeID string, year int) ([]leave.Ledger, error) {
	defer r.s.lock(ctx)()

	ledgers := make([]leave.Ledger, 0)
	for key, l := range r.s.state.ledgers {
		if key.employeeID == employeeID && key.year == year {
			l.Entries = append([]leave.LedgerEntry(nil), l.Entries...)
			ledgers = append(ledgers, l)
		}
	}
	sort.Slice(ledgers, func(i, j int) bool { return ledgers[i].Month < ledgers[j].Month })
	return ledgers, nil
}
