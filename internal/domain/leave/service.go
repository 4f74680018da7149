package leave

import "context"

type LeaveService interface {
	// RequestLeave validates and stores a pending leave request
	RequestLeave(ctx context.Context, req CreateLeaveRequest) (LeaveRequestResponse, error)

	GetRequest(ctx context.Context, id string) (LeaveRequestResponse, error)
	ListPending(ctx context.Context) ([]LeaveRequestResponse, error)

	// UpdateLeaveStatus approves or rejects a pending request. Approval posts the
	// request to the monthly ledgers in the same transaction.
	UpdateLeaveStatus(ctx context.Context, req UpdateStatusRequest) (LeaveRequestResponse, error)

	// ApplyApprovedLeave splits an approved request by calendar month and posts
	// each segment. A request is posted at most once.
	ApplyApprovedLeave(ctx context.Context, request LeaveRequest) ([]Segment, error)

	// GetEmployeeLeaves returns the employee's monthly ledgers for a year.
	GetEmployeeLeaves(ctx context.Context, employeeID string, year int) (EmployeeLeaveSummary, error)
}
