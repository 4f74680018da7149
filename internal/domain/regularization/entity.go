package regularization

import "time"

type RequestType string

const (
	RequestTypeCheckIn  RequestType = "checkin"
	RequestTypeCheckOut RequestType = "checkout"
	RequestTypeBoth     RequestType = "both"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Regularization is an employee's request to correct one day's attendance.
// At most one pending-or-approved request may exist per (employee, date).
type Regularization struct {
	ID                    string
	EmployeeID            string
	Date                  time.Time
	RequestType           RequestType
	RequestedCheckInTime  string
	RequestedCheckOutTime string
	Reason                string
	SupportingDocument    string
	Status                Status
	ManagerRemark         string
	ApprovedBy            *string
	ApprovedAt            *time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

func (r Regularization) IsPending() bool {
	return r.Status == StatusPending
}

// Correction rebuilds the typed correction from the stored fields.
func (r Regularization) Correction() (Correction, error) {
	return NewCorrection(r.RequestType, r.RequestedCheckInTime, r.RequestedCheckOutTime)
}

// Decision is the terminal status transition applied to a pending request.
type Decision struct {
	Status        Status
	ManagerRemark string
	DecidedBy     string
	DecidedAt     time.Time
}
