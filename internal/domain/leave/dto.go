package leave

import (
	"mime/multipart"
	"time"

	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/timeutil"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

const MaxAttachmentSize = 5 << 20

var attachmentExtensions = []string{".pdf", ".jpg", ".jpeg", ".png"}

type CreateLeaveRequest struct {
	EmployeeID  string                `json:"-"`
	From        string                `json:"from"`
	To          string                `json:"to"`
	Type        string                `json:"type"`
	Mode        string                `json:"mode"`
	Description string                `json:"description"`
	File        multipart.File        `json:"-"`
	FileHeader  *multipart.FileHeader `json:"-"`
}

// Validate checks the request and defaults Mode to full.
func (r *CreateLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}

	from, fromOK := validator.IsValidDate(r.From)
	if !fromOK {
		errs.Add("from", "from must be in YYYY-MM-DD format")
	}
	to, toOK := validator.IsValidDate(r.To)
	if !toOK {
		errs.Add("to", "to must be in YYYY-MM-DD format")
	}
	if fromOK && toOK && to.Before(from) {
		errs.Add("to", "to must not be before from")
	}

	if !Type(r.Type).Valid() {
		errs.Add("type", "type must be one of: casualLeave, sickLeave, paidLeave, emergencyLeave")
	}

	if r.Mode == "" {
		r.Mode = string(ModeFull)
	} else if !Mode(r.Mode).Valid() {
		errs.Add("mode", "mode must be either full or half")
	}

	if !validator.MaxLength(r.Description, 1000) {
		errs.Add("description", "description must not exceed 1000 characters")
	}

	if r.FileHeader != nil {
		if !validator.HasExtension(r.FileHeader.Filename, attachmentExtensions) {
			errs.Add("file", "invalid file type: only pdf, jpg, jpeg, png allowed")
		} else if r.FileHeader.Size > MaxAttachmentSize {
			errs.Add("file", "attachment size must not exceed 5MB")
		}
	}

	return errs.Err()
}

type UpdateStatusRequest struct {
	ID         string `json:"-"`
	Status     string `json:"status"`
	HRRemark   string `json:"hr_remark"`
	ApproverID string `json:"-"`
}

func (r *UpdateStatusRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if !validator.IsInSlice(r.Status, []string{string(StatusApproved), string(StatusRejected)}) {
		errs.Add("status", "status must be either approved or rejected")
	}
	if !validator.MaxLength(r.HRRemark, 500) {
		errs.Add("hr_remark", "hr_remark must not exceed 500 characters")
	}
	if validator.IsEmpty(r.ApproverID) {
		errs.Add("approver_id", "approver_id is required")
	}

	return errs.Err()
}

type LeaveRequestResponse struct {
	ID          string     `json:"id"`
	EmployeeID  string     `json:"employee_id"`
	From        string     `json:"from"`
	To          string     `json:"to"`
	Type        Type       `json:"type"`
	Mode        Mode       `json:"mode"`
	Description string     `json:"description"`
	File        string     `json:"file"`
	Status      Status     `json:"status"`
	HRRemark    string     `json:"hr_remark"`
	ApprovedBy  *string    `json:"approved_by"`
	ApprovedAt  *time.Time `json:"approved_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type LedgerEntryResponse struct {
	From        string `json:"from"`
	To          string `json:"to"`
	Type        Type   `json:"type"`
	Mode        Mode   `json:"mode"`
	Description string `json:"description"`
	File        string `json:"file"`
}

type LedgerResponse struct {
	Month          int                   `json:"month"`
	Year           int                   `json:"year"`
	CasualLeave    decimal.Decimal       `json:"casual_leave"`
	SickLeave      decimal.Decimal       `json:"sick_leave"`
	PaidLeave      decimal.Decimal       `json:"paid_leave"`
	EmergencyLeave decimal.Decimal       `json:"emergency_leave"`
	Leaves         []LedgerEntryResponse `json:"leaves"`
}

type EmployeeLeaveSummary struct {
	EmployeeID string                   `json:"employee_id"`
	Year       int                      `json:"year"`
	Totals     map[Type]decimal.Decimal `json:"totals"`
	Months     []LedgerResponse         `json:"months"`
}

func ToResponse(r LeaveRequest) LeaveRequestResponse {
	return LeaveRequestResponse{
		ID:          r.ID,
		EmployeeID:  r.EmployeeID,
		From:        timeutil.FormatDate(r.From),
		To:          timeutil.FormatDate(r.To),
		Type:        r.Type,
		Mode:        r.Mode,
		Description: r.Description,
		File:        r.File,
		Status:      r.Status,
		HRRemark:    r.HRRemark,
		ApprovedBy:  r.ApprovedBy,
		ApprovedAt:  r.ApprovedAt,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func ToLedgerResponse(l Ledger) LedgerResponse {
	entries := make([]LedgerEntryResponse, 0, len(l.Entries))
	for _, e := range l.Entries {
		entries = append(entries, LedgerEntryResponse{
			From:        timeutil.FormatDate(e.From),
			To:          timeutil.FormatDate(e.To),
			Type:        e.Type,
			Mode:        e.Mode,
			Description: e.Description,
			File:        e.File,
		})
	}
	return LedgerResponse{
		Month:          l.Month,
		Year:           l.Year,
		CasualLeave:    l.CasualLeave,
		SickLeave:      l.SickLeave,
		PaidLeave:      l.PaidLeave,
		EmergencyLeave: l.EmergencyLeave,
		Leaves:         entries,
	}
}
