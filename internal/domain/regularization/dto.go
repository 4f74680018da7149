package regularization

import (
	"mime/multipart"
	"time"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/timeutil"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/validator"
)

const (
	MaxReasonLength  = 500
	MaxDocumentSize  = 5 << 20
	defaultPageLimit = 10
	maximumPageLimit = 100
)

var documentExtensions = []string{".pdf", ".jpg", ".jpeg", ".png"}

type SubmitRequest struct {
	EmployeeID            string                `json:"-"`
	Date                  string                `json:"date"`
	RequestType           string                `json:"request_type"`
	RequestedCheckInTime  string                `json:"requested_check_in_time"`
	RequestedCheckOutTime string                `json:"requested_check_out_time"`
	Reason                string                `json:"reason"`
	File                  multipart.File        `json:"-"`
	FileHeader            *multipart.FileHeader `json:"-"`
}

func (r *SubmitRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}

	if validator.IsEmpty(r.Date) {
		errs.Add("date", "date is required")
	} else if _, ok := validator.IsValidDate(r.Date); !ok {
		errs.Add("date", "date must be in YYYY-MM-DD format")
	}

	if validator.IsEmpty(r.Reason) {
		errs.Add("reason", "reason is required")
	} else if !validator.MaxLength(r.Reason, MaxReasonLength) {
		errs.Add("reason", "reason must not exceed 500 characters")
	}

	if validator.IsEmpty(r.RequestType) {
		errs.Add("request_type", "request_type is required")
	} else if _, err := NewCorrection(RequestType(r.RequestType), r.RequestedCheckInTime, r.RequestedCheckOutTime); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok {
			errs = append(errs, fieldErrs...)
		}
	}

	if r.FileHeader != nil {
		if !validator.HasExtension(r.FileHeader.Filename, documentExtensions) {
			errs.Add("file", "invalid file type: only pdf, jpg, jpeg, png allowed")
		} else if r.FileHeader.Size > MaxDocumentSize {
			errs.Add("file", "supporting document size must not exceed 5MB")
		}
	}

	return errs.Err()
}

type DecideRequest struct {
	ID            string `json:"-"`
	Status        string `json:"status"`
	ManagerRemark string `json:"manager_remark"`
	ApproverID    string `json:"-"`
}

func (r *DecideRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if !validator.IsInSlice(r.Status, []string{string(StatusApproved), string(StatusRejected)}) {
		errs.Add("status", "status must be either approved or rejected")
	}
	if !validator.MaxLength(r.ManagerRemark, MaxReasonLength) {
		errs.Add("manager_remark", "manager_remark must not exceed 500 characters")
	}
	if validator.IsEmpty(r.ApproverID) {
		errs.Add("approver_id", "approver_id is required")
	}

	return errs.Err()
}

type ListFilter struct {
	EmployeeID string
	Status     string
	Page       int
	Limit      int
}

// Validate checks the filter and fills paging defaults.
func (f *ListFilter) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(f.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}
	if f.Status != "" && !validator.IsInSlice(f.Status, []string{string(StatusPending), string(StatusApproved), string(StatusRejected)}) {
		errs.Add("status", "status must be one of: pending, approved, rejected")
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = defaultPageLimit
	}
	if f.Limit > maximumPageLimit {
		f.Limit = maximumPageLimit
	}

	return errs.Err()
}

func (f ListFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

type RegularizationResponse struct {
	ID                    string     `json:"id"`
	EmployeeID            string     `json:"employee_id"`
	Date                  string     `json:"date"`
	RequestType           string     `json:"request_type"`
	RequestedCheckInTime  string     `json:"requested_check_in_time"`
	RequestedCheckOutTime string     `json:"requested_check_out_time"`
	Reason                string     `json:"reason"`
	SupportingDocument    string     `json:"supporting_document"`
	Status                string     `json:"status"`
	ManagerRemark         string     `json:"manager_remark"`
	ApprovedBy            *string    `json:"approved_by"`
	ApprovedAt            *time.Time `json:"approved_at"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

type DecisionResponse struct {
	Regularization RegularizationResponse         `json:"regularization"`
	Attendance     *attendance.AttendanceResponse `json:"attendance,omitempty"`
}

type ListRegularizationResponse struct {
	Items      []RegularizationResponse `json:"items"`
	Page       int                      `json:"page"`
	Limit      int                      `json:"limit"`
	TotalItems int64                    `json:"total_items"`
	TotalPages int                      `json:"total_pages"`
}

func ToResponse(r Regularization) RegularizationResponse {
	return RegularizationResponse{
		ID:                    r.ID,
		EmployeeID:            r.EmployeeID,
		Date:                  timeutil.FormatDate(r.Date),
		RequestType:           string(r.RequestType),
		RequestedCheckInTime:  r.RequestedCheckInTime,
		RequestedCheckOutTime: r.RequestedCheckOutTime,
		Reason:                r.Reason,
		SupportingDocument:    r.SupportingDocument,
		Status:                string(r.Status),
		ManagerRemark:         r.ManagerRemark,
		ApprovedBy:            r.ApprovedBy,
		ApprovedAt:            r.ApprovedAt,
		CreatedAt:             r.CreatedAt,
		UpdatedAt:             r.UpdatedAt,
	}
}
