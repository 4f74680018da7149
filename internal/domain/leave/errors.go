package leave

import "github.com/cmlabs-hris/hrm-backend-go/internal/pkg/apperror"

var (
	ErrLeaveRequestNotFound         = apperror.New(apperror.KindNotFound, "leave request not found", "GetLeaveRequest")
	ErrLeaveRequestAlreadyProcessed = apperror.New(apperror.KindAlreadyProcessed, "leave request already processed", "UpdateLeaveStatus")
	ErrLeaveAlreadyApplied          = apperror.New(apperror.KindAlreadyProcessed, "leave request already applied to the ledger", "ApplyApprovedLeave")
	ErrLeaveNotApproved             = apperror.New(apperror.KindPrecondition, "only approved leave requests can be applied to the ledger", "ApplyApprovedLeave")
)
