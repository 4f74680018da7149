package regularization

import "github.com/cmlabs-hris/hrm-backend-go/internal/pkg/apperror"

var (
	ErrRegularizationNotFound = apperror.New(apperror.KindNotFound, "regularization request not found", "GetRegularization")
	ErrRegularizationExists   = apperror.New(apperror.KindConflict, "a regularization request for this date already exists", "SubmitRegularization")
	ErrAlreadyProcessed       = apperror.New(apperror.KindAlreadyProcessed, "regularization request has already been processed", "DecideRegularization")
)
