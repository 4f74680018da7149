package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/validator"
)

type errorMapping struct {
	status int
	code   string
}

var kindMappings = map[apperror.Kind]errorMapping{
	apperror.KindValidation:       {http.StatusBadRequest, CodeBadRequest},
	apperror.KindNotFound:         {http.StatusNotFound, CodeNotFound},
	apperror.KindConflict:         {http.StatusConflict, CodeConflict},
	apperror.KindAlreadyProcessed: {http.StatusConflict, CodeAlreadyProcessed},
	apperror.KindPrecondition:     {http.StatusPreconditionFailed, CodePreconditionFailed},
	apperror.KindUnauthorized:     {http.StatusUnauthorized, CodeUnauthorized},
	apperror.KindForbidden:        {http.StatusForbidden, CodeForbidden},
}

// HandleError maps domain errors to HTTP responses by kind. Internal errors
// are logged and replaced by a generic message.
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		Fail(w, http.StatusUnprocessableEntity, CodeValidation, "Validation failed", validationErrs.ToMap())
		return
	}

	mapping, ok := kindMappings[apperror.KindOf(err)]
	if !ok {
		slog.Error("Unhandled error", "error", err)
		Fail(w, http.StatusInternalServerError, CodeInternal, "An unexpected error occurred", nil)
		return
	}
	Fail(w, mapping.status, mapping.code, apperror.MessageOf(err), nil)
}
