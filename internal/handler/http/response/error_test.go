package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{"validation fields", validator.ValidationErrors{{Field: "date", Message: "required"}}, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Validation failed"},
		{"malformed input", apperror.New(apperror.KindValidation, "invalid request body", "Decode"), http.StatusBadRequest, "BAD_REQUEST", "invalid request body"},
		{"not found", apperror.New(apperror.KindNotFound, "leave request not found", "Get"), http.StatusNotFound, "NOT_FOUND", "leave request not found"},
		{"conflict", apperror.New(apperror.KindConflict, "exists", "Submit"), http.StatusConflict, "CONFLICT", "exists"},
		{"already processed", apperror.New(apperror.KindAlreadyProcessed, "processed", "Decide"), http.StatusConflict, "ALREADY_PROCESSED", "processed"},
		{"precondition", apperror.New(apperror.KindPrecondition, "must login first", "MarkLogout"), http.StatusPreconditionFailed, "PRECONDITION_FAILED", "must login first"},
		{"unauthorized", apperror.New(apperror.KindUnauthorized, "invalid token", "Auth"), http.StatusUnauthorized, "UNAUTHORIZED", "invalid token"},
		{"forbidden", apperror.New(apperror.KindForbidden, "insufficient permissions", "Auth"), http.StatusForbidden, "FORBIDDEN", "insufficient permissions"},
		{"wrapped kind", fmt.Errorf("decide: %w", apperror.New(apperror.KindNotFound, "gone", "Decide")), http.StatusNotFound, "NOT_FOUND", "gone"},
		{"internal", errors.New("pq: connection refused"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			var body Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.code, body.Error.Code)
			assert.Equal(t, tt.message, body.Error.Message)
		})
	}
}

func TestHandleErrorValidationDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, validator.ValidationErrors{{Field: "reason", Message: "reason is required"}})

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, map[string]string{"reason": "reason is required"}, body.Error.Details)
}
