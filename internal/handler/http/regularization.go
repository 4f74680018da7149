package http

import (
	"net/http"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/regularization"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrm-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hrm-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type RegularizationHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	ListPending(w http.ResponseWriter, r *http.Request)
	ListByEmployee(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	UpdateStatus(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type regularizationHandlerImpl struct {
	regularizationService regularization.RegularizationService
}

func NewRegularizationHandler(regularizationService regularization.RegularizationService) RegularizationHandler {
	return &regularizationHandlerImpl{
		regularizationService: regularizationService,
	}
}

// Submit implements RegularizationHandler.
func (h *regularizationHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.ClaimsFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req regularization.SubmitRequest
	file, fileHeader, err := decodeWithFile(r, &req, "supporting_document")
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if file != nil {
		defer file.Close()
	}

	// the token decides whose attendance is corrected
	req.EmployeeID = claims.EmployeeID
	req.File = file
	req.FileHeader = fileHeader

	result, err := h.regularizationService.Submit(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Regularization request submitted", result)
}

// ListPending implements RegularizationHandler.
func (h *regularizationHandlerImpl) ListPending(w http.ResponseWriter, r *http.Request) {
	result, err := h.regularizationService.ListPending(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListByEmployee implements RegularizationHandler.
func (h *regularizationHandlerImpl) ListByEmployee(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.ClaimsFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	employeeID := chi.URLParam(r, "employeeID")
	if !claims.CanAccessEmployee(employeeID, user.PermissionRegularizationViewAll) {
		response.HandleError(w, user.ErrInsufficientPermissions)
		return
	}

	page, err := queryInt(r, "page", 1)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	limit, err := queryInt(r, "limit", 10)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.regularizationService.ListByEmployee(r.Context(), regularization.ListFilter{
		EmployeeID: employeeID,
		Status:     r.URL.Query().Get("status"),
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Items, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalItems,
		TotalPages: result.TotalPages,
	})
}

// Get implements RegularizationHandler.
func (h *regularizationHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.ClaimsFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.regularizationService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if !claims.CanAccessEmployee(result.EmployeeID, user.PermissionRegularizationViewAll) {
		response.HandleError(w, user.ErrInsufficientPermissions)
		return
	}

	response.Success(w, result)
}

// UpdateStatus implements RegularizationHandler.
func (h *regularizationHandlerImpl) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.ClaimsFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req regularization.DecideRequest
	if err := decodeJSON(r, &req); err != nil {
		response.HandleError(w, err)
		return
	}
	req.ID = chi.URLParam(r, "id")
	req.ApproverID = claims.UserID

	result, err := h.regularizationService.Decide(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Regularization request "+result.Regularization.Status, result)
}

// Delete implements RegularizationHandler. Owners may withdraw their own
// pending requests; approvers may remove anyone's.
func (h *regularizationHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.ClaimsFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	id := chi.URLParam(r, "id")
	existing, err := h.regularizationService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if !claims.CanAccessEmployee(existing.EmployeeID, user.PermissionRegularizationApprove) {
		response.HandleError(w, user.ErrInsufficientPermissions)
		return
	}

	if err := h.regularizationService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Regularization request deleted", nil)
}
