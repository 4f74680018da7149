package http

import (
	"net/http"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrm-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hrm-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/clock"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	Login(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
	GetMyAttendance(w http.ResponseWriter, r *http.Request)
	GetEmployeeAttendance(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	clock             clock.Clock
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService, clk clock.Clock) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		clock:             clk,
	}
}

// Login implements AttendanceHandler.
func (h *attendanceHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.ClaimsFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.MarkLogin(r.Context(), claims.EmployeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Login recorded", result)
}

// Logout implements AttendanceHandler.
func (h *attendanceHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.ClaimsFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.MarkLogout(r.Context(), claims.EmployeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Logout recorded", result)
}

// GetMyAttendance implements AttendanceHandler. Defaults to the current month.
func (h *attendanceHandlerImpl) GetMyAttendance(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.ClaimsFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	h.listMonthly(w, r, claims.EmployeeID)
}

// GetEmployeeAttendance implements AttendanceHandler. With ?date= it returns
// that day's record, otherwise the month given by ?year=&month=.
func (h *attendanceHandlerImpl) GetEmployeeAttendance(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")

	if date := r.URL.Query().Get("date"); date != "" {
		result, err := h.attendanceService.GetDaily(r.Context(), attendance.DailyQuery{EmployeeID: employeeID, Date: date})
		if err != nil {
			response.HandleError(w, err)
			return
		}
		response.Success(w, result)
		return
	}

	h.listMonthly(w, r, employeeID)
}

func (h *attendanceHandlerImpl) listMonthly(w http.ResponseWriter, r *http.Request, employeeID string) {
	now := h.clock.Now()

	year, err := queryInt(r, "year", now.Year())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	month, err := queryInt(r, "month", int(now.Month()))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.ListMonthly(r.Context(), attendance.MonthlyFilter{
		EmployeeID: employeeID,
		Year:       year,
		Month:      month,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
