package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrm-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterOptions struct {
	Logger         *slog.Logger
	LogLevel       slog.Level
	AllowedOrigins []string
	// UploadsDir is served under /uploads to authenticated callers. Empty disables it.
	UploadsDir string
}

func NewRouter(
	opts RouterOptions,
	JWTService jwt.Service,
	attendanceHandler AttendanceHandler,
	regularizationHandler RegularizationHandler,
	leaveHandler LeaveHandler,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	if opts.Logger != nil {
		r.Use(httplog.RequestLogger(opts.Logger, &httplog.Options{
			Level:  opts.LogLevel,
			Schema: httplog.SchemaECS,
		}))
	}

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	r.Route("/api/v1", func(r chi.Router) {
		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Route("/attendance", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireEmployee)
					r.With(middleware.RequirePermission(user.PermissionAttendanceMark)).Post("/login", attendanceHandler.Login)
					r.With(middleware.RequirePermission(user.PermissionAttendanceMark)).Post("/logout", attendanceHandler.Logout)
					r.With(middleware.RequirePermission(user.PermissionAttendanceViewOwn)).Get("/my", attendanceHandler.GetMyAttendance)
				})
				r.With(middleware.RequirePermission(user.PermissionAttendanceViewAll)).Get("/employees/{employeeID}", attendanceHandler.GetEmployeeAttendance)
			})

			r.Route("/regularizations", func(r chi.Router) {
				r.With(middleware.RequireEmployee, middleware.RequirePermission(user.PermissionRegularizationSubmit)).Post("/", regularizationHandler.Submit)
				r.With(middleware.RequirePermission(user.PermissionRegularizationViewAll)).Get("/pending", regularizationHandler.ListPending)
				r.Get("/employees/{employeeID}", regularizationHandler.ListByEmployee)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", regularizationHandler.Get)
					r.Delete("/", regularizationHandler.Delete)
					r.With(middleware.RequirePermission(user.PermissionRegularizationApprove)).Put("/status", regularizationHandler.UpdateStatus)
				})
			})

			r.Route("/leaves", func(r chi.Router) {
				r.Route("/requests", func(r chi.Router) {
					r.With(middleware.RequireEmployee, middleware.RequirePermission(user.PermissionLeaveCreate)).Post("/", leaveHandler.CreateRequest)
					r.With(middleware.RequirePermission(user.PermissionLeaveViewAll)).Get("/pending", leaveHandler.ListPendingRequests)
					r.Get("/{id}", leaveHandler.GetRequest)
					r.With(middleware.RequirePermission(user.PermissionLeaveApprove)).Put("/{id}/status", leaveHandler.UpdateRequestStatus)
				})
				r.Get("/employees/{employeeID}/{year}", leaveHandler.GetEmployeeLeaves)
			})
		})
	})

	if opts.UploadsDir != "" {
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)
			r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(opts.UploadsDir))))
		})
	}

	return r
}
