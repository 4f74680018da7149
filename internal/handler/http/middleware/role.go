package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrm-backend-go/internal/handler/http/response"
)

// RequirePermission checks if user has specific permission
func RequirePermission(permission user.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := ClaimsFromContext(r.Context())
			if err != nil {
				response.HandleError(w, err)
				return
			}

			if !user.HasPermission(claims.Role, permission) {
				response.Forbidden(w, "Insufficient permissions: required '"+string(permission)+"', but user role is '"+string(claims.Role)+"'")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireEmployee rejects callers whose token carries no employee profile
func RequireEmployee(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := ClaimsFromContext(r.Context())
		if err != nil {
			response.HandleError(w, err)
			return
		}

		if claims.EmployeeID == "" {
			response.HandleError(w, user.ErrEmployeeProfileRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
