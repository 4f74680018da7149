package middleware

import (
	"context"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
)

// Claims is the caller identity carried by an access token
type Claims struct {
	UserID     string
	EmployeeID string
	Role       user.Role
}

// CanAccessEmployee reports whether the caller may read employeeID's records:
// their own, or anyone's when the role holds viewAll.
func (c Claims) CanAccessEmployee(employeeID string, viewAll user.Permission) bool {
	if c.EmployeeID != "" && c.EmployeeID == employeeID {
		return true
	}
	return user.HasPermission(c.Role, viewAll)
}

// ClaimsFromContext reads the verified token claims set by jwtauth.Verifier.
func ClaimsFromContext(ctx context.Context) (Claims, error) {
	token, raw, err := jwtauth.FromContext(ctx)
	if err != nil || token == nil {
		return Claims{}, auth.ErrInvalidToken
	}

	userID, _ := raw["user_id"].(string)
	role, _ := raw["role"].(string)
	if userID == "" || !user.Role(role).Valid() {
		return Claims{}, auth.ErrInvalidToken
	}
	employeeID, _ := raw["employee_id"].(string)

	return Claims{
		UserID:     userID,
		EmployeeID: employeeID,
		Role:       user.Role(role),
	}, nil
}
