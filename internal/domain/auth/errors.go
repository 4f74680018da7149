package auth

import "github.com/cmlabs-hris/hrm-backend-go/internal/pkg/apperror"

var (
	ErrInvalidToken = apperror.New(apperror.KindUnauthorized, "invalid or missing access token", "AuthRequired")
	ErrTokenExpired = apperror.New(apperror.KindUnauthorized, "token expired", "AuthRequired")
)
