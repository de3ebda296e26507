package autherrors

import (
	"go-leave/internal/shared/apperror"
	"net/http"
)

var (
	ErrInvalidCredentials = apperror.New(
		apperror.CodeUnauthorized,
		"Invalid email or password",
		http.StatusUnauthorized,
	)
	ErrInvalidToken = apperror.New(
		apperror.CodeUnauthorized,
		"Invalid or malformed token",
		http.StatusUnauthorized,
	)
	ErrTokenExpired = apperror.New(
		apperror.CodeUnauthorized,
		"Token has expired",
		http.StatusUnauthorized,
	)
	ErrInvalidRefreshToken = apperror.New(
		apperror.CodeUnauthorized,
		"Invalid refresh token",
		http.StatusUnauthorized,
	)
	ErrMissingRefreshToken = apperror.New(
		apperror.CodeUnauthorized,
		"Missing refresh token",
		http.StatusUnauthorized,
	)
	ErrUnknownEmployee = apperror.New(
		apperror.CodeUnauthorized,
		"Token does not belong to an active employee",
		http.StatusUnauthorized,
	)
	ErrTokenGenerationFailed = apperror.New(
		apperror.CodeInternalError,
		"Failed to issue token",
		http.StatusInternalServerError,
	)
)
