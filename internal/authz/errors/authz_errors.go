package authzerrors

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	ErrUnauthenticated = apperror.New(
		apperror.CodeUnauthorized,
		"authentication is required",
		http.StatusUnauthorized,
	)
	ErrPermissionDenied = apperror.New(
		apperror.CodeForbidden,
		"permission denied",
		http.StatusForbidden,
	)
	ErrOutOfScope = apperror.New(
		apperror.CodeForbidden,
		"target employee is outside your reporting scope",
		http.StatusForbidden,
	)
	ErrTargetNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
)
