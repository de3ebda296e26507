package attendanceerrors

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	ErrInvalidMonth = apperror.New(
		apperror.CodeInvalidInput,
		"month must be between 1 and 12",
		http.StatusBadRequest,
	)
	ErrInvalidYear = apperror.New(
		apperror.CodeInvalidInput,
		"invalid year",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
)
