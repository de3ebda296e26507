package employeeerrors

import (
	"go-leave/internal/shared/apperror"
	"net/http"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
	ErrEmployeeAlreadyExists = apperror.New(
		apperror.CodeInvalidInput,
		"Employee with the same email already exists",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid employee ID",
		http.StatusBadRequest,
	)
	ErrInvalidRole = apperror.New(
		apperror.CodeInvalidInput,
		"Role must be one of employee, manager, hr, admin",
		http.StatusBadRequest,
	)
	ErrInvalidManagerID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid manager ID",
		http.StatusBadRequest,
	)
	ErrManagerNotFound = apperror.New(
		apperror.CodeInvalidInput,
		"Manager not found",
		http.StatusBadRequest,
	)
	ErrSelfManager = apperror.New(
		apperror.CodeInvalidInput,
		"An employee cannot be their own manager",
		http.StatusBadRequest,
	)
	ErrManagerCycle = apperror.New(
		apperror.CodeInvalidInput,
		"Manager assignment would create a reporting cycle",
		http.StatusBadRequest,
	)
	ErrSelfDelete = apperror.New(
		apperror.CodeInvalidState,
		"You cannot delete your own employee record",
		http.StatusBadRequest,
	)
	ErrHasDirectReports = apperror.New(
		apperror.CodeInvalidState,
		"Employee still has direct reports; reassign them first",
		http.StatusBadRequest,
	)
	ErrPasswordHashFailed = apperror.New(
		apperror.CodeInternalError,
		"Failed to secure password",
		http.StatusInternalServerError,
	)
)
