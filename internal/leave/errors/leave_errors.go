package leaveerrors

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave not found",
		http.StatusNotFound,
	)
	ErrInvalidLeaveID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave id",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidApprovedBy = apperror.New(
		apperror.CodeInvalidInput,
		"invalid approved_by",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"from_date must be before or equal to_date",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveType = apperror.New(
		apperror.CodeInvalidInput,
		"leave_type must be one of sick, casual, earned, unpaid",
		http.StatusBadRequest,
	)
	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"status must be one of pending, approved, rejected, cancelled",
		http.StatusBadRequest,
	)
	ErrLeaveOverlap = apperror.New(
		apperror.CodeInvalidInput,
		"leave already exists in overlapping period",
		http.StatusBadRequest,
	)
	ErrRestrictedFields = apperror.New(
		apperror.CodeForbidden,
		"only from_date, to_date, reason and leave_type can be changed on your own leave",
		http.StatusForbidden,
	)

	ErrOnlyPendingUpdate = apperror.New(
		apperror.CodeInvalidState,
		"only pending leaves can be updated",
		http.StatusBadRequest,
	)
	ErrOnlyPendingCancel = apperror.New(
		apperror.CodeInvalidState,
		"only pending leaves can be cancelled",
		http.StatusBadRequest,
	)
	ErrOnlyPendingDelete = apperror.New(
		apperror.CodeInvalidState,
		"only pending leaves can be deleted",
		http.StatusBadRequest,
	)
	ErrOnlyPendingDecision = apperror.New(
		apperror.CodeInvalidState,
		"only pending leaves can be approved or rejected",
		http.StatusBadRequest,
	)
	ErrTerminalStatus = apperror.New(
		apperror.CodeInvalidState,
		"approved, rejected and cancelled leaves cannot change status",
		http.StatusBadRequest,
	)
	ErrConcurrentModification = apperror.New(
		apperror.CodeInvalidState,
		"leave was modified by another request",
		http.StatusBadRequest,
	)
)
