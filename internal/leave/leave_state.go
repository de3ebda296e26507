package leave

import (
	"strings"

	leaveerrors "go-leave/internal/leave/errors"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

func ParseStatus(v string) (Status, error) {
	switch s := Status(strings.ToLower(strings.TrimSpace(v))); s {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		return s, nil
	}
	return "", leaveerrors.ErrInvalidStatus
}

// Terminal statuses never change again.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected || s == StatusCancelled
}

// Decided reports whether s carries an approver.
func (s Status) Decided() bool {
	return s == StatusApproved || s == StatusRejected
}

// CanBecome reports whether a leave in s may be moved to next. Keeping the
// same status is always allowed; otherwise only pending leaves move.
func (s Status) CanBecome(next Status) bool {
	if s == next {
		return true
	}
	return s == StatusPending
}

type Type string

const (
	TypeSick   Type = "sick"
	TypeCasual Type = "casual"
	TypeEarned Type = "earned"
	TypeUnpaid Type = "unpaid"
)

// ParseType defaults an empty value to casual.
func ParseType(v string) (Type, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return TypeCasual, nil
	}
	switch t := Type(v); t {
	case TypeSick, TypeCasual, TypeEarned, TypeUnpaid:
		return t, nil
	}
	return "", leaveerrors.ErrInvalidLeaveType
}
