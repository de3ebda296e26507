// Package identity describes the authenticated caller of an operation.
package identity

import (
	"context"
	"errors"

	"go-leave/internal/rbac"

	"github.com/google/uuid"
)

// ErrNotFound is returned by a Lookup when no live employee has the id.
var ErrNotFound = errors.New("identity: employee not found")

// Identity is the caller as known to the employee directory: who they are,
// their role, and who they report to.
type Identity struct {
	ID        uuid.UUID
	Role      rbac.Role
	ManagerID *uuid.UUID
}

func (i Identity) IsZero() bool {
	return i.ID == uuid.Nil
}

// ReportsTo reports whether managerID is the direct manager of i.
func (i Identity) ReportsTo(managerID uuid.UUID) bool {
	return i.ManagerID != nil && *i.ManagerID == managerID
}

// Lookup resolves an employee id into its current Identity.
type Lookup interface {
	Lookup(ctx context.Context, id uuid.UUID) (Identity, error)
}
