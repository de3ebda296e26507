package employee

import (
	employeeerrors "go-leave/internal/employee/errors"

	"github.com/google/uuid"
)

// ensureAcyclic walks the manager chain upward from managerID and fails when
// it reaches employeeID. parentOf returns the manager of an employee, or nil
// at the top of the chain.
func ensureAcyclic(
	employeeID, managerID uuid.UUID,
	parentOf func(uuid.UUID) (*uuid.UUID, error),
) error {
	if employeeID == managerID {
		return employeeerrors.ErrSelfManager
	}

	seen := map[uuid.UUID]struct{}{}
	current := managerID
	for {
		if current == employeeID {
			return employeeerrors.ErrManagerCycle
		}
		if _, ok := seen[current]; ok {
			// existing chain is already looping above us
			return employeeerrors.ErrManagerCycle
		}
		seen[current] = struct{}{}

		parent, err := parentOf(current)
		if err != nil {
			return err
		}
		if parent == nil {
			return nil
		}
		current = *parent
	}
}
