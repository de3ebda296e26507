package identity_test

import (
	"testing"

	"go-leave/internal/identity"
	"go-leave/internal/rbac"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestIdentity_ReportsTo(t *testing.T) {
	managerID := uuid.New()
	id := identity.Identity{ID: uuid.New(), Role: rbac.RoleEmployee, ManagerID: &managerID}

	assert.True(t, id.ReportsTo(managerID))
	assert.False(t, id.ReportsTo(uuid.New()))
	assert.False(t, identity.Identity{ID: uuid.New()}.ReportsTo(managerID))
	assert.True(t, identity.Identity{}.IsZero())
	assert.False(t, id.IsZero())
}
