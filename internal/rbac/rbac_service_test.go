package rbac

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestService(t *testing.T, table Table) Service {
	t.Helper()
	svc, err := NewService(table)
	assert.NoError(t, err)
	return svc
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func TestRBACService_HasPermissionMatchesTable(t *testing.T) {
	table := DefaultTable()
	svc := newTestService(t, table)

	tokens := append(AllPermissions(), Wildcard, "unknown_token", "CREATE_LEAVE")
	for _, role := range Roles() {
		for _, token := range tokens {
			want := contains(table[role], token) || contains(table[role], Wildcard)
			assert.Equal(t, want, svc.HasPermission(role, token), "role=%s token=%s", role, token)
		}
	}
}

func TestRBACService_UnknownRoleDenied(t *testing.T) {
	svc := newTestService(t, DefaultTable())

	for _, token := range append(AllPermissions(), Wildcard) {
		assert.False(t, svc.HasPermission(Role("contractor"), token))
		assert.False(t, svc.HasPermission(Role(""), token))
	}
}

func TestRBACService_Scenarios(t *testing.T) {
	svc := newTestService(t, DefaultTable())

	assert.True(t, svc.HasPermission(RoleEmployee, PermCreateLeave))
	assert.False(t, svc.HasPermission(RoleEmployee, PermApproveLeave))
	assert.True(t, svc.HasPermission(RoleManager, PermApproveLeave))
	assert.False(t, svc.HasPermission(RoleManager, PermDeleteLeave))
	assert.False(t, svc.HasPermission(RoleHR, PermCancelOwnLeave))
	assert.True(t, svc.HasPermission(RoleHR, PermDeleteEmployee))
	assert.True(t, svc.HasPermission(RoleAdmin, "anything_at_all"))
}

func TestRBACService_TableIsCopied(t *testing.T) {
	table := Table{RoleEmployee: {PermViewOwnLeave}}
	svc := newTestService(t, table)

	table[RoleEmployee][0] = PermDeleteLeave
	table[RoleManager] = []string{Wildcard}

	assert.True(t, svc.HasPermission(RoleEmployee, PermViewOwnLeave))
	assert.False(t, svc.HasPermission(RoleEmployee, PermDeleteLeave))
	assert.False(t, svc.HasPermission(RoleManager, PermViewOwnLeave))
	assert.Equal(t, []string{PermViewOwnLeave}, svc.Permissions(RoleEmployee))
}

func TestRBACService_Permissions(t *testing.T) {
	svc := newTestService(t, DefaultTable())

	assert.Equal(t, AllPermissions(), svc.Permissions(RoleAdmin))
	assert.Len(t, svc.Permissions(RoleManager), 5)
	assert.Empty(t, svc.Permissions(Role("ghost")))
}

func TestRBACService_ConcurrentReads(t *testing.T) {
	svc := newTestService(t, DefaultTable())

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, token := range AllPermissions() {
				_ = svc.HasPermission(RoleHR, token)
			}
		}()
	}
	wg.Wait()

	assert.True(t, svc.HasPermission(RoleHR, PermViewAllLeave))
}

func TestParseRole(t *testing.T) {
	r, ok := ParseRole(" Manager ")
	assert.True(t, ok)
	assert.Equal(t, RoleManager, r)

	_, ok = ParseRole("owner")
	assert.False(t, ok)

	assert.True(t, RoleHR.Global())
	assert.True(t, RoleAdmin.Global())
	assert.False(t, RoleManager.Global())
}
