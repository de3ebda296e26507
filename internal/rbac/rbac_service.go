package rbac

import (
	"fmt"
	"sort"

	"go-leave/internal/rbac/infra"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	HasPermission(role Role, token string) bool
	Permissions(role Role) []string
}

type service struct {
	enforcer *casbin.SyncedEnforcer
	table    Table
	logger   *zap.Logger
}

// NewService loads table into a casbin enforcer once. The table is copied, so
// later changes to the argument have no effect.
func NewService(table Table, logger ...*zap.Logger) (Service, error) {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}

	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return nil, fmt.Errorf("build enforcer: %w", err)
	}

	owned := table.clone()
	for role, perms := range owned {
		for _, perm := range perms {
			if _, err := enforcer.AddPolicy(string(role), perm); err != nil {
				return nil, fmt.Errorf("load policy %s/%s: %w", role, perm, err)
			}
		}
		l.Debug("rbac role loaded", zap.String("role", string(role)), zap.Int("permissions", len(perms)))
	}

	return &service{enforcer: enforcer, table: owned, logger: l}, nil
}

func (s *service) HasPermission(role Role, token string) bool {
	if role == "" || token == "" {
		return false
	}

	allowed, err := s.enforcer.Enforce(string(role), token)
	if err != nil {
		s.logger.Error("rbac enforce failed",
			zap.String("role", string(role)),
			zap.String("permission", token),
			zap.Error(err),
		)
		return false
	}
	return allowed
}

func (s *service) Permissions(role Role) []string {
	perms, ok := s.table[role]
	if !ok {
		return []string{}
	}
	for _, p := range perms {
		if p == Wildcard {
			return AllPermissions()
		}
	}

	out := make([]string, len(perms))
	copy(out, perms)
	sort.Strings(out)
	return out
}
