package authz

import (
	"fmt"
	"net/http"
	"strings"

	authzerrors "go-leave/internal/authz/errors"
	"go-leave/internal/identity"
	"go-leave/internal/rbac"
	"go-leave/internal/shared/apperror"

	"go.uber.org/zap"
)

// Guard answers "may this caller perform this action" from the role table
// alone. Relationship checks belong to ScopeResolver.
type Guard struct {
	rbac   rbac.Service
	logger *zap.Logger
}

func NewGuard(svc rbac.Service, logger ...*zap.Logger) *Guard {
	l := zap.L().Named("authz.guard")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("authz.guard")
	}
	return &Guard{rbac: svc, logger: l}
}

func (g *Guard) Can(actor identity.Identity, token string) bool {
	if actor.IsZero() {
		return false
	}
	return g.rbac.HasPermission(actor.Role, token)
}

func (g *Guard) Authorize(actor identity.Identity, token string) error {
	return g.AuthorizeAny(actor, token)
}

// AuthorizeAny passes when the caller holds at least one of tokens.
func (g *Guard) AuthorizeAny(actor identity.Identity, tokens ...string) error {
	if actor.IsZero() {
		return authzerrors.ErrUnauthenticated
	}
	for _, token := range tokens {
		if g.rbac.HasPermission(actor.Role, token) {
			return nil
		}
	}

	g.logger.Warn("authorization denied",
		zap.String("employee_id", actor.ID.String()),
		zap.String("role", string(actor.Role)),
		zap.Strings("required", tokens),
	)
	return apperror.Wrap(
		authzerrors.ErrPermissionDenied,
		apperror.CodeForbidden,
		fmt.Sprintf("Role '%s' does not have permission '%s'", actor.Role, strings.Join(tokens, "' or '")),
		http.StatusForbidden,
	)
}
