package authz

import (
	"context"
	"errors"

	authzerrors "go-leave/internal/authz/errors"
	"go-leave/internal/identity"
	"go-leave/internal/rbac"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ScopeKind int

const (
	ScopeNone ScopeKind = iota
	ScopeSelf
	ScopeTeam
	ScopeAll
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeSelf:
		return "self"
	case ScopeTeam:
		return "team"
	case ScopeAll:
		return "all"
	}
	return "none"
}

// Scope is the set of employees an actor can reach. EmployeeID is the actor
// for ScopeSelf and the manager for ScopeTeam.
type Scope struct {
	Kind       ScopeKind
	EmployeeID uuid.UUID
}

// ScopeFor derives the reachable set from the actor's role: hr and admin
// reach everyone, a manager reaches direct reports, an employee reaches
// only themselves.
func ScopeFor(actor identity.Identity) Scope {
	if actor.IsZero() {
		return Scope{Kind: ScopeNone}
	}
	switch {
	case actor.Role.Global():
		return Scope{Kind: ScopeAll}
	case actor.Role == rbac.RoleManager:
		return Scope{Kind: ScopeTeam, EmployeeID: actor.ID}
	case actor.Role == rbac.RoleEmployee:
		return Scope{Kind: ScopeSelf, EmployeeID: actor.ID}
	}
	return Scope{Kind: ScopeNone}
}

func (s Scope) Allows(target identity.Identity) bool {
	switch s.Kind {
	case ScopeAll:
		return true
	case ScopeTeam:
		// direct reports only, never transitive
		return target.ReportsTo(s.EmployeeID)
	case ScopeSelf:
		return target.ID == s.EmployeeID
	}
	return false
}

// Covers is the pure scoping rule between two known employees.
func Covers(actor, target identity.Identity) bool {
	return ScopeFor(actor).Allows(target)
}

type ScopeResolver struct {
	directory identity.Lookup
	logger    *zap.Logger
}

func NewScopeResolver(directory identity.Lookup, logger ...*zap.Logger) *ScopeResolver {
	l := zap.L().Named("authz.scope")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("authz.scope")
	}
	return &ScopeResolver{directory: directory, logger: l}
}

// InScope loads the target and applies Covers. A missing target yields
// ErrTargetNotFound rather than false.
func (r *ScopeResolver) InScope(ctx context.Context, actor identity.Identity, targetID uuid.UUID) (bool, error) {
	if actor.IsZero() {
		return false, authzerrors.ErrUnauthenticated
	}

	target, err := r.directory.Lookup(ctx, targetID)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return false, authzerrors.ErrTargetNotFound
		}
		r.logger.Error("scope lookup failed",
			zap.String("target_id", targetID.String()),
			zap.Error(err),
		)
		return false, err
	}

	in := Covers(actor, target)
	if !in {
		r.logger.Debug("target out of scope",
			zap.String("actor_id", actor.ID.String()),
			zap.String("role", string(actor.Role)),
			zap.String("target_id", targetID.String()),
		)
	}
	return in, nil
}

// Require is InScope with out-of-scope turned into ErrOutOfScope.
func (r *ScopeResolver) Require(ctx context.Context, actor identity.Identity, targetID uuid.UUID) error {
	in, err := r.InScope(ctx, actor, targetID)
	if err != nil {
		return err
	}
	if !in {
		return authzerrors.ErrOutOfScope
	}
	return nil
}
