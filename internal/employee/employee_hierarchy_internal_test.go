package employee

import (
	"errors"
	"testing"

	employeeerrors "go-leave/internal/employee/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func chain(links map[uuid.UUID]*uuid.UUID) func(uuid.UUID) (*uuid.UUID, error) {
	return func(id uuid.UUID) (*uuid.UUID, error) {
		return links[id], nil
	}
}

func TestEnsureAcyclic(t *testing.T) {
	admin := uuid.New()
	hr := uuid.New()
	mgr := uuid.New()
	emp := uuid.New()

	links := map[uuid.UUID]*uuid.UUID{
		admin: nil,
		hr:    &admin,
		mgr:   &hr,
		emp:   &mgr,
	}

	t.Run("valid reparent", func(t *testing.T) {
		assert.NoError(t, ensureAcyclic(emp, hr, chain(links)))
	})

	t.Run("self manager", func(t *testing.T) {
		err := ensureAcyclic(mgr, mgr, chain(links))
		assert.ErrorIs(t, err, employeeerrors.ErrSelfManager)
	})

	t.Run("direct cycle", func(t *testing.T) {
		err := ensureAcyclic(mgr, emp, chain(links))
		assert.ErrorIs(t, err, employeeerrors.ErrManagerCycle)
	})

	t.Run("transitive cycle", func(t *testing.T) {
		err := ensureAcyclic(admin, emp, chain(links))
		assert.ErrorIs(t, err, employeeerrors.ErrManagerCycle)
	})

	t.Run("pre-existing loop above", func(t *testing.T) {
		a, b := uuid.New(), uuid.New()
		looped := map[uuid.UUID]*uuid.UUID{a: &b, b: &a}
		err := ensureAcyclic(emp, a, chain(looped))
		assert.ErrorIs(t, err, employeeerrors.ErrManagerCycle)
	})

	t.Run("lookup error", func(t *testing.T) {
		boom := errors.New("db down")
		err := ensureAcyclic(emp, mgr, func(uuid.UUID) (*uuid.UUID, error) {
			return nil, boom
		})
		assert.ErrorIs(t, err, boom)
	})
}
