package leave_test

import (
	"context"
	"testing"
	"time"

	"go-leave/internal/authz"
	"go-leave/internal/leave"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupRepoTest(t *testing.T) (leave.Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return leave.NewRepository(gdb), mock
}

func TestLeaveRepository_TransitionStatus(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	approver := uuid.New()

	t.Run("row still pending", func(t *testing.T) {
		repo, mock := setupRepoTest(t)
		mock.ExpectExec(`UPDATE "employee_leaves" SET .*WHERE \(?id = \$\d+ AND status = \$\d+\)?`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := repo.TransitionStatus(ctx, id, leave.StatusPending, leave.StatusApproved, &approver, nil)

		require.NoError(t, err)
		assert.True(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("row already moved", func(t *testing.T) {
		repo, mock := setupRepoTest(t)
		mock.ExpectExec(`UPDATE "employee_leaves" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := repo.TransitionStatus(ctx, id, leave.StatusPending, leave.StatusCancelled, nil, nil)

		require.NoError(t, err)
		assert.False(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLeaveRepository_DeleteIfStatus(t *testing.T) {
	repo, mock := setupRepoTest(t)
	mock.ExpectExec(`DELETE FROM "employee_leaves" WHERE`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.DeleteIfStatus(context.Background(), uuid.New(), leave.StatusPending)

	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaveRepository_HasOverlappingPeriod(t *testing.T) {
	repo, mock := setupRepoTest(t)
	mock.ExpectQuery(`SELECT count\(\*\) FROM "employee_leaves" WHERE employee_id = .* AND status IN .*to_date < .* OR from_date > `).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	from := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	overlap, err := repo.HasOverlappingPeriod(context.Background(), uuid.New(), from, from.AddDate(0, 0, 2), nil)

	require.NoError(t, err)
	assert.True(t, overlap)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaveRepository_FindAllTeamScope(t *testing.T) {
	repo, mock := setupRepoTest(t)
	mock.ExpectQuery(`SELECT \* FROM "employee_leaves" WHERE employee_id IN \(SELECT id FROM employees WHERE manager_id = \$1\)`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "employee_id", "status"}))

	leaves, err := repo.FindAll(context.Background(), authz.Scope{Kind: authz.ScopeTeam, EmployeeID: uuid.New()}, leave.ListFilter{})

	require.NoError(t, err)
	assert.Empty(t, leaves)
	assert.NoError(t, mock.ExpectationsWereMet())
}
