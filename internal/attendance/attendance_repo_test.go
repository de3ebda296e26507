package attendance_test

import (
	"context"
	"testing"
	"time"

	"go-leave/internal/attendance"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupRepoTest(t *testing.T) (attendance.Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return attendance.NewRepository(gdb), mock
}

func TestAttendanceRepository_FindByEmployeeBetween(t *testing.T) {
	repo, mock := setupRepoTest(t)
	employeeID := uuid.New()
	from := day(2025, time.June, 1)
	to := day(2025, time.June, 30)

	rows := sqlmock.NewRows([]string{"id", "employee_id", "date", "status"}).
		AddRow(uuid.New(), employeeID, day(2025, time.June, 3), "Present")
	mock.ExpectQuery(`SELECT \* FROM "attendances" WHERE employee_id = \$1 AND date BETWEEN \$2 AND \$3 ORDER BY date ASC`).
		WithArgs(employeeID, from, to).
		WillReturnRows(rows)

	got, err := repo.FindByEmployeeBetween(context.Background(), employeeID, from, to)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Present", got[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepository_FindHolidaysBetween(t *testing.T) {
	repo, mock := setupRepoTest(t)
	from := day(2025, time.December, 1)
	to := day(2025, time.December, 31)

	rows := sqlmock.NewRows([]string{"id", "date", "is_holiday", "holiday_name"}).
		AddRow(uuid.New(), day(2025, time.December, 25), true, "Christmas")
	mock.ExpectQuery(`SELECT \* FROM "company_calendar" WHERE is_holiday = \$1 AND date BETWEEN \$2 AND \$3`).
		WithArgs(true, from, to).
		WillReturnRows(rows)

	got, err := repo.FindHolidaysBetween(context.Background(), from, to)

	require.NoError(t, err)
	require.Len(t, got, 1)
	require.NotNil(t, got[0].HolidayName)
	assert.Equal(t, "Christmas", *got[0].HolidayName)
	assert.NoError(t, mock.ExpectationsWereMet())
}
