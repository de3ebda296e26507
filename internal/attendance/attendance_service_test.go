package attendance_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"go-leave/internal/attendance"
	"go-leave/internal/authz"
	authzerrors "go-leave/internal/authz/errors"
	"go-leave/internal/identity"
	"go-leave/internal/rbac"
	"go-leave/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepository struct {
	records   map[uuid.UUID][]attendance.Attendance
	holidays  []attendance.CompanyCalendar
	queriedID uuid.UUID
	from, to  time.Time
	err       error
}

func (f *fakeRepository) WithTx(*sql.Tx) attendance.Repository { return f }

func (f *fakeRepository) FindByEmployeeBetween(_ context.Context, employeeID uuid.UUID, from, to time.Time) ([]attendance.Attendance, error) {
	f.queriedID, f.from, f.to = employeeID, from, to
	if f.err != nil {
		return nil, f.err
	}
	return f.records[employeeID], nil
}

func (f *fakeRepository) FindHolidaysBetween(context.Context, time.Time, time.Time) ([]attendance.CompanyCalendar, error) {
	return f.holidays, nil
}

type directory map[uuid.UUID]identity.Identity

func (d directory) Lookup(_ context.Context, id uuid.UUID) (identity.Identity, error) {
	who, ok := d[id]
	if !ok {
		return identity.Identity{}, identity.ErrNotFound
	}
	return who, nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type calendarFixture struct {
	svc      attendance.Service
	repo     *fakeRepository
	hr       identity.Identity
	manager  identity.Identity
	report   identity.Identity
	outsider identity.Identity
}

func newCalendarFixture(t *testing.T) calendarFixture {
	t.Helper()
	manager := identity.Identity{ID: uuid.New(), Role: rbac.RoleManager}
	otherManager := identity.Identity{ID: uuid.New(), Role: rbac.RoleManager}
	report := identity.Identity{ID: uuid.New(), Role: rbac.RoleEmployee, ManagerID: &manager.ID}
	outsider := identity.Identity{ID: uuid.New(), Role: rbac.RoleEmployee, ManagerID: &otherManager.ID}
	hr := identity.Identity{ID: uuid.New(), Role: rbac.RoleHR}

	dir := directory{}
	for _, who := range []identity.Identity{manager, otherManager, report, outsider, hr} {
		dir[who.ID] = who
	}

	rbacSvc, err := rbac.NewService(rbac.DefaultTable())
	require.NoError(t, err)

	repo := &fakeRepository{records: map[uuid.UUID][]attendance.Attendance{}}
	svc := attendance.NewService(repo, authz.NewGuard(rbacSvc), authz.NewScopeResolver(dir))

	return calendarFixture{svc: svc, repo: repo, hr: hr, manager: manager, report: report, outsider: outsider}
}

func TestService_MonthlyCalendar(t *testing.T) {
	t.Run("own calendar with records and holidays", func(t *testing.T) {
		f := newCalendarFixture(t)
		newYear := "New Year"
		f.repo.records[f.report.ID] = []attendance.Attendance{
			{EmployeeID: f.report.ID, Date: day(2025, time.January, 1), Status: "Present"},
			{EmployeeID: f.report.ID, Date: day(2025, time.January, 2), Status: "Absent"},
		}
		f.repo.holidays = []attendance.CompanyCalendar{
			{Date: day(2025, time.January, 1), IsHoliday: true, HolidayName: &newYear},
			{Date: day(2025, time.January, 6), IsHoliday: true},
		}

		resp, err := f.svc.MonthlyCalendar(context.Background(), f.report, attendance.CalendarQuery{Month: 1, Year: 2025})

		require.NoError(t, err)
		assert.Equal(t, f.report.ID.String(), resp.EmployeeID)
		assert.Equal(t, "January", resp.Month)
		assert.Equal(t, 2025, resp.Year)
		require.Len(t, resp.CalendarView, 31)
		assert.Equal(t, attendance.CalendarDay{Date: "2025-01-01", Status: "Present"}, resp.CalendarView[0])
		assert.Equal(t, "Absent", resp.CalendarView[1].Status)
		assert.Equal(t, attendance.StatusNotMarked, resp.CalendarView[2].Status)
		assert.Equal(t, "Holiday (Holiday)", resp.CalendarView[5].Status)
		assert.Equal(t, "2025-01-31", resp.CalendarView[30].Date)

		assert.Equal(t, f.report.ID, f.repo.queriedID)
		assert.Equal(t, day(2025, time.January, 1), f.repo.from)
		assert.Equal(t, day(2025, time.January, 31), f.repo.to)
	})

	t.Run("leap february", func(t *testing.T) {
		f := newCalendarFixture(t)

		resp, err := f.svc.MonthlyCalendar(context.Background(), f.report, attendance.CalendarQuery{Month: 2, Year: 2024})

		require.NoError(t, err)
		assert.Equal(t, "February", resp.Month)
		assert.Len(t, resp.CalendarView, 29)
	})

	t.Run("defaults to current month", func(t *testing.T) {
		f := newCalendarFixture(t)
		now := time.Now().UTC()

		resp, err := f.svc.MonthlyCalendar(context.Background(), f.report, attendance.CalendarQuery{})

		require.NoError(t, err)
		assert.Equal(t, now.Month().String(), resp.Month)
		assert.Equal(t, now.Year(), resp.Year)
	})

	t.Run("invalid month", func(t *testing.T) {
		f := newCalendarFixture(t)

		_, err := f.svc.MonthlyCalendar(context.Background(), f.report, attendance.CalendarQuery{Month: 13, Year: 2025})

		assert.Equal(t, apperror.CodeInvalidInput, apperror.CodeOf(err))
	})

	t.Run("invalid employee id", func(t *testing.T) {
		f := newCalendarFixture(t)

		_, err := f.svc.MonthlyCalendar(context.Background(), f.manager, attendance.CalendarQuery{Month: 1, Year: 2025, EmployeeID: "nope"})

		assert.Equal(t, apperror.CodeInvalidInput, apperror.CodeOf(err))
	})

	t.Run("manager reads direct report", func(t *testing.T) {
		f := newCalendarFixture(t)

		resp, err := f.svc.MonthlyCalendar(context.Background(), f.manager, attendance.CalendarQuery{
			Month: 3, Year: 2025, EmployeeID: f.report.ID.String(),
		})

		require.NoError(t, err)
		assert.Equal(t, f.report.ID.String(), resp.EmployeeID)
	})

	t.Run("manager cannot read another team", func(t *testing.T) {
		f := newCalendarFixture(t)

		_, err := f.svc.MonthlyCalendar(context.Background(), f.manager, attendance.CalendarQuery{
			Month: 3, Year: 2025, EmployeeID: f.outsider.ID.String(),
		})

		assert.True(t, errors.Is(err, authzerrors.ErrOutOfScope))
		assert.Equal(t, uuid.Nil, f.repo.queriedID)
	})

	t.Run("employee cannot read a colleague", func(t *testing.T) {
		f := newCalendarFixture(t)

		_, err := f.svc.MonthlyCalendar(context.Background(), f.report, attendance.CalendarQuery{
			Month: 3, Year: 2025, EmployeeID: f.outsider.ID.String(),
		})

		assert.Equal(t, apperror.CodeForbidden, apperror.CodeOf(err))
	})

	t.Run("hr reads anyone", func(t *testing.T) {
		f := newCalendarFixture(t)

		_, err := f.svc.MonthlyCalendar(context.Background(), f.hr, attendance.CalendarQuery{
			Month: 3, Year: 2025, EmployeeID: f.outsider.ID.String(),
		})

		assert.NoError(t, err)
	})

	t.Run("unknown target is not found", func(t *testing.T) {
		f := newCalendarFixture(t)

		_, err := f.svc.MonthlyCalendar(context.Background(), f.hr, attendance.CalendarQuery{
			Month: 3, Year: 2025, EmployeeID: uuid.NewString(),
		})

		assert.True(t, errors.Is(err, authzerrors.ErrTargetNotFound))
	})

	t.Run("repository failure", func(t *testing.T) {
		f := newCalendarFixture(t)
		f.repo.err = errors.New("db down")

		_, err := f.svc.MonthlyCalendar(context.Background(), f.report, attendance.CalendarQuery{Month: 1, Year: 2025})

		assert.EqualError(t, err, "db down")
	})
}

func TestBuildCalendar_HolidayDoesNotOverrideRecord(t *testing.T) {
	name := "Founders Day"
	records := []attendance.Attendance{{Date: day(2025, time.April, 10), Status: "Present"}}
	holidays := []attendance.CompanyCalendar{
		{Date: day(2025, time.April, 10), IsHoliday: true, HolidayName: &name},
		{Date: day(2025, time.April, 11), IsHoliday: true, HolidayName: &name},
		{Date: day(2025, time.April, 12), IsHoliday: false, HolidayName: &name},
		{Date: day(2025, time.May, 1), IsHoliday: true},
	}

	view := attendance.BuildCalendar(2025, time.April, records, holidays)

	require.Len(t, view, 30)
	assert.Equal(t, "Present", view[9].Status)
	assert.Equal(t, "Holiday (Founders Day)", view[10].Status)
	assert.Equal(t, attendance.StatusNotMarked, view[11].Status)
	assert.Equal(t, attendance.StatusNotMarked, view[29].Status)
}
