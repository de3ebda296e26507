package attendance

import (
	"context"
	"time"

	attendanceerrors "go-leave/internal/attendance/errors"
	"go-leave/internal/authz"
	"go-leave/internal/identity"
	"go-leave/internal/rbac"
	"go-leave/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	dateLayout      = "2006-01-02"
	StatusNotMarked = "Not Marked"
)

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	MonthlyCalendar(ctx context.Context, actor identity.Identity, q CalendarQuery) (CalendarResponse, error)
}

type service struct {
	repo   Repository
	guard  *authz.Guard
	scope  *authz.ScopeResolver
	now    func() time.Time
	logger *zap.Logger
}

func NewService(repo Repository, guard *authz.Guard, scope *authz.ScopeResolver, logger ...*zap.Logger) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{
		repo:   repo,
		guard:  guard,
		scope:  scope,
		now:    func() time.Time { return time.Now().UTC() },
		logger: l,
	}
}

func (s *service) MonthlyCalendar(ctx context.Context, actor identity.Identity, q CalendarQuery) (CalendarResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("monthly calendar requested",
		zap.String("request_id", rid),
		zap.String("actor_id", actor.ID.String()),
		zap.Int("month", q.Month),
		zap.Int("year", q.Year),
	)

	year, month, err := s.resolvePeriod(q)
	if err != nil {
		return CalendarResponse{}, err
	}

	target, err := s.authorizeTarget(ctx, actor, q.EmployeeID)
	if err != nil {
		s.logger.Warn("monthly calendar denied",
			zap.String("request_id", rid),
			zap.String("actor_id", actor.ID.String()),
			zap.Error(err),
		)
		return CalendarResponse{}, err
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	records, err := s.repo.FindByEmployeeBetween(ctx, target, first, last)
	if err != nil {
		s.logger.Error("monthly calendar attendance query failed", zap.String("request_id", rid), zap.Error(err))
		return CalendarResponse{}, err
	}
	holidays, err := s.repo.FindHolidaysBetween(ctx, first, last)
	if err != nil {
		s.logger.Error("monthly calendar holiday query failed", zap.String("request_id", rid), zap.Error(err))
		return CalendarResponse{}, err
	}

	s.logger.Info("monthly calendar success",
		zap.String("request_id", rid),
		zap.String("employee_id", target.String()),
		zap.Int("records", len(records)),
		zap.Int("holidays", len(holidays)),
	)

	return CalendarResponse{
		EmployeeID:   target.String(),
		Month:        month.String(),
		Year:         year,
		CalendarView: BuildCalendar(year, month, records, holidays),
	}, nil
}

func (s *service) resolvePeriod(q CalendarQuery) (int, time.Month, error) {
	now := s.now()
	month, year := q.Month, q.Year
	if month == 0 {
		month = int(now.Month())
	}
	if year == 0 {
		year = now.Year()
	}
	if month < 1 || month > 12 {
		return 0, 0, attendanceerrors.ErrInvalidMonth
	}
	if year < 1 || year > 9999 {
		return 0, 0, attendanceerrors.ErrInvalidYear
	}
	return year, time.Month(month), nil
}

// authorizeTarget picks whose calendar is read. Reading your own needs the
// own or all token; anyone else needs the team or all token and must be in
// the actor's scope.
func (s *service) authorizeTarget(ctx context.Context, actor identity.Identity, raw string) (uuid.UUID, error) {
	target := actor.ID
	if raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return uuid.Nil, attendanceerrors.ErrInvalidEmployeeID
		}
		target = id
	}

	if target == actor.ID {
		if err := s.guard.AuthorizeAny(actor, rbac.PermViewOwnAttendance, rbac.PermViewAllAttendance); err != nil {
			return uuid.Nil, err
		}
		return target, nil
	}

	if err := s.guard.AuthorizeAny(actor, rbac.PermViewTeamAttendance, rbac.PermViewAllAttendance); err != nil {
		return uuid.Nil, err
	}
	if err := s.scope.Require(ctx, actor, target); err != nil {
		return uuid.Nil, err
	}
	return target, nil
}

// BuildCalendar lays out every day of the month. Attendance records replace
// the default status; holidays only fill days nobody marked.
func BuildCalendar(year int, month time.Month, records []Attendance, holidays []CompanyCalendar) []CalendarDay {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	days := first.AddDate(0, 1, -1).Day()

	statuses := make([]string, days)
	for i := range statuses {
		statuses[i] = StatusNotMarked
	}

	inMonth := func(d time.Time) (int, bool) {
		if d.Year() != year || d.Month() != month {
			return 0, false
		}
		return d.Day() - 1, true
	}

	for _, r := range records {
		if i, ok := inMonth(r.Date); ok {
			statuses[i] = r.Status
		}
	}
	for _, h := range holidays {
		i, ok := inMonth(h.Date)
		if !ok || !h.IsHoliday || statuses[i] != StatusNotMarked {
			continue
		}
		name := "Holiday"
		if h.HolidayName != nil && *h.HolidayName != "" {
			name = *h.HolidayName
		}
		statuses[i] = "Holiday (" + name + ")"
	}

	view := make([]CalendarDay, days)
	for i, status := range statuses {
		view[i] = CalendarDay{
			Date:   first.AddDate(0, 0, i).Format(dateLayout),
			Status: status,
		}
	}
	return view
}
