package leave

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"go-leave/internal/authz"
	authzerrors "go-leave/internal/authz/errors"
	"go-leave/internal/employee"
	"go-leave/internal/identity"
	leaveerrors "go-leave/internal/leave/errors"
	"go-leave/internal/notification"
	"go-leave/internal/rbac"
	"go-leave/internal/shared/audit"
	"go-leave/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// Directory is the slice of the employee store the leave workflow reads:
// owners, managers and approvers.
type Directory interface {
	FindByID(ctx context.Context, id string) (*employee.Employee, error)
}

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actor identity.Identity, req CreateLeaveRequest) (LeaveResponse, error)
	GetAll(ctx context.Context, actor identity.Identity, q ListQuery) ([]LeaveResponse, error)
	GetByID(ctx context.Context, actor identity.Identity, id string) (LeaveResponse, error)
	ListForApproval(ctx context.Context, actor identity.Identity, status string) ([]LeaveResponse, error)
	Update(ctx context.Context, actor identity.Identity, id string, req UpdateLeaveRequest) (LeaveResponse, error)
	Approve(ctx context.Context, actor identity.Identity, id string, req DecisionRequest) (LeaveResponse, error)
	Reject(ctx context.Context, actor identity.Identity, id string, req DecisionRequest) (LeaveResponse, error)
	Cancel(ctx context.Context, actor identity.Identity, id string) (LeaveResponse, error)
	Delete(ctx context.Context, actor identity.Identity, id string) error
}

type service struct {
	db        *sql.DB
	repo      Repository
	guard     *authz.Guard
	scope     *authz.ScopeResolver
	directory Directory
	notifier  notification.Notifier
	audit     audit.Logger
	now       func() time.Time
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	guard *authz.Guard,
	scope *authz.ScopeResolver,
	directory Directory,
	notifier notification.Notifier,
	auditLogger audit.Logger,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	if notifier == nil {
		notifier = notification.NotifierFunc(func(context.Context, notification.Notification) bool { return false })
	}
	if auditLogger == nil {
		auditLogger = audit.Nop()
	}
	return &service{
		db:        db,
		repo:      repo,
		guard:     guard,
		scope:     scope,
		directory: directory,
		notifier:  notifier,
		audit:     auditLogger,
		now:       func() time.Time { return time.Now().UTC() },
		logger:    l,
	}
}

func (s *service) Create(ctx context.Context, actor identity.Identity, req CreateLeaveRequest) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create leave requested",
		zap.String("request_id", rid),
		zap.String("actor_id", actor.ID.String()),
		zap.String("from_date", req.FromDate),
		zap.String("to_date", req.ToDate),
	)

	if err := s.guard.Authorize(actor, rbac.PermCreateLeave); err != nil {
		return LeaveResponse{}, err
	}

	from, to, err := parseDateRange(req.FromDate, req.ToDate)
	if err != nil {
		s.logger.Warn("create leave validation failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, err
	}
	leaveType, err := ParseType(req.LeaveType)
	if err != nil {
		return LeaveResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create leave begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	overlap, err := qtx.HasOverlappingPeriod(ctx, actor.ID, from, to, nil)
	if err != nil {
		s.logger.Error("create leave overlap check failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, err
	}
	if overlap {
		s.logger.Warn("create leave overlap detected",
			zap.String("request_id", rid),
			zap.String("employee_id", actor.ID.String()),
			zap.String("from_date", req.FromDate),
			zap.String("to_date", req.ToDate),
		)
		return LeaveResponse{}, leaveerrors.ErrLeaveOverlap
	}

	now := s.now()
	l := &Leave{
		ID:         uuid.New(),
		EmployeeID: actor.ID,
		FromDate:   from,
		ToDate:     to,
		Reason:     strings.TrimSpace(req.Reason),
		LeaveType:  leaveType,
		Status:     StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := qtx.Create(ctx, l); err != nil {
		s.logger.Error("create leave persist failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create leave commit failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, err
	}
	s.logger.Info("create leave success",
		zap.String("request_id", rid),
		zap.String("leave_id", l.ID.String()),
		zap.String("employee_id", actor.ID.String()),
	)
	s.record(ctx, actor, audit.ActionLeaveCreated, "leave request created", l)

	l.Employee = s.findEmployee(ctx, l.EmployeeID)
	resp := mapToResponse(*l)
	sent := s.notifyManager(ctx, l)
	resp.NotificationSent = &sent
	return resp, nil
}

func (s *service) GetAll(ctx context.Context, actor identity.Identity, q ListQuery) ([]LeaveResponse, error) {
	if err := s.guard.AuthorizeAny(actor,
		rbac.PermViewAllLeave,
		rbac.PermViewTeamLeave,
		rbac.PermViewOwnLeave,
	); err != nil {
		return nil, err
	}

	filter, err := parseListQuery(q)
	if err != nil {
		return nil, err
	}

	leaves, err := s.repo.FindAll(ctx, authz.ScopeFor(actor), filter)
	if err != nil {
		s.logger.Error("list leaves failed",
			zap.String("actor_id", actor.ID.String()),
			zap.Error(err),
		)
		return nil, err
	}
	return mapToListResponse(leaves), nil
}

func (s *service) GetByID(ctx context.Context, actor identity.Identity, id string) (LeaveResponse, error) {
	if err := s.guard.AuthorizeAny(actor,
		rbac.PermViewAllLeave,
		rbac.PermViewTeamLeave,
		rbac.PermViewOwnLeave,
	); err != nil {
		return LeaveResponse{}, err
	}

	leaveID, err := parseLeaveID(id)
	if err != nil {
		return LeaveResponse{}, err
	}

	l, err := s.repo.FindByID(ctx, leaveID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}

	if err := s.scope.Require(ctx, actor, l.EmployeeID); err != nil {
		return LeaveResponse{}, err
	}
	return mapToResponse(*l), nil
}

// ListForApproval is the approver's queue: leaves of everyone the actor may
// decide on, filtered by status (pending unless given).
func (s *service) ListForApproval(ctx context.Context, actor identity.Identity, status string) ([]LeaveResponse, error) {
	if err := s.guard.AuthorizeAny(actor, rbac.PermApproveLeave, rbac.PermRejectLeave); err != nil {
		return nil, err
	}

	scope := authz.ScopeFor(actor)
	if scope.Kind != authz.ScopeTeam && scope.Kind != authz.ScopeAll {
		return nil, authzerrors.ErrOutOfScope
	}

	filter := ListFilter{Status: StatusPending}
	if strings.TrimSpace(status) != "" {
		st, err := ParseStatus(status)
		if err != nil {
			return nil, err
		}
		filter.Status = st
	}

	leaves, err := s.repo.FindAll(ctx, scope, filter)
	if err != nil {
		s.logger.Error("list leaves for approval failed",
			zap.String("actor_id", actor.ID.String()),
			zap.Error(err),
		)
		return nil, err
	}
	return mapToListResponse(leaves), nil
}

func (s *service) Update(
	ctx context.Context,
	actor identity.Identity,
	id string,
	req UpdateLeaveRequest,
) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("update leave requested",
		zap.String("request_id", rid),
		zap.String("leave_id", id),
		zap.String("actor_id", actor.ID.String()),
	)

	if err := s.guard.AuthorizeAny(actor, rbac.PermUpdateLeave, rbac.PermUpdateOwnLeave); err != nil {
		return LeaveResponse{}, err
	}
	leaveID, err := parseLeaveID(id)
	if err != nil {
		return LeaveResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update leave begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := lockLeave(ctx, qtx, leaveID)
	if err != nil {
		return LeaveResponse{}, err
	}

	override, err := s.resolveMutation(ctx, actor, l.EmployeeID, rbac.PermUpdateLeave, rbac.PermUpdateOwnLeave)
	if err != nil {
		return LeaveResponse{}, err
	}

	previous := *l
	if override {
		err = s.applyOverride(ctx, actor, l, req)
	} else {
		err = applyOwnerUpdate(l, req)
	}
	if err != nil {
		s.logger.Warn("update leave rejected",
			zap.String("request_id", rid),
			zap.String("leave_id", id),
			zap.Bool("override", override),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}

	periodChanged := !l.FromDate.Equal(previous.FromDate) ||
		!l.ToDate.Equal(previous.ToDate) ||
		l.EmployeeID != previous.EmployeeID
	if periodChanged && (l.Status == StatusPending || l.Status == StatusApproved) {
		overlap, err := qtx.HasOverlappingPeriod(ctx, l.EmployeeID, l.FromDate, l.ToDate, &l.ID)
		if err != nil {
			s.logger.Error("update leave overlap check failed", zap.String("request_id", rid), zap.Error(err))
			return LeaveResponse{}, err
		}
		if overlap {
			return LeaveResponse{}, leaveerrors.ErrLeaveOverlap
		}
	}

	l.UpdatedAt = s.now()
	written, err := qtx.Update(ctx, l, previous.Status)
	if err != nil {
		s.logger.Error("update leave persist failed",
			zap.String("request_id", rid),
			zap.String("leave_id", id),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}
	if !written {
		return LeaveResponse{}, leaveerrors.ErrConcurrentModification
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update leave commit failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, err
	}
	s.logger.Info("update leave success",
		zap.String("request_id", rid),
		zap.String("leave_id", id),
		zap.String("status", string(l.Status)),
	)

	action := audit.ActionLeaveUpdated
	if l.Status != previous.Status {
		action = statusAction(l.Status)
	}
	s.record(ctx, actor, action, "leave request updated", l)

	l.Employee = s.findEmployee(ctx, l.EmployeeID)
	resp := mapToResponse(*l)
	if l.Status != previous.Status && l.Status.Decided() {
		sent := s.notifyDecision(ctx, actor, l)
		resp.NotificationSent = &sent
	}
	return resp, nil
}

func (s *service) Approve(ctx context.Context, actor identity.Identity, id string, req DecisionRequest) (LeaveResponse, error) {
	return s.decide(ctx, actor, id, req, rbac.PermApproveLeave, StatusApproved)
}

func (s *service) Reject(ctx context.Context, actor identity.Identity, id string, req DecisionRequest) (LeaveResponse, error) {
	return s.decide(ctx, actor, id, req, rbac.PermRejectLeave, StatusRejected)
}

func (s *service) decide(
	ctx context.Context,
	actor identity.Identity,
	id string,
	req DecisionRequest,
	token string,
	target Status,
) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("decide leave requested",
		zap.String("request_id", rid),
		zap.String("leave_id", id),
		zap.String("actor_id", actor.ID.String()),
		zap.String("target_status", string(target)),
	)

	if err := s.guard.Authorize(actor, token); err != nil {
		return LeaveResponse{}, err
	}
	leaveID, err := parseLeaveID(id)
	if err != nil {
		return LeaveResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("decide leave begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := lockLeave(ctx, qtx, leaveID)
	if err != nil {
		return LeaveResponse{}, err
	}
	if err := s.scope.Require(ctx, actor, l.EmployeeID); err != nil {
		return LeaveResponse{}, err
	}
	if l.Status != StatusPending {
		s.logger.Warn("decide leave invalid state",
			zap.String("request_id", rid),
			zap.String("leave_id", id),
			zap.String("from_status", string(l.Status)),
			zap.String("to_status", string(target)),
		)
		return LeaveResponse{}, leaveerrors.ErrOnlyPendingDecision
	}

	approver := actor.ID
	written, err := qtx.TransitionStatus(ctx, l.ID, StatusPending, target, &approver, req.Comments)
	if err != nil {
		s.logger.Error("decide leave persist failed",
			zap.String("request_id", rid),
			zap.String("leave_id", id),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}
	if !written {
		return LeaveResponse{}, leaveerrors.ErrConcurrentModification
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("decide leave commit failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, err
	}

	l.Status = target
	l.ApprovedBy = &approver
	if req.Comments != nil {
		l.Comments = req.Comments
	}
	l.UpdatedAt = s.now()

	s.logger.Info("decide leave success",
		zap.String("request_id", rid),
		zap.String("leave_id", id),
		zap.String("status", string(target)),
	)
	s.record(ctx, actor, statusAction(target), "leave request "+string(target), l)

	l.Employee = s.findEmployee(ctx, l.EmployeeID)
	resp := mapToResponse(*l)
	sent := s.notifyDecision(ctx, actor, l)
	resp.NotificationSent = &sent
	return resp, nil
}

func (s *service) Cancel(ctx context.Context, actor identity.Identity, id string) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("cancel leave requested",
		zap.String("request_id", rid),
		zap.String("leave_id", id),
		zap.String("actor_id", actor.ID.String()),
	)

	if err := s.guard.AuthorizeAny(actor, rbac.PermUpdateLeave, rbac.PermCancelOwnLeave); err != nil {
		return LeaveResponse{}, err
	}
	leaveID, err := parseLeaveID(id)
	if err != nil {
		return LeaveResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("cancel leave begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := lockLeave(ctx, qtx, leaveID)
	if err != nil {
		return LeaveResponse{}, err
	}
	if _, err := s.resolveMutation(ctx, actor, l.EmployeeID, rbac.PermUpdateLeave, rbac.PermCancelOwnLeave); err != nil {
		return LeaveResponse{}, err
	}
	if l.Status != StatusPending {
		return LeaveResponse{}, leaveerrors.ErrOnlyPendingCancel
	}

	written, err := qtx.TransitionStatus(ctx, l.ID, StatusPending, StatusCancelled, nil, nil)
	if err != nil {
		s.logger.Error("cancel leave persist failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, err
	}
	if !written {
		return LeaveResponse{}, leaveerrors.ErrConcurrentModification
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("cancel leave commit failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, err
	}

	l.Status = StatusCancelled
	l.ApprovedBy = nil
	l.UpdatedAt = s.now()

	s.logger.Info("cancel leave success", zap.String("request_id", rid), zap.String("leave_id", id))
	s.record(ctx, actor, audit.ActionLeaveCancelled, "leave request cancelled", l)

	l.Employee = s.findEmployee(ctx, l.EmployeeID)
	return mapToResponse(*l), nil
}

func (s *service) Delete(ctx context.Context, actor identity.Identity, id string) error {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("delete leave requested",
		zap.String("request_id", rid),
		zap.String("leave_id", id),
		zap.String("actor_id", actor.ID.String()),
	)

	if err := s.guard.AuthorizeAny(actor, rbac.PermDeleteLeave, rbac.PermDeleteOwnLeave); err != nil {
		return err
	}
	leaveID, err := parseLeaveID(id)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("delete leave begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := lockLeave(ctx, qtx, leaveID)
	if err != nil {
		return err
	}
	override, err := s.resolveMutation(ctx, actor, l.EmployeeID, rbac.PermDeleteLeave, rbac.PermDeleteOwnLeave)
	if err != nil {
		return err
	}

	if override {
		if err := qtx.Delete(ctx, l.ID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return leaveerrors.ErrLeaveNotFound
			}
			s.logger.Error("delete leave persist failed", zap.String("request_id", rid), zap.Error(err))
			return err
		}
	} else {
		if l.Status != StatusPending {
			return leaveerrors.ErrOnlyPendingDelete
		}
		deleted, err := qtx.DeleteIfStatus(ctx, l.ID, StatusPending)
		if err != nil {
			s.logger.Error("delete leave persist failed", zap.String("request_id", rid), zap.Error(err))
			return err
		}
		if !deleted {
			return leaveerrors.ErrConcurrentModification
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("delete leave commit failed", zap.String("request_id", rid), zap.Error(err))
		return err
	}

	s.logger.Info("delete leave success",
		zap.String("request_id", rid),
		zap.String("leave_id", id),
		zap.Bool("override", override),
	)
	s.record(ctx, actor, audit.ActionLeaveDeleted, "leave request deleted", l)
	return nil
}

// resolveMutation decides which rule lets actor touch a leave owned by
// owner. It returns true for the override path (override token and owner in
// scope) and false for the owner path (own token on one's own leave).
func (s *service) resolveMutation(
	ctx context.Context,
	actor identity.Identity,
	owner uuid.UUID,
	overrideToken, ownToken string,
) (bool, error) {
	if s.guard.Can(actor, overrideToken) {
		in, err := s.scope.InScope(ctx, actor, owner)
		if err != nil {
			return false, err
		}
		if in {
			return true, nil
		}
	}
	if actor.ID == owner && s.guard.Can(actor, ownToken) {
		return false, nil
	}

	s.logger.Warn("leave mutation out of scope",
		zap.String("actor_id", actor.ID.String()),
		zap.String("owner_id", owner.String()),
		zap.String("override_token", overrideToken),
		zap.String("own_token", ownToken),
	)
	return false, authzerrors.ErrOutOfScope
}

func applyOwnerUpdate(l *Leave, req UpdateLeaveRequest) error {
	if req.touchesRestrictedFields() {
		return leaveerrors.ErrRestrictedFields
	}
	if l.Status != StatusPending {
		return leaveerrors.ErrOnlyPendingUpdate
	}
	return applyDetails(l, req)
}

// applyOverride applies any field. Approver follows status: decided
// statuses carry one (given, kept, or the actor), the others never do.
func (s *service) applyOverride(ctx context.Context, actor identity.Identity, l *Leave, req UpdateLeaveRequest) error {
	if req.EmployeeID != nil {
		ownerID, err := uuid.Parse(*req.EmployeeID)
		if err != nil {
			return leaveerrors.ErrInvalidEmployeeID
		}
		if ownerID != l.EmployeeID {
			if err := s.scope.Require(ctx, actor, ownerID); err != nil {
				return err
			}
			l.EmployeeID = ownerID
		}
	}

	next := l.Status
	if req.Status != nil {
		st, err := ParseStatus(*req.Status)
		if err != nil {
			return err
		}
		next = st
	}
	if !l.Status.CanBecome(next) {
		return leaveerrors.ErrTerminalStatus
	}

	if err := applyDetails(l, req); err != nil {
		return err
	}
	if req.Comments != nil {
		l.Comments = req.Comments
	}

	if next.Decided() {
		approver := actor.ID
		switch {
		case req.ApprovedBy != nil:
			id, err := s.resolveApprover(ctx, *req.ApprovedBy)
			if err != nil {
				return err
			}
			approver = id
		case next == l.Status && l.ApprovedBy != nil:
			approver = *l.ApprovedBy
		}
		l.ApprovedBy = &approver
	} else {
		l.ApprovedBy = nil
	}
	l.Status = next
	return nil
}

func (s *service) resolveApprover(ctx context.Context, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, leaveerrors.ErrInvalidApprovedBy
	}
	if _, err := s.directory.FindByID(ctx, id.String()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, leaveerrors.ErrInvalidApprovedBy
		}
		return uuid.Nil, err
	}
	return id, nil
}

func applyDetails(l *Leave, req UpdateLeaveRequest) error {
	from, to := l.FromDate, l.ToDate
	var err error
	if req.FromDate != nil {
		if from, err = parseDate(*req.FromDate); err != nil {
			return err
		}
	}
	if req.ToDate != nil {
		if to, err = parseDate(*req.ToDate); err != nil {
			return err
		}
	}
	if from.After(to) {
		return leaveerrors.ErrInvalidDateRange
	}

	if req.LeaveType != nil {
		t, err := ParseType(*req.LeaveType)
		if err != nil {
			return err
		}
		l.LeaveType = t
	}
	if req.Reason != nil {
		l.Reason = strings.TrimSpace(*req.Reason)
	}
	l.FromDate, l.ToDate = from, to
	return nil
}

func lockLeave(ctx context.Context, repo Repository, id uuid.UUID) (*Leave, error) {
	l, err := repo.FindByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, leaveerrors.ErrLeaveNotFound
		}
		return nil, err
	}
	return l, nil
}

func (s *service) findEmployee(ctx context.Context, id uuid.UUID) *employee.Employee {
	empl, err := s.directory.FindByID(ctx, id.String())
	if err != nil {
		s.logger.Warn("employee lookup failed",
			zap.String("employee_id", id.String()),
			zap.Error(err),
		)
		return nil
	}
	return empl
}

// notifyManager tells the owner's manager about a new request. Owners
// without a manager get no mail.
func (s *service) notifyManager(ctx context.Context, l *Leave) bool {
	owner := l.Employee
	if owner == nil {
		return false
	}
	if owner.ManagerID == nil {
		s.logger.Info("leave owner has no manager, skipping notification",
			zap.String("leave_id", l.ID.String()),
			zap.String("employee_id", owner.ID.String()),
		)
		return false
	}
	manager := s.findEmployee(ctx, *owner.ManagerID)
	if manager == nil {
		return false
	}

	return s.notifier.Notify(ctx, notification.Notification{
		Recipient:  manager.Email,
		TemplateID: notification.TemplateLeaveRequested,
		Params: map[string]string{
			notification.ParamRecipientName: manager.Name,
			notification.ParamEmployeeName:  owner.Name,
			notification.ParamLeaveID:       l.ID.String(),
			notification.ParamFromDate:      l.FromDate.Format(dateLayout),
			notification.ParamToDate:        l.ToDate.Format(dateLayout),
			notification.ParamReason:        l.Reason,
		},
	})
}

func (s *service) notifyDecision(ctx context.Context, actor identity.Identity, l *Leave) bool {
	owner := l.Employee
	if owner == nil {
		return false
	}

	decidedBy := actor.ID.String()
	deciderID := actor.ID
	if l.ApprovedBy != nil {
		deciderID = *l.ApprovedBy
	}
	if decider := s.findEmployee(ctx, deciderID); decider != nil {
		decidedBy = decider.Name
	}

	params := map[string]string{
		notification.ParamRecipientName: owner.Name,
		notification.ParamLeaveID:       l.ID.String(),
		notification.ParamFromDate:      l.FromDate.Format(dateLayout),
		notification.ParamToDate:        l.ToDate.Format(dateLayout),
		notification.ParamStatus:        string(l.Status),
		notification.ParamDecidedBy:     decidedBy,
	}
	if l.Comments != nil {
		params[notification.ParamComments] = *l.Comments
	}

	return s.notifier.Notify(ctx, notification.Notification{
		Recipient:  owner.Email,
		TemplateID: notification.TemplateLeaveDecided,
		Params:     params,
	})
}

func (s *service) record(ctx context.Context, actor identity.Identity, action, message string, l *Leave) {
	s.audit.Log(ctx, audit.Entry{
		Action:  action,
		Message: message,
		ActorID: actor.ID.String(),
		Meta: map[string]any{
			"leave_id":    l.ID.String(),
			"employee_id": l.EmployeeID.String(),
			"status":      string(l.Status),
		},
	})
}

func statusAction(st Status) string {
	switch st {
	case StatusApproved:
		return audit.ActionLeaveApproved
	case StatusRejected:
		return audit.ActionLeaveRejected
	case StatusCancelled:
		return audit.ActionLeaveCancelled
	}
	return audit.ActionLeaveUpdated
}

func parseLeaveID(id string) (uuid.UUID, error) {
	leaveID, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return uuid.Nil, leaveerrors.ErrInvalidLeaveID
	}
	return leaveID, nil
}

func parseListQuery(q ListQuery) (ListFilter, error) {
	var filter ListFilter
	if strings.TrimSpace(q.Status) != "" {
		st, err := ParseStatus(q.Status)
		if err != nil {
			return ListFilter{}, err
		}
		filter.Status = st
	}
	if strings.TrimSpace(q.EmployeeID) != "" {
		id, err := uuid.Parse(strings.TrimSpace(q.EmployeeID))
		if err != nil {
			return ListFilter{}, leaveerrors.ErrInvalidEmployeeID
		}
		filter.EmployeeID = &id
	}
	return filter, nil
}

func parseDateRange(fromRaw, toRaw string) (time.Time, time.Time, error) {
	from, err := parseDate(fromRaw)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := parseDate(toRaw)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if from.After(to) {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateRange
	}
	return from, to, nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(v))
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapToResponse(l Leave) LeaveResponse {
	resp := LeaveResponse{
		ID:         l.ID.String(),
		EmployeeID: l.EmployeeID.String(),
		FromDate:   l.FromDate.Format(dateLayout),
		ToDate:     l.ToDate.Format(dateLayout),
		Reason:     l.Reason,
		LeaveType:  string(l.LeaveType),
		Status:     string(l.Status),
		Comments:   l.Comments,
		CreatedAt:  l.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  l.UpdatedAt.Format(time.RFC3339),
	}
	if l.Employee != nil {
		resp.EmployeeName = l.Employee.Name
	}
	if l.ApprovedBy != nil {
		v := l.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	return resp
}

func mapToListResponse(leaves []Leave) []LeaveResponse {
	resp := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		resp[i] = mapToResponse(l)
	}
	return resp
}
