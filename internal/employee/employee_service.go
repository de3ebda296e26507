package employee

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go-leave/internal/authz"
	employeeerrors "go-leave/internal/employee/errors"
	"go-leave/internal/identity"
	"go-leave/internal/rbac"
	"go-leave/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/singleflight"
)

const EmployeeOptionsKey = "employees:options"

const optionsCacheTTL = time.Hour

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actor identity.Identity, req CreateEmployeeRequest) (EmployeeResponse, error)
	BulkCreate(ctx context.Context, actor identity.Identity, req BulkCreateEmployeesRequest) ([]EmployeeResponse, error)
	GetAll(ctx context.Context, actor identity.Identity) ([]EmployeeResponse, error)
	GetOptions(ctx context.Context, actor identity.Identity) ([]EmployeeOptionResponse, error)
	GetByID(ctx context.Context, actor identity.Identity, id string) (EmployeeResponse, error)
	Update(ctx context.Context, actor identity.Identity, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, actor identity.Identity, id string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	guard  *authz.Guard
	scope  *authz.ScopeResolver
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	guard *authz.Guard,
	scope *authz.ScopeResolver,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		guard:  guard,
		scope:  scope,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (s *service) Create(
	ctx context.Context,
	actor identity.Identity,
	req CreateEmployeeRequest,
) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create employee requested",
		zap.String("request_id", rid),
		zap.String("actor_id", actor.ID.String()),
		zap.String("email", req.Email),
	)

	if err := s.guard.Authorize(actor, rbac.PermCreateEmployee); err != nil {
		return EmployeeResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create employee begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	empl, err := s.buildEmployee(ctx, qtx, req)
	if err != nil {
		s.logger.Warn("create employee invalid input", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}

	if err := qtx.Create(ctx, empl); err != nil {
		s.logger.Error("create employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("commit failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.invalidateOptions(ctx)

	s.logger.Info("create employee success",
		zap.String("request_id", rid),
		zap.String("employee_id", empl.ID.String()),
	)
	return mapToResponse(empl), nil
}

func (s *service) BulkCreate(
	ctx context.Context,
	actor identity.Identity,
	req BulkCreateEmployeesRequest,
) ([]EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("bulk create employees requested",
		zap.String("request_id", rid),
		zap.Int("count", len(req.Employees)),
	)

	if err := s.guard.Authorize(actor, rbac.PermUploadEmployees); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(req.Employees))
	for _, item := range req.Employees {
		key := normalizeEmail(item.Email)
		if _, dup := seen[key]; dup {
			return nil, employeeerrors.ErrEmployeeAlreadyExists
		}
		seen[key] = struct{}{}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("bulk create employees begin tx failed", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	created := make([]EmployeeResponse, 0, len(req.Employees))
	for i, item := range req.Employees {
		empl, err := s.buildEmployee(ctx, qtx, item)
		if err != nil {
			s.logger.Warn("bulk create employees invalid row", zap.Int("row", i), zap.Error(err))
			return nil, err
		}
		if err := qtx.Create(ctx, empl); err != nil {
			s.logger.Error("bulk create employees persist failed", zap.Int("row", i), zap.Error(err))
			return nil, mapRepositoryError(err)
		}
		created = append(created, mapToResponse(empl))
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("commit failed", zap.String("request_id", rid), zap.Error(err))
		return nil, err
	}

	s.invalidateOptions(ctx)

	s.logger.Info("bulk create employees success",
		zap.String("request_id", rid),
		zap.Int("count", len(created)),
	)
	return created, nil
}

func (s *service) GetAll(ctx context.Context, actor identity.Identity) ([]EmployeeResponse, error) {
	s.logger.Debug("get all employees requested", zap.String("actor_id", actor.ID.String()))

	if err := s.guard.Authorize(actor, rbac.PermViewAllEmployee); err != nil {
		return nil, err
	}

	emps, err := s.repo.FindAll(ctx, authz.ScopeFor(actor))
	if err != nil {
		s.logger.Error("get all employees failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	return mapToListResponse(emps), nil
}

func (s *service) GetOptions(ctx context.Context, actor identity.Identity) ([]EmployeeOptionResponse, error) {
	if err := s.guard.Authorize(actor, rbac.PermViewAllEmployee); err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, EmployeeOptionsKey).Result(); err == nil {
			var resp []EmployeeOptionResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(EmployeeOptionsKey, func() (interface{}, error) {
		emps, err := s.repo.FindOptions(ctx)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := make([]EmployeeOptionResponse, 0, len(emps))
		for _, e := range emps {
			resp = append(resp, EmployeeOptionResponse{
				ID:   e.ID.String(),
				Name: e.Name,
				Role: e.Role.String(),
			})
		}

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, EmployeeOptionsKey, jsonData, optionsCacheTTL)
			}
		}

		return resp, nil
	})
	if err != nil {
		s.logger.Error("get employee options failed", zap.Error(err))
		return nil, err
	}

	return v.([]EmployeeOptionResponse), nil
}

// GetByID lets anyone read their own record; other records need
// view_all_employee and must be in the actor's scope.
func (s *service) GetByID(
	ctx context.Context,
	actor identity.Identity,
	id string,
) (EmployeeResponse, error) {
	s.logger.Debug("get employee by id requested",
		zap.String("actor_id", actor.ID.String()),
		zap.String("employee_id", id),
	)

	targetID, err := uuid.Parse(id)
	if err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	if targetID != actor.ID {
		if err := s.guard.Authorize(actor, rbac.PermViewAllEmployee); err != nil {
			return EmployeeResponse{}, err
		}
		if err := s.scope.Require(ctx, actor, targetID); err != nil {
			return EmployeeResponse{}, err
		}
	}

	empl, err := s.repo.FindByID(ctx, targetID.String())
	if err != nil {
		s.logger.Error("get employee by id failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(empl), nil
}

func (s *service) Update(
	ctx context.Context,
	actor identity.Identity,
	id string,
	req UpdateEmployeeRequest,
) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("update employee requested",
		zap.String("request_id", rid),
		zap.String("employee_id", id),
	)

	if err := s.guard.Authorize(actor, rbac.PermUpdateEmployee); err != nil {
		return EmployeeResponse{}, err
	}

	targetID, err := uuid.Parse(id)
	if err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}
	if err := s.scope.Require(ctx, actor, targetID); err != nil {
		return EmployeeResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update employee begin tx failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	empl, err := qtx.FindByID(ctx, targetID.String())
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if req.Name != nil {
		empl.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		empl.Email = normalizeEmail(*req.Email)
	}
	if req.Password != nil {
		hash, err := hashPassword(*req.Password)
		if err != nil {
			return EmployeeResponse{}, err
		}
		empl.PasswordHash = hash
	}
	if req.Role != nil {
		role, ok := rbac.ParseRole(*req.Role)
		if !ok {
			return EmployeeResponse{}, employeeerrors.ErrInvalidRole
		}
		empl.Role = role
	}
	if req.Position != nil {
		empl.Position = req.Position
	}
	if req.ManagerID != nil {
		managerID, err := s.resolveManager(ctx, qtx, empl.ID, *req.ManagerID)
		if err != nil {
			s.logger.Warn("update employee invalid manager", zap.String("request_id", rid), zap.Error(err))
			return EmployeeResponse{}, err
		}
		empl.ManagerID = managerID
	}

	if err := qtx.Update(ctx, empl); err != nil {
		s.logger.Error("update employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("commit failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.invalidateOptions(ctx)

	s.logger.Info("update employee success",
		zap.String("request_id", rid),
		zap.String("employee_id", empl.ID.String()),
	)
	return mapToResponse(empl), nil
}

func (s *service) Delete(ctx context.Context, actor identity.Identity, id string) error {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("delete employee requested",
		zap.String("request_id", rid),
		zap.String("employee_id", id),
	)

	if err := s.guard.Authorize(actor, rbac.PermDeleteEmployee); err != nil {
		return err
	}

	targetID, err := uuid.Parse(id)
	if err != nil {
		return employeeerrors.ErrInvalidEmployeeID
	}
	if targetID == actor.ID {
		return employeeerrors.ErrSelfDelete
	}
	if err := s.scope.Require(ctx, actor, targetID); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("delete employee begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.LockHierarchy(ctx); err != nil {
		return err
	}
	reports, err := qtx.CountDirectReports(ctx, targetID.String())
	if err != nil {
		s.logger.Error("delete employee count reports failed", zap.Error(err))
		return err
	}
	if reports > 0 {
		s.logger.Warn("delete employee refused, has direct reports",
			zap.String("employee_id", id),
			zap.Int64("reports", reports),
		)
		return employeeerrors.ErrHasDirectReports
	}

	if err := qtx.Delete(ctx, targetID.String()); err != nil {
		s.logger.Error("delete employee failed", zap.Error(err))
		return mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("commit failed", zap.String("request_id", rid), zap.Error(err))
		return err
	}

	s.invalidateOptions(ctx)

	s.logger.Info("delete employee success",
		zap.String("request_id", rid),
		zap.String("employee_id", id),
	)
	return nil
}

func (s *service) buildEmployee(ctx context.Context, qtx Repository, req CreateEmployeeRequest) (*Employee, error) {
	role := rbac.RoleEmployee
	if req.Role != "" {
		parsed, ok := rbac.ParseRole(req.Role)
		if !ok {
			return nil, employeeerrors.ErrInvalidRole
		}
		role = parsed
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	empl := &Employee{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(req.Name),
		Email:        normalizeEmail(req.Email),
		PasswordHash: hash,
		Role:         role,
		Position:     req.Position,
	}

	if req.ManagerID != nil {
		managerID, err := s.resolveManager(ctx, qtx, empl.ID, *req.ManagerID)
		if err != nil {
			return nil, err
		}
		empl.ManagerID = managerID
	}

	return empl, nil
}

// resolveManager validates a manager link for employeeID. An empty value
// clears the link.
func (s *service) resolveManager(ctx context.Context, qtx Repository, employeeID uuid.UUID, raw string) (*uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	managerID, err := uuid.Parse(raw)
	if err != nil {
		return nil, employeeerrors.ErrInvalidManagerID
	}
	if managerID == employeeID {
		return nil, employeeerrors.ErrSelfManager
	}

	// Held until commit, so the chain read below cannot change underneath us.
	if err := qtx.LockHierarchy(ctx); err != nil {
		return nil, err
	}

	if _, err := qtx.FindByID(ctx, managerID.String()); err != nil {
		if errors.Is(mapRepositoryError(err), employeeerrors.ErrEmployeeNotFound) {
			return nil, employeeerrors.ErrManagerNotFound
		}
		return nil, err
	}

	err = ensureAcyclic(employeeID, managerID, func(id uuid.UUID) (*uuid.UUID, error) {
		empl, err := qtx.FindByID(ctx, id.String())
		if err != nil {
			if errors.Is(mapRepositoryError(err), employeeerrors.ErrEmployeeNotFound) {
				return nil, nil
			}
			return nil, err
		}
		return empl.ManagerID, nil
	})
	if err != nil {
		return nil, err
	}

	return &managerID, nil
}

func (s *service) invalidateOptions(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, EmployeeOptionsKey).Err(); err != nil {
		s.logger.Error("failed to invalidate employee options cache",
			zap.Error(err),
			zap.String("key", EmployeeOptionsKey),
		)
	}
}

// normalizeEmail is applied on every write so the unique index behaves
// case-insensitively.
func normalizeEmail(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

func hashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", employeeerrors.ErrPasswordHashFailed
	}
	return string(hash), nil
}

func mapToResponse(e *Employee) EmployeeResponse {
	var managerID *string
	if e.ManagerID != nil {
		v := e.ManagerID.String()
		managerID = &v
	}
	return EmployeeResponse{
		ID:        e.ID.String(),
		Name:      e.Name,
		Email:     e.Email,
		Role:      e.Role.String(),
		Position:  e.Position,
		ManagerID: managerID,
		CreatedAt: e.CreatedAt.Format(time.RFC3339),
		UpdatedAt: e.UpdatedAt.Format(time.RFC3339),
	}
}

func mapToListResponse(emps []Employee) []EmployeeResponse {
	resp := make([]EmployeeResponse, 0, len(emps))
	for i := range emps {
		resp = append(resp, mapToResponse(&emps[i]))
	}
	return resp
}
