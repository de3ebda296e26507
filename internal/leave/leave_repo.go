package leave

import (
	"context"
	"database/sql"
	"time"

	"go-leave/internal/authz"
	"go-leave/internal/shared/dbtx"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListFilter narrows a scoped listing. Zero values mean no filter.
type ListFilter struct {
	Status     Status
	EmployeeID *uuid.UUID
}

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *Leave) error
	FindAll(ctx context.Context, scope authz.Scope, filter ListFilter) ([]Leave, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Leave, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Leave, error)
	Update(ctx context.Context, l *Leave, expected Status) (bool, error)
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to Status, approvedBy *uuid.UUID, comments *string) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteIfStatus(ctx context.Context, id uuid.UUID, status Status) (bool, error)
	HasOverlappingPeriod(ctx context.Context, employeeID uuid.UUID, from, to time.Time, excludeID *uuid.UUID) (bool, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return dbtx.Conn(ctx, r.db, r.tx)
}

func (r *repository) Create(ctx context.Context, l *Leave) error {
	return r.conn(ctx).Omit(clause.Associations).Create(l).Error
}

func (r *repository) FindAll(ctx context.Context, scope authz.Scope, filter ListFilter) ([]Leave, error) {
	db := r.conn(ctx).
		Preload("Employee", withEmployeeName).
		Scopes(ownedWithin(scope))

	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.EmployeeID != nil {
		db = db.Where("employee_id = ?", *filter.EmployeeID)
	}

	var leaves []Leave
	err := db.Order("from_date DESC").Order("created_at DESC").Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Leave, error) {
	var l Leave
	err := r.conn(ctx).
		Preload("Employee", withEmployeeName).
		First(&l, "id = ?", id).Error
	return &l, err
}

// FindByIDForUpdate locks the row until the surrounding transaction ends.
func (r *repository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Leave, error) {
	var l Leave
	err := r.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&l, "id = ?", id).Error
	return &l, err
}

// Update writes every mutable column, but only while the row still has the
// expected status. The bool reports whether a row was written.
func (r *repository) Update(ctx context.Context, l *Leave, expected Status) (bool, error) {
	res := r.conn(ctx).
		Model(&Leave{}).
		Where("id = ? AND status = ?", l.ID, expected).
		Updates(map[string]any{
			"employee_id": l.EmployeeID,
			"from_date":   l.FromDate,
			"to_date":     l.ToDate,
			"reason":      l.Reason,
			"leave_type":  l.LeaveType,
			"status":      l.Status,
			"approved_by": l.ApprovedBy,
			"comments":    l.Comments,
			"updated_at":  l.UpdatedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// TransitionStatus moves a leave from one status to another in a single
// conditional write. approved_by is always overwritten; comments only when
// given.
func (r *repository) TransitionStatus(
	ctx context.Context,
	id uuid.UUID,
	from, to Status,
	approvedBy *uuid.UUID,
	comments *string,
) (bool, error) {
	values := map[string]any{
		"status":      to,
		"approved_by": approvedBy,
		"updated_at":  time.Now().UTC(),
	}
	if comments != nil {
		values["comments"] = *comments
	}

	res := r.conn(ctx).
		Model(&Leave{}).
		Where("id = ? AND status = ?", id, from).
		Updates(values)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.conn(ctx).Delete(&Leave{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) DeleteIfStatus(ctx context.Context, id uuid.UUID, status Status) (bool, error) {
	res := r.conn(ctx).
		Where("id = ? AND status = ?", id, status).
		Delete(&Leave{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// HasOverlappingPeriod checks [from, to] against the employee's pending and
// approved leaves.
func (r *repository) HasOverlappingPeriod(
	ctx context.Context,
	employeeID uuid.UUID,
	from, to time.Time,
	excludeID *uuid.UUID,
) (bool, error) {
	db := r.conn(ctx).
		Model(&Leave{}).
		Where("employee_id = ?", employeeID).
		Where("status IN ?", []Status{StatusPending, StatusApproved}).
		Where("NOT (to_date < ? OR from_date > ?)", from, to)

	if excludeID != nil {
		db = db.Where("id <> ?", *excludeID)
	}

	var count int64
	err := db.Count(&count).Error
	return count > 0, err
}

func withEmployeeName(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "email")
}

func ownedWithin(scope authz.Scope) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch scope.Kind {
		case authz.ScopeAll:
			return db
		case authz.ScopeTeam:
			return db.Where("employee_id IN (SELECT id FROM employees WHERE manager_id = ?)", scope.EmployeeID)
		case authz.ScopeSelf:
			return db.Where("employee_id = ?", scope.EmployeeID)
		}
		return db.Where("1 = 0")
	}
}
