package employee

import (
	"context"
	"database/sql"
	"errors"

	"go-leave/internal/authz"
	"go-leave/internal/identity"
	"go-leave/internal/shared/dbtx"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, empl *Employee) error
	FindAll(ctx context.Context, scope authz.Scope) ([]Employee, error)
	FindOptions(ctx context.Context) ([]Employee, error)
	FindByID(ctx context.Context, id string) (*Employee, error)
	FindByEmail(ctx context.Context, email string) (*Employee, error)
	Update(ctx context.Context, empl *Employee) error
	Delete(ctx context.Context, id string) error
	CountDirectReports(ctx context.Context, id string) (int64, error)
	Lookup(ctx context.Context, id uuid.UUID) (identity.Identity, error)
	LockHierarchy(ctx context.Context) error
}

// hierarchyLockKey is the advisory lock taken by every manager-link change.
const hierarchyLockKey int64 = 7_310_001

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return dbtx.Conn(ctx, r.db, r.tx)
}

func (r *repository) Create(ctx context.Context, empl *Employee) error {
	return r.conn(ctx).Create(empl).Error
}

func (r *repository) FindAll(ctx context.Context, scope authz.Scope) ([]Employee, error) {
	var employees []Employee
	err := r.conn(ctx).
		Scopes(visibleTo(scope)).
		Order("name ASC").
		Find(&employees).Error
	return employees, err
}

func (r *repository) FindOptions(ctx context.Context) ([]Employee, error) {
	var employees []Employee
	err := r.conn(ctx).
		Select("id", "name", "role").
		Order("name ASC").
		Find(&employees).Error
	return employees, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Employee, error) {
	var empl Employee
	err := r.conn(ctx).First(&empl, "id = ?", id).Error
	return &empl, err
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*Employee, error) {
	var empl Employee
	err := r.conn(ctx).First(&empl, "LOWER(email) = LOWER(?)", email).Error
	return &empl, err
}

func (r *repository) Update(ctx context.Context, empl *Employee) error {
	return r.conn(ctx).Save(empl).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res := r.conn(ctx).Delete(&Employee{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) CountDirectReports(ctx context.Context, id string) (int64, error) {
	var count int64
	err := r.conn(ctx).
		Model(&Employee{}).
		Where("manager_id = ?", id).
		Count(&count).Error
	return count, err
}

// LockHierarchy serializes manager-link changes until the surrounding
// transaction ends. Outside a transaction it is released immediately.
func (r *repository) LockHierarchy(ctx context.Context) error {
	return r.conn(ctx).Exec("SELECT pg_advisory_xact_lock(?)", hierarchyLockKey).Error
}

// Lookup implements identity.Lookup over the employees table.
func (r *repository) Lookup(ctx context.Context, id uuid.UUID) (identity.Identity, error) {
	var empl Employee
	err := r.conn(ctx).
		Select("id", "role", "manager_id").
		First(&empl, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return identity.Identity{}, identity.ErrNotFound
		}
		return identity.Identity{}, err
	}
	return empl.Identity(), nil
}

func visibleTo(scope authz.Scope) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch scope.Kind {
		case authz.ScopeAll:
			return db
		case authz.ScopeTeam:
			return db.Where("manager_id = ?", scope.EmployeeID)
		case authz.ScopeSelf:
			return db.Where("id = ?", scope.EmployeeID)
		}
		return db.Where("1 = 0")
	}
}
