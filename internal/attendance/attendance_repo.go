package attendance

import (
	"context"
	"database/sql"
	"time"

	"go-leave/internal/shared/dbtx"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindByEmployeeBetween(ctx context.Context, employeeID uuid.UUID, from, to time.Time) ([]Attendance, error)
	FindHolidaysBetween(ctx context.Context, from, to time.Time) ([]CompanyCalendar, error)
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

// FindByEmployeeBetween returns the employee's records with from <= date <= to.
func (r *repository) FindByEmployeeBetween(ctx context.Context, employeeID uuid.UUID, from, to time.Time) ([]Attendance, error) {
	var rows []Attendance
	err := r.conn(ctx).
		Where("employee_id = ? AND date BETWEEN ? AND ?", employeeID, from, to).
		Order("date ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindHolidaysBetween(ctx context.Context, from, to time.Time) ([]CompanyCalendar, error) {
	var rows []CompanyCalendar
	err := r.conn(ctx).
		Where("is_holiday = ? AND date BETWEEN ? AND ?", true, from, to).
		Order("date ASC").
		Find(&rows).Error
	return rows, err
}
