package leave

import (
	"time"

	"go-leave/internal/employee"

	"github.com/google/uuid"
)

type Leave struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_leaves_employee_dates"`

	FromDate  time.Time `gorm:"type:date;not null;index:idx_leaves_employee_dates"`
	ToDate    time.Time `gorm:"type:date;not null;index:idx_leaves_employee_dates"`
	Reason    string    `gorm:"type:text"`
	LeaveType Type      `gorm:"type:varchar(20);not null;default:casual"`

	Status     Status     `gorm:"type:varchar(20);not null;default:pending;index:idx_leaves_status"`
	ApprovedBy *uuid.UUID `gorm:"type:uuid"`
	Comments   *string    `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Employee *employee.Employee `gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE"`
}

func (Leave) TableName() string {
	return "employee_leaves"
}
