package attendance

import (
	"time"

	"go-leave/internal/employee"

	"github.com/google/uuid"
)

type Attendance struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_attendances_employee_date"`
	Date       time.Time `gorm:"type:date;not null;uniqueIndex:uq_attendances_employee_date"`
	Status     string    `gorm:"type:varchar(40);not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Employee *employee.Employee `gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE"`
}

func (Attendance) TableName() string {
	return "attendances"
}

type CompanyCalendar struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Date        time.Time `gorm:"type:date;not null;uniqueIndex:uq_company_calendar_date"`
	IsHoliday   bool      `gorm:"not null;default:false"`
	HolidayName *string   `gorm:"type:varchar(120)"`
}

func (CompanyCalendar) TableName() string {
	return "company_calendar"
}
