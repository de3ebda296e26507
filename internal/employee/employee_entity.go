package employee

import (
	"time"

	"go-leave/internal/identity"
	"go-leave/internal/rbac"

	"github.com/google/uuid"
)

type Employee struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Name         string     `gorm:"type:varchar(255);not null"`
	Email        string     `gorm:"type:varchar(255);not null;uniqueIndex:uq_employees_email"`
	PasswordHash string     `gorm:"column:password_hash;type:varchar(255);not null"`
	Role         rbac.Role  `gorm:"type:varchar(20);not null;default:employee"`
	Position     *string    `gorm:"type:varchar(120)"`
	ManagerID    *uuid.UUID `gorm:"type:uuid;index:idx_employees_manager"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Employee) TableName() string {
	return "employees"
}

func (e Employee) Identity() identity.Identity {
	return identity.Identity{ID: e.ID, Role: e.Role, ManagerID: e.ManagerID}
}
