package auth

import (
	"go-leave/internal/rbac"

	"github.com/google/uuid"
)

// Credential is the login view over the employees table.
type Credential struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name         string
	Email        string
	PasswordHash string `gorm:"column:password_hash"`
	Role         rbac.Role
	Position     *string
	ManagerID    *uuid.UUID
}

func (Credential) TableName() string {
	return "employees"
}
