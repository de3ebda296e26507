package auth

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=auth_repo.go -destination=mock/auth_repo_mock.go -package=mock
type Repository interface {
	GetByEmail(ctx context.Context, email string) (*Credential, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Credential, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*Credential, error) {
	var cred Credential
	err := r.db.WithContext(ctx).Where("LOWER(email) = LOWER(?)", email).First(&cred).Error
	return &cred, err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Credential, error) {
	var cred Credential
	err := r.db.WithContext(ctx).First(&cred, "id = ?", id).Error
	return &cred, err
}
