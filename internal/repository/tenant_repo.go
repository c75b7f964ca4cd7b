package repository

import (
	"context"

	"clinic-admin-api/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TenantRepository struct {
	db *gorm.DB
}

func NewTenantRepo(db *gorm.DB) *TenantRepository {
	return &TenantRepository{db: db}
}

// Create creates a new tenant
func (r *TenantRepository) Create(ctx context.Context, t *models.Tenant) error {
	return translateError(r.db.WithContext(ctx).Create(t).Error)
}

// Exists reports whether a tenant with id exists
func (r *TenantRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Tenant{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, translateError(err)
}
