package repository

import (
	"context"

	"clinic-admin-api/internal/models"
	"clinic-admin-api/internal/tenant"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindUserByTokenHash resolves a bearer token digest across all tenants. It
// is the one lookup that runs before a tenant is known.
func (r *UserRepository) FindUserByTokenHash(ctx context.Context, tokenHash string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(tenant.WithoutFilter(ctx)).
		Where("api_token_hash = ?", tokenHash).
		First(&user).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// CreateUser inserts a user together with its branch links in one
// transaction. A taken email or token fails with ErrDuplicateKey.
func (r *UserRepository) CreateUser(ctx context.Context, user *models.User, branchIDs []uuid.UUID) error {
	return translateError(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		return createLinks(tx, user.ID, branchIDs)
	}))
}

// GetUserByID retrieves a user of the tenant
func (r *UserRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// ListUsers retrieves the tenant's users ordered by email
func (r *UserRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).Order("email ASC").Find(&users).Error
	return users, translateError(err)
}

// ExistsByEmail reports whether a user of the tenant has email
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", email).
		Count(&count).Error
	return count > 0, translateError(err)
}

// UpdateRole sets the user's role
func (r *UserRepository) UpdateRole(ctx context.Context, id uuid.UUID, role models.Role) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("role", role)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
