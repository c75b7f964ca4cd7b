package repository

import (
	"context"

	"clinic-admin-api/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BranchRepository struct {
	db *gorm.DB
}

func NewBranchRepo(db *gorm.DB) *BranchRepository {
	return &BranchRepository{db: db}
}

// List retrieves the tenant's branches ordered by name
func (r *BranchRepository) List(ctx context.Context) ([]models.Branch, error) {
	var branches []models.Branch
	err := r.db.WithContext(ctx).Order("name ASC").Find(&branches).Error
	return branches, translateError(err)
}

// Create creates a new branch
func (r *BranchRepository) Create(ctx context.Context, branch *models.Branch) error {
	return translateError(r.db.WithContext(ctx).Create(branch).Error)
}

// Exists reports whether the branch is visible to the tenant
func (r *BranchRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Branch{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, translateError(err)
}

// ExistingIDs returns the subset of ids that name branches of the tenant
func (r *BranchRepository) ExistingIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []uuid.UUID
	err := r.db.WithContext(ctx).Model(&models.Branch{}).
		Where("id IN ?", ids).
		Pluck("id", &found).Error
	return found, translateError(err)
}

// NamesByIDs maps branch ids to names for the given ids
func (r *BranchRepository) NamesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	var branches []models.Branch
	err := r.db.WithContext(ctx).
		Select("id", "name").
		Where("id IN ?", ids).
		Find(&branches).Error
	if err != nil {
		return nil, translateError(err)
	}
	for _, b := range branches {
		names[b.ID] = b.Name
	}
	return names, nil
}
