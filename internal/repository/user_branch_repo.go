package repository

import (
	"context"

	"clinic-admin-api/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserBranchRepository struct {
	db *gorm.DB
}

func NewUserBranchRepo(db *gorm.DB) *UserBranchRepository {
	return &UserBranchRepository{db: db}
}

// ReplaceUserBranches swaps the user's branch set for branchIDs in one
// transaction
func (r *UserBranchRepository) ReplaceUserBranches(ctx context.Context, userID uuid.UUID, branchIDs []uuid.UUID) error {
	return translateError(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.UserBranch{}).Error; err != nil {
			return err
		}
		return createLinks(tx, userID, branchIDs)
	}))
}

// GetUserBranches retrieves the branch ids a user is linked to
func (r *UserBranchRepository) GetUserBranches(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	branchIDs := []uuid.UUID{}
	err := r.db.WithContext(ctx).Model(&models.UserBranch{}).
		Where("user_id = ?", userID).
		Order("branch_id ASC").
		Pluck("branch_id", &branchIDs).Error
	return branchIDs, translateError(err)
}

// GetBranchesByUsers groups branch ids by user for the given users
func (r *UserBranchRepository) GetBranchesByUsers(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	byUser := make(map[uuid.UUID][]uuid.UUID, len(userIDs))
	if len(userIDs) == 0 {
		return byUser, nil
	}

	var links []models.UserBranch
	err := r.db.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Order("branch_id ASC").
		Find(&links).Error
	if err != nil {
		return nil, translateError(err)
	}
	for _, l := range links {
		byUser[l.UserID] = append(byUser[l.UserID], l.BranchID)
	}
	return byUser, nil
}

func createLinks(tx *gorm.DB, userID uuid.UUID, branchIDs []uuid.UUID) error {
	if len(branchIDs) == 0 {
		return nil
	}
	links := make([]models.UserBranch, 0, len(branchIDs))
	seen := make(map[uuid.UUID]struct{}, len(branchIDs))
	for _, id := range branchIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		links = append(links, models.UserBranch{UserID: userID, BranchID: id})
	}
	return tx.Create(&links).Error
}
