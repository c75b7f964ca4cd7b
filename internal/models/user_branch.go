package models

import "github.com/google/uuid"

// UserBranch links a user to a branch they work at. The link carries the
// tenant as well so join rows are scoped like every other tenant-owned row.
type UserBranch struct {
	UserID   uuid.UUID `gorm:"type:char(36);primaryKey" json:"userId"`
	BranchID uuid.UUID `gorm:"type:char(36);primaryKey;index" json:"branchId"`
	TenantID uuid.UUID `gorm:"type:char(36);not null;index" json:"tenantId"`
}

// TableName specifies the table name for UserBranch model
func (UserBranch) TableName() string {
	return "user_branches"
}
