package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Audit actions
const (
	AuditUserCreate      = "user_create"
	AuditUserRoleAssign  = "user_role_assign"
	AuditUserBranchesSet = "user_branches_set"
	AuditPatientDelete   = "patient_delete"
)

// AuditLog records administrative actions within a tenant
type AuditLog struct {
	ID        uuid.UUID  `gorm:"type:char(36);primaryKey" json:"id"`
	TenantID  uuid.UUID  `gorm:"type:char(36);not null;index" json:"tenantId"`
	UserID    *uuid.UUID `gorm:"type:char(36);index" json:"userId"`
	Action    string     `gorm:"size:100;not null" json:"action"`
	Details   string     `gorm:"type:text" json:"details"`
	CreatedAt time.Time  `gorm:"not null" json:"createdAt"`
}

// TableName specifies the table name for AuditLog model
func (AuditLog) TableName() string {
	return "audit_logs"
}

func (a *AuditLog) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
