package repository

import (
	"context"

	"clinic-admin-api/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepo(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// CreateAuditLog creates a new audit log entry in the active tenant
func (r *AuditRepository) CreateAuditLog(ctx context.Context, userID *uuid.UUID, action string, details string) error {
	log := &models.AuditLog{
		UserID:  userID,
		Action:  action,
		Details: details,
	}
	return translateError(r.db.WithContext(ctx).Create(log).Error)
}

// ListAuditLogs retrieves the tenant's audit trail, newest first
func (r *AuditRepository) ListAuditLogs(ctx context.Context, limit int) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&logs).Error
	return logs, translateError(err)
}
