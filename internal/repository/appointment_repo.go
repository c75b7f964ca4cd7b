package repository

import (
	"context"
	"time"

	"clinic-admin-api/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepo(db *gorm.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

// Create inserts an appointment. A booked slot fails with ErrDuplicateKey.
func (r *AppointmentRepository) Create(ctx context.Context, appointment *models.Appointment) error {
	return translateError(r.db.WithContext(ctx).Create(appointment).Error)
}

// ExistsSlot reports whether the patient already has an appointment at the
// branch starting at startAt. startAt must already be normalized.
func (r *AppointmentRepository) ExistsSlot(ctx context.Context, patientID, branchID uuid.UUID, startAt time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Appointment{}).
		Where("patient_id = ? AND branch_id = ? AND start_at = ?", patientID, branchID, startAt).
		Count(&count).Error
	return count > 0, translateError(err)
}
