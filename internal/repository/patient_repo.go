package repository

import (
	"context"

	"clinic-admin-api/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PatientRepository struct {
	db *gorm.DB
}

func NewPatientRepo(db *gorm.DB) *PatientRepository {
	return &PatientRepository{db: db}
}

// Create inserts a patient. A phone number already held by a live patient of
// the tenant fails with ErrDuplicateKey.
func (r *PatientRepository) Create(ctx context.Context, patient *models.Patient) error {
	return translateError(r.db.WithContext(ctx).Create(patient).Error)
}

// List retrieves live patients, newest first, optionally limited to those
// whose primary branch is branchID
func (r *PatientRepository) List(ctx context.Context, branchID *uuid.UUID) ([]models.Patient, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC").Order("id ASC")
	if branchID != nil {
		query = query.Where("primary_branch_id = ?", *branchID)
	}

	var patients []models.Patient
	err := query.Find(&patients).Error
	return patients, translateError(err)
}

// Exists reports whether a live patient with id is visible to the tenant
func (r *PatientRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Patient{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, translateError(err)
}

// ExistsByPhone reports whether a live patient of the tenant holds phone
func (r *PatientRepository) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Patient{}).
		Where("phone_number = ?", phone).
		Count(&count).Error
	return count > 0, translateError(err)
}

// SoftDelete marks a live patient deleted. It returns ErrNotFound when no
// live patient with id is visible to the tenant.
func (r *PatientRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&models.Patient{}).
		Where("id = ?", id).
		Update("is_deleted", true)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
