package database

import (
	"context"
	"fmt"

	"clinic-admin-api/internal/logger"
	"clinic-admin-api/internal/models"
	"clinic-admin-api/internal/tenant"

	"gorm.io/gorm"
)

const patientPhoneIndex = "ux_patients_tenant_phone"

// Migrate creates or updates every table and the uniqueness constraints the
// services rely on as a backstop
func Migrate(ctx context.Context, db *gorm.DB) error {
	db = db.WithContext(tenant.WithoutFilter(ctx))

	err := db.AutoMigrate(
		&models.Tenant{},
		&models.Branch{},
		&models.Patient{},
		&models.User{},
		&models.UserBranch{},
		&models.Appointment{},
		&models.AuditLog{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	if err := createPatientPhoneIndex(db); err != nil {
		return fmt.Errorf("create %s: %w", patientPhoneIndex, err)
	}

	logger.FromContext(ctx).Info("Database schema is up to date")
	return nil
}

// createPatientPhoneIndex makes a phone number unique among a tenant's live
// patients. MySQL has no partial indexes, so there the deleted rows are
// mapped to NULL, which a unique index ignores.
func createPatientPhoneIndex(db *gorm.DB) error {
	if db.Migrator().HasIndex(&models.Patient{}, patientPhoneIndex) {
		return nil
	}

	var stmt string
	switch db.Dialector.Name() {
	case "mysql":
		stmt = "CREATE UNIQUE INDEX " + patientPhoneIndex +
			" ON patients (tenant_id, (CASE WHEN is_deleted = 0 THEN phone_number END))"
	default:
		stmt = "CREATE UNIQUE INDEX " + patientPhoneIndex +
			" ON patients (tenant_id, phone_number) WHERE is_deleted = false"
	}
	return db.Exec(stmt).Error
}
