package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Appointment books a patient into a branch at a start time. A slot
// (tenant, patient, branch, start) can be booked once.
type Appointment struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	TenantID  uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:ux_appointments_slot,priority:1" json:"tenantId"`
	PatientID uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:ux_appointments_slot,priority:2" json:"patientId"`
	BranchID  uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:ux_appointments_slot,priority:3;index" json:"branchId"`
	StartAt   time.Time `gorm:"not null;precision:6;uniqueIndex:ux_appointments_slot,priority:4" json:"startAt"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
}

// TableName specifies the table name for Appointment model
func (Appointment) TableName() string {
	return "appointments"
}

func (a *Appointment) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// NormalizeStartAt brings t to the canonical form stored and compared for
// slot uniqueness: UTC with microsecond precision.
func NormalizeStartAt(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

// CreateAppointmentRequest is the body of POST /api/v1/appointments
type CreateAppointmentRequest struct {
	BranchID  uuid.UUID `json:"branchId" validate:"required"`
	PatientID uuid.UUID `json:"patientId" validate:"required"`
	StartAt   time.Time `json:"startAt" validate:"required,future"`
}

func (CreateAppointmentRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"branchId.required":  "Branch ID is required",
		"patientId.required": "Patient ID is required",
		"startAt.required":   "Start time is required",
		"startAt.future":     "Start time must be in the future",
	}
}

// AppointmentResponse is the public representation of an appointment
type AppointmentResponse struct {
	ID        uuid.UUID `json:"id"`
	BranchID  uuid.UUID `json:"branchId"`
	PatientID uuid.UUID `json:"patientId"`
	StartAt   time.Time `json:"startAt"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewAppointmentResponse(a Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:        a.ID,
		BranchID:  a.BranchID,
		PatientID: a.PatientID,
		StartAt:   a.StartAt,
		CreatedAt: a.CreatedAt,
	}
}
