package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Patient is a person registered with a tenant. Patients are soft-deleted;
// a deleted patient no longer holds its phone number.
type Patient struct {
	ID              uuid.UUID  `gorm:"type:char(36);primaryKey" json:"id"`
	TenantID        uuid.UUID  `gorm:"type:char(36);not null;index:ix_patients_tenant_created,priority:1" json:"tenantId"`
	FirstName       string     `gorm:"size:100;not null" json:"firstName"`
	LastName        string     `gorm:"size:100;not null" json:"lastName"`
	PhoneNumber     string     `gorm:"size:20;not null" json:"phoneNumber"`
	PrimaryBranchID *uuid.UUID `gorm:"type:char(36);index" json:"primaryBranchId"`
	CreatedAt       time.Time  `gorm:"not null;index:ix_patients_tenant_created,priority:2" json:"createdAt"`
	UpdatedAt       time.Time  `gorm:"not null" json:"updatedAt"`
	IsDeleted       bool       `gorm:"not null;default:false" json:"-"`
}

// TableName specifies the table name for Patient model
func (Patient) TableName() string {
	return "patients"
}

func (p *Patient) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// CreatePatientRequest is the body of POST /api/v1/patients. It has no tenant
// field: a tenantId sent by the client is dropped during decoding.
type CreatePatientRequest struct {
	FirstName       string     `json:"firstName" validate:"required,max=100"`
	LastName        string     `json:"lastName" validate:"required,max=100"`
	PhoneNumber     string     `json:"phoneNumber" validate:"required,max=20"`
	PrimaryBranchID *uuid.UUID `json:"primaryBranchId"`
}

func (r *CreatePatientRequest) Normalize() {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.PhoneNumber = strings.TrimSpace(r.PhoneNumber)
	if r.PrimaryBranchID != nil && *r.PrimaryBranchID == uuid.Nil {
		r.PrimaryBranchID = nil
	}
}

func (CreatePatientRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"firstName.required":   "First name is required",
		"firstName.max":        "First name must not exceed 100 characters",
		"lastName.required":    "Last name is required",
		"lastName.max":         "Last name must not exceed 100 characters",
		"phoneNumber.required": "Phone number is required",
		"phoneNumber.max":      "Phone number must not exceed 20 characters",
	}
}

// PatientResponse is the public representation of a patient
type PatientResponse struct {
	ID                uuid.UUID  `json:"id"`
	TenantID          uuid.UUID  `json:"tenantId"`
	FirstName         string     `json:"firstName"`
	LastName          string     `json:"lastName"`
	PhoneNumber       string     `json:"phoneNumber"`
	PrimaryBranchID   *uuid.UUID `json:"primaryBranchId"`
	PrimaryBranchName *string    `json:"primaryBranchName"`
	CreatedAt         time.Time  `json:"createdAt"`
}

// NewPatientResponse builds the response for p. branchName may be nil when the
// branch lookup was skipped or failed.
func NewPatientResponse(p Patient, branchName *string) PatientResponse {
	return PatientResponse{
		ID:                p.ID,
		TenantID:          p.TenantID,
		FirstName:         p.FirstName,
		LastName:          p.LastName,
		PhoneNumber:       p.PhoneNumber,
		PrimaryBranchID:   p.PrimaryBranchID,
		PrimaryBranchName: branchName,
		CreatedAt:         p.CreatedAt,
	}
}
