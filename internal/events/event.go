// Package events hands domain events to a message broker without ever
// blocking or failing the write that produced them.
package events

import (
	"context"
	"time"

	"clinic-admin-api/internal/models"

	"github.com/google/uuid"
)

// Event names
const (
	AppointmentCreatedName = "AppointmentCreated"
)

// Event is a domain event serialized as the message body.
type Event interface {
	EventName() string
}

// Publisher delivers one event to the broker.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// AppointmentCreated is emitted after an appointment is committed.
type AppointmentCreated struct {
	Name      string    `json:"eventName"`
	ID        uuid.UUID `json:"id"`
	TenantID  uuid.UUID `json:"tenantId"`
	BranchID  uuid.UUID `json:"branchId"`
	PatientID uuid.UUID `json:"patientId"`
	StartAt   time.Time `json:"startAt"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewAppointmentCreated(a models.Appointment) AppointmentCreated {
	return AppointmentCreated{
		Name:      AppointmentCreatedName,
		ID:        a.ID,
		TenantID:  a.TenantID,
		BranchID:  a.BranchID,
		PatientID: a.PatientID,
		StartAt:   a.StartAt,
		CreatedAt: a.CreatedAt,
	}
}

func (AppointmentCreated) EventName() string { return AppointmentCreatedName }
