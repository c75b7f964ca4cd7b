package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clinic-admin-api/internal/apperror"
	"clinic-admin-api/internal/metrics"
	"clinic-admin-api/internal/repository"

	"github.com/google/uuid"
)

// Guard rejects duplicates before they are written. The unique indexes
// remain the final word: a write that races past the guard fails on the
// constraint and is reported through asConflict with the same error.
type Guard struct {
	patients     PatientStore
	appointments AppointmentStore
}

func NewGuard(patients PatientStore, appointments AppointmentStore) *Guard {
	return &Guard{patients: patients, appointments: appointments}
}

// EnsurePhoneAvailable fails with ErrDuplicatePhone when a live patient of
// the tenant already holds phone.
func (g *Guard) EnsurePhoneAvailable(ctx context.Context, phone string) error {
	taken, err := g.patients.ExistsByPhone(ctx, phone)
	if err != nil {
		return fmt.Errorf("check phone: %w", err)
	}
	if taken {
		metrics.RecordConflict(apperror.CodeDuplicatePhone, "precheck")
		return apperror.ErrDuplicatePhone
	}
	return nil
}

// EnsureSlotAvailable fails with ErrDuplicateBooking when the patient is
// already booked at the branch for startAt.
func (g *Guard) EnsureSlotAvailable(ctx context.Context, patientID, branchID uuid.UUID, startAt time.Time) error {
	taken, err := g.appointments.ExistsSlot(ctx, patientID, branchID, startAt)
	if err != nil {
		return fmt.Errorf("check slot: %w", err)
	}
	if taken {
		metrics.RecordConflict(apperror.CodeDuplicateBooking, "precheck")
		return apperror.ErrDuplicateBooking
	}
	return nil
}

// asConflict maps a unique-constraint failure from a write to conflict.
// Other errors are wrapped with op.
func asConflict(err error, conflict *apperror.Error, op string) error {
	if errors.Is(err, repository.ErrDuplicateKey) {
		metrics.RecordConflict(conflict.Code, "constraint")
		return conflict.Wrap(err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
