package service

import (
	"context"
	"fmt"

	"clinic-admin-api/internal/apperror"
	"clinic-admin-api/internal/cache"
	"clinic-admin-api/internal/events"
	"clinic-admin-api/internal/models"
	"clinic-admin-api/internal/validation"
)

type AppointmentService struct {
	appointments AppointmentStore
	patients     PatientStore
	branches     BranchStore
	guard        *Guard
	cache        cache.Cache
	notifier     Notifier
	validator    *validation.Validator
}

func NewAppointmentService(
	appointments AppointmentStore,
	patients PatientStore,
	branches BranchStore,
	guard *Guard,
	c cache.Cache,
	notifier Notifier,
	validator *validation.Validator,
) *AppointmentService {
	return &AppointmentService{
		appointments: appointments,
		patients:     patients,
		branches:     branches,
		guard:        guard,
		cache:        c,
		notifier:     notifier,
		validator:    validator,
	}
}

// Create books a patient into a branch. The same patient, branch and start
// time can be booked once per tenant.
func (s *AppointmentService) Create(ctx context.Context, req models.CreateAppointmentRequest) (*models.AppointmentResponse, error) {
	tenantID, err := activeTenant(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Struct(&req); err != nil {
		return nil, err
	}
	startAt := models.NormalizeStartAt(req.StartAt)

	missing := map[string][]string{}
	branchExists, err := s.branches.Exists(ctx, req.BranchID)
	if err != nil {
		return nil, fmt.Errorf("check branch: %w", err)
	}
	if !branchExists {
		missing["branchId"] = []string{"Branch does not exist"}
	}
	patientExists, err := s.patients.Exists(ctx, req.PatientID)
	if err != nil {
		return nil, fmt.Errorf("check patient: %w", err)
	}
	if !patientExists {
		missing["patientId"] = []string{"Patient does not exist"}
	}
	if len(missing) > 0 {
		return nil, apperror.Validation(missing)
	}

	if err := s.guard.EnsureSlotAvailable(ctx, req.PatientID, req.BranchID, startAt); err != nil {
		return nil, err
	}

	appointment := models.Appointment{
		BranchID:  req.BranchID,
		PatientID: req.PatientID,
		StartAt:   startAt,
	}
	if err := s.appointments.Create(ctx, &appointment); err != nil {
		return nil, asConflict(err, apperror.ErrDuplicateBooking, "create appointment")
	}

	s.cache.InvalidatePrefix(detached(ctx), cache.PatientPrefix(tenantID))
	s.notifier.Notify(events.NewAppointmentCreated(appointment))

	resp := models.NewAppointmentResponse(appointment)
	return &resp, nil
}
