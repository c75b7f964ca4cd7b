package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clinic-admin-api/internal/apperror"
	"clinic-admin-api/internal/cache"
	"clinic-admin-api/internal/logger"
	"clinic-admin-api/internal/models"
	"clinic-admin-api/internal/repository"
	"clinic-admin-api/internal/validation"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PatientService struct {
	patients  PatientStore
	branches  BranchStore
	audit     AuditStore
	guard     *Guard
	cache     cache.Cache
	cacheTTL  time.Duration
	validator *validation.Validator
}

func NewPatientService(
	patients PatientStore,
	branches BranchStore,
	audit AuditStore,
	guard *Guard,
	c cache.Cache,
	cacheTTL time.Duration,
	validator *validation.Validator,
) *PatientService {
	return &PatientService{
		patients:  patients,
		branches:  branches,
		audit:     audit,
		guard:     guard,
		cache:     c,
		cacheTTL:  cacheTTL,
		validator: validator,
	}
}

// Create registers a patient in the active tenant. The phone number must not
// be held by another live patient of the tenant.
func (s *PatientService) Create(ctx context.Context, req models.CreatePatientRequest) (*models.PatientResponse, error) {
	tenantID, err := activeTenant(ctx)
	if err != nil {
		return nil, err
	}

	req.Normalize()
	if err := s.validator.Struct(&req); err != nil {
		return nil, err
	}

	if req.PrimaryBranchID != nil {
		exists, err := s.branches.Exists(ctx, *req.PrimaryBranchID)
		if err != nil {
			return nil, fmt.Errorf("check primary branch: %w", err)
		}
		if !exists {
			return nil, apperror.FieldError("primaryBranchId", "Primary branch does not exist")
		}
	}

	if err := s.guard.EnsurePhoneAvailable(ctx, req.PhoneNumber); err != nil {
		return nil, err
	}

	patient := models.Patient{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		PhoneNumber:     req.PhoneNumber,
		PrimaryBranchID: req.PrimaryBranchID,
	}
	if err := s.patients.Create(ctx, &patient); err != nil {
		return nil, asConflict(err, apperror.ErrDuplicatePhone, "create patient")
	}

	s.cache.InvalidatePrefix(detached(ctx), cache.PatientPrefix(tenantID))

	var branchName *string
	if patient.PrimaryBranchID != nil {
		names := s.branchNames(ctx, []uuid.UUID{*patient.PrimaryBranchID})
		if name, ok := names[*patient.PrimaryBranchID]; ok {
			branchName = &name
		}
	}

	resp := models.NewPatientResponse(patient, branchName)
	return &resp, nil
}

// List returns the tenant's live patients, newest first, optionally only
// those whose primary branch is branchID. Results are cached per filter.
func (s *PatientService) List(ctx context.Context, branchID *uuid.UUID) ([]models.PatientResponse, error) {
	tenantID, err := activeTenant(ctx)
	if err != nil {
		return nil, err
	}

	prefix := cache.PatientPrefix(tenantID)
	key := cache.PatientListKey(tenantID, branchID)
	var cached []models.PatientResponse
	if cache.GetJSON(ctx, s.cache, key, &cached) {
		return cached, nil
	}

	// Writes that land while the list is built must not be hidden by it
	epoch := cache.Epoch(s.cache, prefix)
	patients, err := s.patients.List(ctx, branchID)
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(patients))
	seen := make(map[uuid.UUID]struct{})
	for _, p := range patients {
		if p.PrimaryBranchID == nil {
			continue
		}
		if _, ok := seen[*p.PrimaryBranchID]; !ok {
			seen[*p.PrimaryBranchID] = struct{}{}
			ids = append(ids, *p.PrimaryBranchID)
		}
	}
	names := s.branchNames(ctx, ids)

	result := make([]models.PatientResponse, 0, len(patients))
	for _, p := range patients {
		var branchName *string
		if p.PrimaryBranchID != nil {
			if name, ok := names[*p.PrimaryBranchID]; ok {
				branchName = &name
			}
		}
		result = append(result, models.NewPatientResponse(p, branchName))
	}

	cache.SetJSONSince(ctx, s.cache, prefix, epoch, key, result, s.cacheTTL)
	return result, nil
}

// Delete soft-deletes a patient of the active tenant, releasing its phone
// number.
func (s *PatientService) Delete(ctx context.Context, id uuid.UUID) error {
	tenantID, err := activeTenant(ctx)
	if err != nil {
		return err
	}

	if err := s.patients.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.NotFound("Patient")
		}
		return fmt.Errorf("delete patient: %w", err)
	}

	s.cache.InvalidatePrefix(detached(ctx), cache.PatientPrefix(tenantID))
	recordAudit(ctx, s.audit, models.AuditPatientDelete, fmt.Sprintf("Deleted patient %s", id))
	return nil
}

// branchNames resolves branch names for display. A failed lookup only costs
// the names.
func (s *PatientService) branchNames(ctx context.Context, ids []uuid.UUID) map[uuid.UUID]string {
	if len(ids) == 0 {
		return nil
	}
	names, err := s.branches.NamesByIDs(ctx, ids)
	if err != nil {
		logger.FromContext(ctx).Warn("Branch name lookup failed", zap.Error(err))
		return nil
	}
	return names
}
