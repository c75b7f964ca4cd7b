package handler

import (
	"net/http"

	"clinic-admin-api/internal/models"
	"clinic-admin-api/internal/service"
	"clinic-admin-api/pkg/utils"

	"github.com/gin-gonic/gin"
)

type PatientHandler struct {
	patientService *service.PatientService
}

func NewPatientHandler(patientService *service.PatientService) *PatientHandler {
	return &PatientHandler{
		patientService: patientService,
	}
}

// CreatePatient registers a patient in the caller's tenant
func (h *PatientHandler) CreatePatient(c *gin.Context) {
	var req models.CreatePatientRequest
	if !bindJSON(c, &req) {
		return
	}

	patient, err := h.patientService.Create(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}

	utils.CreatedResponse(c, patient)
}

// ListPatients returns the tenant's patients, newest first. An optional
// branchId query parameter filters by primary branch.
func (h *PatientHandler) ListPatients(c *gin.Context) {
	branchID, ok := optionalUUIDQuery(c, "branchId")
	if !ok {
		return
	}

	patients, err := h.patientService.List(c.Request.Context(), branchID)
	if err != nil {
		fail(c, err)
		return
	}

	utils.SuccessResponse(c, patients)
}

// DeletePatient soft deletes a patient
func (h *PatientHandler) DeletePatient(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.patientService.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
