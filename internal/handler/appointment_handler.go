package handler

import (
	"clinic-admin-api/internal/models"
	"clinic-admin-api/internal/service"
	"clinic-admin-api/pkg/utils"

	"github.com/gin-gonic/gin"
)

type AppointmentHandler struct {
	appointmentService *service.AppointmentService
}

func NewAppointmentHandler(appointmentService *service.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentService: appointmentService,
	}
}

// CreateAppointment books a patient into a branch at a start time
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var req models.CreateAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	appointment, err := h.appointmentService.Create(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}

	utils.CreatedResponse(c, appointment)
}
