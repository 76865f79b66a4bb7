package handler

import (
	"time"

	appscheduling "github.com/MAsTer0103-byte/eqb-platform/internal/application/scheduling"
	"github.com/MAsTer0103-byte/eqb-platform/internal/domain/scheduling"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AppointmentHandler handles appointment booking requests
type AppointmentHandler struct {
	BaseHandler
	appointmentService *appscheduling.AppointmentService
}

// NewAppointmentHandler creates a new appointment handler
func NewAppointmentHandler(appointmentService *appscheduling.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{appointmentService: appointmentService}
}

// BookAppointmentRequest is the appointment booking request body
type BookAppointmentRequest struct {
	CoworkerID uuid.UUID `json:"coworker_id" binding:"required"`
	ClientID   uuid.UUID `json:"client_id" binding:"required"`
	StartTime  time.Time `json:"start_time" binding:"required"`
	EndTime    time.Time `json:"end_time" binding:"required"`
	RoomType   string    `json:"room_type" binding:"required,oneof=MASSAGE TREATMENT CONSULTATION GROUP"`
	Notes      string    `json:"notes"`
}

// RescheduleAppointmentRequest is the reschedule request body
type RescheduleAppointmentRequest struct {
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
}

// Book godoc
// @Summary      Book appointment
// @Description  Book an appointment with a coworker in a given room type
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body BookAppointmentRequest true "Booking details"
// @Success      201 {object} dto.Response{data=scheduling.AppointmentDTO}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /appointments [post]
func (h *AppointmentHandler) Book(c *gin.Context) {
	var req BookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	appt, err := h.appointmentService.Book(c.Request.Context(), appscheduling.BookInput{
		CoworkerID: req.CoworkerID,
		ClientID:   req.ClientID,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		RoomType:   scheduling.RoomType(req.RoomType),
		Notes:      req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, appt)
}

// List godoc
// @Summary      List appointments
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "Page"
// @Param        page_size query int false "Page size"
// @Param        coworker_id query string false "Filter by coworker"
// @Param        client_id query string false "Filter by client"
// @Param        status query string false "Filter by status"
// @Success      200 {object} dto.Response{data=[]scheduling.AppointmentDTO}
// @Router       /appointments [get]
func (h *AppointmentHandler) List(c *gin.Context) {
	filter := listFilter(c)
	if coworkerID := c.Query("coworker_id"); coworkerID != "" {
		filter.Filters["coworker_id"] = coworkerID
	}
	if clientID := c.Query("client_id"); clientID != "" {
		filter.Filters["client_id"] = clientID
	}
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}
	if from := c.Query("from"); from != "" {
		filter.Filters["from"] = from
	}
	if to := c.Query("to"); to != "" {
		filter.Filters["to"] = to
	}

	result, err := h.appointmentService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Get godoc
// @Summary      Get appointment
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Appointment ID"
// @Success      200 {object} dto.Response{data=scheduling.AppointmentDTO}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /appointments/{id} [get]
func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	appt, err := h.appointmentService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, appt)
}

// Complete godoc
// @Summary      Complete appointment
// @Description  Mark an appointment as completed so it counts toward backlog hours
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Appointment ID"
// @Success      200 {object} dto.Response{data=scheduling.AppointmentDTO}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /appointments/{id}/complete [post]
func (h *AppointmentHandler) Complete(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	appt, err := h.appointmentService.Complete(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, appt)
}

// Cancel godoc
// @Summary      Cancel appointment
// @Description  Cancel an appointment. Requires at least 12 hours of notice.
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Appointment ID"
// @Success      200 {object} dto.Response{data=scheduling.AppointmentDTO}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /appointments/{id}/cancel [post]
func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	appt, err := h.appointmentService.Cancel(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, appt)
}

// Reschedule godoc
// @Summary      Reschedule appointment
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Appointment ID"
// @Param        request body RescheduleAppointmentRequest true "New time slot"
// @Success      200 {object} dto.Response{data=scheduling.AppointmentDTO}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /appointments/{id}/reschedule [post]
func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req RescheduleAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	appt, err := h.appointmentService.Reschedule(c.Request.Context(), appscheduling.RescheduleInput{
		ID:        id,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, appt)
}
