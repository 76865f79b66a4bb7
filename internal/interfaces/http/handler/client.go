package handler

import (
	appclientele "github.com/MAsTer0103-byte/eqb-platform/internal/application/clientele"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ClientHandler handles client record requests
type ClientHandler struct {
	BaseHandler
	clientService *appclientele.ClientService
}

// NewClientHandler creates a new client handler
func NewClientHandler(clientService *appclientele.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// CreateClientRequest is the client creation request body
type CreateClientRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone"`
	Notes     string `json:"notes"`
}

// UpdateClientRequest is the client update request body
type UpdateClientRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
	Notes     *string `json:"notes"`
}

// AssignCoworkerRequest is the coworker assignment request body
type AssignCoworkerRequest struct {
	CoworkerID uuid.UUID `json:"coworker_id" binding:"required"`
	IsPrimary  bool      `json:"is_primary"`
}

// Create godoc
// @Summary      Create client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateClientRequest true "Client details"
// @Success      201 {object} dto.Response{data=clientele.ClientDTO}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /clients [post]
func (h *ClientHandler) Create(c *gin.Context) {
	var req CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	client, err := h.clientService.Create(c.Request.Context(), appclientele.CreateClientInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Notes:     req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, client)
}

// List godoc
// @Summary      List clients
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "Page"
// @Param        page_size query int false "Page size"
// @Param        search query string false "Search in name, email or phone"
// @Success      200 {object} dto.Response{data=[]clientele.ClientDTO}
// @Router       /clients [get]
func (h *ClientHandler) List(c *gin.Context) {
	filter := listFilter(c)
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}

	result, err := h.clientService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Get godoc
// @Summary      Get client
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Client ID"
// @Success      200 {object} dto.Response{data=clientele.ClientDTO}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /clients/{id} [get]
func (h *ClientHandler) Get(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	client, err := h.clientService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, client)
}

// Update godoc
// @Summary      Update client
// @Description  Update client details. Email is immutable after creation.
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Client ID"
// @Param        request body UpdateClientRequest true "Fields to update"
// @Success      200 {object} dto.Response{data=clientele.ClientDTO}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /clients/{id} [put]
func (h *ClientHandler) Update(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	client, err := h.clientService.Update(c.Request.Context(), appclientele.UpdateClientInput{
		ID:        id,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Notes:     req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, client)
}

// Deactivate godoc
// @Summary      Deactivate client
// @Description  Soft-delete a client. History and documents are retained.
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Client ID"
// @Success      204
// @Router       /clients/{id} [delete]
func (h *ClientHandler) Deactivate(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.clientService.Deactivate(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Reactivate godoc
// @Summary      Reactivate client
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Client ID"
// @Success      204
// @Router       /clients/{id}/reactivate [post]
func (h *ClientHandler) Reactivate(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.clientService.Reactivate(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// AssignCoworker godoc
// @Summary      Assign coworker
// @Description  Link a coworker to a client, optionally as primary
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Client ID"
// @Param        request body AssignCoworkerRequest true "Assignment"
// @Success      204
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /clients/{id}/coworkers [post]
func (h *ClientHandler) AssignCoworker(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req AssignCoworkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	if err := h.clientService.AssignCoworker(c.Request.Context(), id, req.CoworkerID, req.IsPrimary); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// UnassignCoworker godoc
// @Summary      Unassign coworker
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Client ID"
// @Param        coworkerId path string true "Coworker ID"
// @Success      204
// @Router       /clients/{id}/coworkers/{coworkerId} [delete]
func (h *ClientHandler) UnassignCoworker(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	coworkerID, ok := h.parseUUIDParam(c, "coworkerId")
	if !ok {
		return
	}

	if err := h.clientService.UnassignCoworker(c.Request.Context(), id, coworkerID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Coworkers godoc
// @Summary      List assigned coworkers
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Client ID"
// @Success      200 {object} dto.Response{data=[]clientele.CoworkerLinkDTO}
// @Router       /clients/{id}/coworkers [get]
func (h *ClientHandler) Coworkers(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	links, err := h.clientService.Coworkers(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, links)
}

// Statistics godoc
// @Summary      Client statistics
// @Description  Appointment totals and last visit for a client
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Client ID"
// @Success      200 {object} dto.Response{data=clientele.ClientStatisticsDTO}
// @Router       /clients/{id}/statistics [get]
func (h *ClientHandler) Statistics(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	stats, err := h.clientService.Statistics(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}
