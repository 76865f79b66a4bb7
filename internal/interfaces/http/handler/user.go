package handler

import (
	appidentity "github.com/MAsTer0103-byte/eqb-platform/internal/application/identity"
	"github.com/MAsTer0103-byte/eqb-platform/internal/domain/identity"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// UserHandler handles admin user management requests
type UserHandler struct {
	BaseHandler
	userService  *appidentity.UserService
	statsService *appidentity.StatisticsService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *appidentity.UserService, statsService *appidentity.StatisticsService) *UserHandler {
	return &UserHandler{userService: userService, statsService: statsService}
}

// CreateUserRequest is the user creation request body
type CreateUserRequest struct {
	Email          string  `json:"email" binding:"required,email"`
	Password       string  `json:"password" binding:"required,min=8,max=128"`
	FirstName      string  `json:"first_name" binding:"required"`
	LastName       string  `json:"last_name" binding:"required"`
	Role           string  `json:"role" binding:"required,oneof=ADMIN COWORKER"`
	Specialization string  `json:"specialization"`
	HourlyRate     *string `json:"hourly_rate"`
}

// UpdateUserRequest is the user update request body
type UpdateUserRequest struct {
	FirstName      *string `json:"first_name"`
	LastName       *string `json:"last_name"`
	Specialization *string `json:"specialization"`
	HourlyRate     *string `json:"hourly_rate"`
}

// ChangeRoleRequest is the role change request body
type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=ADMIN COWORKER"`
}

// ResetPasswordRequest is the admin password reset request body
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=8,max=128"`
}

// Create godoc
// @Summary      Create user
// @Description  Create a new admin or coworker account
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateUserRequest true "User details"
// @Success      201 {object} dto.Response{data=identity.UserDTO}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /admin/users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	input := appidentity.CreateUserInput{
		Email:          req.Email,
		Password:       req.Password,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Role:           identity.Role(req.Role),
		Specialization: req.Specialization,
	}
	if req.HourlyRate != nil {
		rate, err := decimal.NewFromString(*req.HourlyRate)
		if err != nil {
			h.BadRequest(c, "Invalid hourly rate")
			return
		}
		input.HourlyRate = &rate
	}

	user, err := h.userService.Create(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, user)
}

// List godoc
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "Page"
// @Param        page_size query int false "Page size"
// @Param        search query string false "Search in name or email"
// @Success      200 {object} dto.Response{data=[]identity.UserDTO}
// @Router       /admin/users [get]
func (h *UserHandler) List(c *gin.Context) {
	filter := listFilter(c)
	if role := c.Query("role"); role != "" {
		filter.Filters["role"] = role
	}
	if active := c.Query("active"); active != "" {
		filter.Filters["active"] = active == "true"
	}

	result, err := h.userService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Get godoc
// @Summary      Get user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User ID"
// @Success      200 {object} dto.Response{data=identity.UserDTO}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /admin/users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// Coworkers godoc
// @Summary      List coworkers
// @Description  List coworker accounts for booking and assignment pickers
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        active_only query bool false "Only active coworkers"
// @Success      200 {object} dto.Response{data=[]identity.UserDTO}
// @Router       /users/coworkers [get]
func (h *UserHandler) Coworkers(c *gin.Context) {
	activeOnly := c.DefaultQuery("active_only", "true") == "true"

	coworkers, err := h.userService.ListCoworkers(c.Request.Context(), activeOnly)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, coworkers)
}

// Update godoc
// @Summary      Update user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User ID"
// @Param        request body UpdateUserRequest true "Fields to update"
// @Success      200 {object} dto.Response{data=identity.UserDTO}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /admin/users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	input := appidentity.UpdateUserInput{
		ID:             id,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Specialization: req.Specialization,
	}
	if req.HourlyRate != nil {
		rate, err := decimal.NewFromString(*req.HourlyRate)
		if err != nil {
			h.BadRequest(c, "Invalid hourly rate")
			return
		}
		input.HourlyRate = &rate
	}

	user, err := h.userService.Update(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// ChangeRole godoc
// @Summary      Change user role
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User ID"
// @Param        request body ChangeRoleRequest true "New role"
// @Success      200 {object} dto.Response{data=identity.UserDTO}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /admin/users/{id}/role [put]
func (h *UserHandler) ChangeRole(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	user, err := h.userService.ChangeRole(c.Request.Context(), id, identity.Role(req.Role))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// Deactivate godoc
// @Summary      Deactivate user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User ID"
// @Success      204
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /admin/users/{id} [delete]
func (h *UserHandler) Deactivate(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.userService.Deactivate(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Activate godoc
// @Summary      Activate user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User ID"
// @Success      204
// @Router       /admin/users/{id}/activate [post]
func (h *UserHandler) Activate(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.userService.Activate(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Statistics godoc
// @Summary      System statistics
// @Description  Account, client, and appointment counts for the admin dashboard
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.Response{data=identity.SystemStatisticsDTO}
// @Router       /admin/statistics [get]
func (h *UserHandler) Statistics(c *gin.Context) {
	stats, err := h.statsService.Get(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// ResetPassword godoc
// @Summary      Reset user password
// @Description  Set a new password for a user without the old one
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User ID"
// @Param        request body ResetPasswordRequest true "New password"
// @Success      204
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /admin/users/{id}/password [put]
func (h *UserHandler) ResetPassword(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	if err := h.userService.ResetPassword(c.Request.Context(), id, req.NewPassword); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
