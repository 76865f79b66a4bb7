package handler

import (
	"net/http"

	"github.com/MAsTer0103-byte/eqb-platform/internal/infrastructure/persistence"
	"github.com/gin-gonic/gin"
)

// HealthHandler reports service liveness and readiness
type HealthHandler struct {
	BaseHandler
	db      *persistence.Database
	version string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *persistence.Database, version string) *HealthHandler {
	return &HealthHandler{db: db, version: version}
}

// Health godoc
// @Summary      Health check
// @Description  Reports service health and database connectivity
// @Tags         system
// @Produce      json
// @Success      200 {object} dto.Response
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	dbStatus := "up"
	status := http.StatusOK
	if err := h.db.Ping(); err != nil {
		dbStatus = "down"
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"success": status == http.StatusOK,
		"data": gin.H{
			"status":   dbStatus,
			"version":  h.version,
			"database": dbStatus,
		},
	})
}
