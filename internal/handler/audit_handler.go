package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rentalhub/internal/middleware"
	"rentalhub/internal/model"
	"rentalhub/internal/repository"
	"rentalhub/pkg/response"
)

type AuditHandler struct {
	audit repository.AuditRepository
}

func NewAuditHandler(audit repository.AuditRepository) *AuditHandler {
	return &AuditHandler{audit: audit}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	logs := router.Group("/api/audit-logs")
	logs.Use(middleware.RequireRole(model.RoleAdmin))
	{
		logs.GET("", h.ListByEntity)
	}
}

// ListByEntity returns the transition history for one entity
func (h *AuditHandler) ListByEntity(c *gin.Context) {
	entityType := c.Query("entity_type")
	entityID := c.Query("entity_id")
	if entityType == "" || entityID == "" {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "entity_type and entity_id are required"))
		return
	}

	entries, err := h.audit.ListByEntity(c.Request.Context(), entityType, entityID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, entries))
}
