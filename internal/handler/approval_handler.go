package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"rentalhub/internal/middleware"
	"rentalhub/internal/model"
	"rentalhub/internal/service"
	"rentalhub/pkg/pagination"
	"rentalhub/pkg/response"
)

type ApprovalHandler struct {
	approvalService service.ApprovalService
}

func NewApprovalHandler(approvalService service.ApprovalService) *ApprovalHandler {
	return &ApprovalHandler{approvalService: approvalService}
}

func (h *ApprovalHandler) RegisterRoutes(router *gin.RouterGroup) {
	approvals := router.Group("/api/approvals")
	approvals.Use(middleware.RequireRole(model.RoleAdmin))
	{
		approvals.GET("", h.List)
		approvals.GET("/:id", h.Get)
		approvals.PUT("/:id/approve", h.Approve)
		approvals.PUT("/:id/reject", h.Reject)
	}
}

type decisionRequest struct {
	Notes string `json:"notes"`
}

// List returns approval requests, optionally filtered by status
func (h *ApprovalHandler) List(c *gin.Context) {
	params := pagination.Parse(c)

	approvals, total, err := h.approvalService.List(c.Request.Context(), c.Query("status"), params.Page, params.Limit)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"data":   approvals,
		"total":  total,
		"page":   params.Page,
		"limit":  params.Limit,
	})
}

func (h *ApprovalHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid approval request id"))
		return
	}

	req, err := h.approvalService.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, req))
}

// Approve approves a pending approval request
// @Summary Approve a request
// @Tags approvals
// @Produce json
// @Param id path string true "Approval request ID"
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /api/approvals/{id}/approve [put]
func (h *ApprovalHandler) Approve(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid approval request id"))
		return
	}

	var body decisionRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		// Empty body is fine, notes are optional
		body.Notes = ""
	}

	req, err := h.approvalService.Approve(c.Request.Context(), middleware.ActorFrom(c), time.Now(), id, body.Notes)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, req))
}

// Reject rejects a pending approval request
// @Summary Reject a request
// @Tags approvals
// @Produce json
// @Param id path string true "Approval request ID"
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /api/approvals/{id}/reject [put]
func (h *ApprovalHandler) Reject(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid approval request id"))
		return
	}

	var body decisionRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		body.Notes = ""
	}

	req, err := h.approvalService.Reject(c.Request.Context(), middleware.ActorFrom(c), time.Now(), id, body.Notes)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, req))
}
