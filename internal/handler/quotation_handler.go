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

type QuotationHandler struct {
	quotationService service.QuotationService
}

func NewQuotationHandler(quotationService service.QuotationService) *QuotationHandler {
	return &QuotationHandler{quotationService: quotationService}
}

func (h *QuotationHandler) RegisterRoutes(router *gin.RouterGroup) {
	quotations := router.Group("/api/quotations")
	quotations.Use(middleware.RequireRole(model.RoleCustomer, model.RoleVendor, model.RoleAdmin))
	{
		quotations.POST("", h.Create)
		quotations.GET("", h.List)
		quotations.GET("/:id", h.Get)
		quotations.POST("/:id/lines", h.AddLine)
		quotations.DELETE("/:id/lines/:lineID", h.RemoveLine)
		quotations.PUT("/:id/send", h.Send)
		quotations.PUT("/:id/confirm", h.Confirm)
		quotations.PUT("/:id/decline", h.Decline)
	}
}

// Create creates a draft quotation
// @Summary Create a quotation
// @Tags quotations
// @Accept json
// @Produce json
// @Param request body service.CreateQuotationRequest true "Quotation payload"
// @Success 201 {object} response.Response
// @Security BearerAuth
// @Router /api/quotations [post]
func (h *QuotationHandler) Create(c *gin.Context) {
	var req service.CreateQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	quotation, err := h.quotationService.Create(c.Request.Context(), middleware.ActorFrom(c), time.Now(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, quotation))
}

func (h *QuotationHandler) List(c *gin.Context) {
	params := pagination.Parse(c)

	var customerID *uuid.UUID
	if raw := c.Query("customer_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid customer_id"))
			return
		}
		customerID = &id
	}

	quotations, total, err := h.quotationService.List(c.Request.Context(), customerID, c.Query("status"), params.Page, params.Limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"data":   quotations,
		"total":  total,
		"page":   params.Page,
		"limit":  params.Limit,
	})
}

func (h *QuotationHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid quotation id"))
		return
	}

	quotation, err := h.quotationService.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, quotation))
}

func (h *QuotationHandler) AddLine(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid quotation id"))
		return
	}

	var req service.QuotationLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	quotation, err := h.quotationService.AddLine(c.Request.Context(), middleware.ActorFrom(c), time.Now(), id, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, quotation))
}

func (h *QuotationHandler) RemoveLine(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid quotation id"))
		return
	}
	lineID, err := uuid.Parse(c.Param("lineID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid line id"))
		return
	}

	quotation, err := h.quotationService.RemoveLine(c.Request.Context(), middleware.ActorFrom(c), time.Now(), id, lineID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, quotation))
}

// Send shares a draft quotation with the customer
// @Summary Send a quotation
// @Tags quotations
// @Produce json
// @Param id path string true "Quotation ID"
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /api/quotations/{id}/send [put]
func (h *QuotationHandler) Send(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid quotation id"))
		return
	}

	quotation, err := h.quotationService.Send(c.Request.Context(), middleware.ActorFrom(c), time.Now(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, quotation))
}

// Confirm converts a sent quotation into a rental order
// @Summary Confirm a quotation
// @Tags quotations
// @Produce json
// @Param id path string true "Quotation ID"
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /api/quotations/{id}/confirm [put]
func (h *QuotationHandler) Confirm(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid quotation id"))
		return
	}

	order, err := h.quotationService.Confirm(c.Request.Context(), middleware.ActorFrom(c), time.Now(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

func (h *QuotationHandler) Decline(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid quotation id"))
		return
	}

	quotation, err := h.quotationService.Decline(c.Request.Context(), middleware.ActorFrom(c), time.Now(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, quotation))
}
