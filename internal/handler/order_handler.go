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

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	orders := router.Group("/api/orders")
	orders.Use(middleware.RequireRole(model.RoleCustomer, model.RoleVendor, model.RoleAdmin))
	{
		orders.GET("", h.List)
		orders.GET("/:id", h.Get)
	}

	fulfilment := router.Group("/api/orders")
	fulfilment.Use(middleware.RequireRole(model.RoleVendor, model.RoleAdmin))
	{
		fulfilment.POST("/:id/pickup/schedule", h.SchedulePickup)
		fulfilment.PUT("/:id/pickup/start", h.StartPickup)
		fulfilment.PUT("/:id/pickup/complete", h.CompletePickup)
		fulfilment.PUT("/:id/return/complete", h.CompleteReturn)
		fulfilment.PUT("/:id/cancel", h.Cancel)
	}
}

func (h *OrderHandler) List(c *gin.Context) {
	params := pagination.Parse(c)

	var customerID, vendorID *uuid.UUID
	if raw := c.Query("customer_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid customer_id"))
			return
		}
		customerID = &id
	}
	if raw := c.Query("vendor_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid vendor_id"))
			return
		}
		vendorID = &id
	}

	orders, total, err := h.orderService.List(c.Request.Context(), customerID, vendorID, c.Query("status"), params.Page, params.Limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"data":   orders,
		"total":  total,
		"page":   params.Page,
		"limit":  params.Limit,
	})
}

func (h *OrderHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid order id"))
		return
	}

	order, err := h.orderService.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// SchedulePickup books the handover date for a confirmed order
// @Summary Schedule a pickup
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param request body service.SchedulePickupRequest true "Schedule payload"
// @Success 201 {object} response.Response
// @Security BearerAuth
// @Router /api/orders/{id}/pickup/schedule [post]
func (h *OrderHandler) SchedulePickup(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid order id"))
		return
	}

	var req service.SchedulePickupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	pickup, err := h.orderService.SchedulePickup(c.Request.Context(), middleware.ActorFrom(c), time.Now(), id, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, pickup))
}

func (h *OrderHandler) StartPickup(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid order id"))
		return
	}

	pickup, err := h.orderService.StartPickup(c.Request.Context(), middleware.ActorFrom(c), time.Now(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, pickup))
}

// CompletePickup hands the items over and starts the rental
// @Summary Complete a pickup
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param request body service.CompletePickupRequest true "Handover checklist"
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /api/orders/{id}/pickup/complete [put]
func (h *OrderHandler) CompletePickup(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid order id"))
		return
	}

	var req service.CompletePickupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	pickup, err := h.orderService.CompletePickup(c.Request.Context(), middleware.ActorFrom(c), time.Now(), id, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, pickup))
}

// CompleteReturn settles the rental with late fees and damage charges
// @Summary Complete a return
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param request body service.CompleteReturnRequest true "Inspection outcome"
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /api/orders/{id}/return/complete [put]
func (h *OrderHandler) CompleteReturn(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid order id"))
		return
	}

	var req service.CompleteReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	ret, err := h.orderService.CompleteReturn(c.Request.Context(), middleware.ActorFrom(c), time.Now(), id, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, ret))
}

func (h *OrderHandler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid order id"))
		return
	}

	order, err := h.orderService.Cancel(c.Request.Context(), middleware.ActorFrom(c), time.Now(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}
