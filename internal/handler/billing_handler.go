package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"rentalhub/internal/middleware"
	"rentalhub/internal/model"
	"rentalhub/internal/service"
	"rentalhub/pkg/response"
)

type BillingHandler struct {
	billingService service.BillingService
}

func NewBillingHandler(billingService service.BillingService) *BillingHandler {
	return &BillingHandler{billingService: billingService}
}

func (h *BillingHandler) RegisterRoutes(router *gin.RouterGroup) {
	invoices := router.Group("/api/invoices")
	invoices.Use(middleware.RequireRole(model.RoleCustomer, model.RoleVendor, model.RoleAdmin))
	{
		invoices.GET("/:id", h.GetInvoice)
	}

	payments := router.Group("/api/invoices")
	payments.Use(middleware.RequireRole(model.RoleVendor, model.RoleAdmin))
	{
		payments.POST("/:id/payments", h.RecordPayment)
	}

	orders := router.Group("/api/orders")
	orders.Use(middleware.RequireRole(model.RoleCustomer, model.RoleVendor, model.RoleAdmin))
	{
		orders.GET("/:id/invoices", h.ListByOrder)
	}
}

func (h *BillingHandler) GetInvoice(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid invoice id"))
		return
	}

	invoice, err := h.billingService.GetInvoice(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoice))
}

func (h *BillingHandler) ListByOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid order id"))
		return
	}

	invoices, err := h.billingService.ListInvoicesByOrder(c.Request.Context(), orderID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoices))
}

// RecordPayment registers money received against an invoice
// @Summary Record a payment
// @Tags invoices
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID"
// @Param request body service.RecordPaymentRequest true "Payment payload"
// @Success 201 {object} response.Response
// @Security BearerAuth
// @Router /api/invoices/{id}/payments [post]
func (h *BillingHandler) RecordPayment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid invoice id"))
		return
	}

	var req service.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	payment, err := h.billingService.RecordPayment(c.Request.Context(), middleware.ActorFrom(c), time.Now(), id, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, payment))
}
