package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateQuotationRequest struct {
	CustomerID        uuid.UUID              `json:"customer_id" binding:"required"`
	ValidUntil        time.Time              `json:"valid_until" binding:"required"`
	AdvancePercentage decimal.Decimal        `json:"advance_percentage"`
	DiscountAmount    decimal.Decimal        `json:"discount_amount"`
	Notes             string                 `json:"notes"`
	Lines             []QuotationLineRequest `json:"lines"`
}

type QuotationLineRequest struct {
	ProductID        uuid.UUID       `json:"product_id" binding:"required"`
	ProductVariantID *uuid.UUID      `json:"product_variant_id"`
	RentalStartDate  time.Time       `json:"rental_start_date" binding:"required"`
	RentalEndDate    time.Time       `json:"rental_end_date" binding:"required"`
	Quantity         int             `json:"quantity" binding:"required"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
}

type SchedulePickupRequest struct {
	ScheduledPickupDate time.Time `json:"scheduled_pickup_date" binding:"required"`
	Notes               string    `json:"notes"`
}

type CompletePickupRequest struct {
	ItemsChecked       bool   `json:"items_checked"`
	CustomerIDVerified bool   `json:"customer_id_verified"`
	Notes              string `json:"notes"`
}

type CompleteReturnRequest struct {
	AllItemsReturned  bool            `json:"all_items_returned"`
	ItemsDamaged      bool            `json:"items_damaged"`
	DamageDescription string          `json:"damage_description"`
	DamageCost        decimal.Decimal `json:"damage_cost"`
	Notes             string          `json:"notes"`
}

type RecordPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Method string          `json:"method"`
	Notes  string          `json:"notes"`
}
