package model

import (
	"time"

	"github.com/google/uuid"
)

// ReservationStatus constants
const (
	ReservationConfirmed = "confirmed" // Stock is blocked
	ReservationActive    = "active"    // Customer has picked up
	ReservationCompleted = "completed" // Item returned, stock released
	ReservationCancelled = "cancelled" // Cancelled, stock released
)

// Reservation blocks N units of a product (or variant) for a half-open
// window [RentalStartDate, RentalEndDate). One quantity-bearing row per
// order line; confirmed and active rows count against on-hand stock.
type Reservation struct {
	ID                uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RentalOrderLineID uuid.UUID        `gorm:"type:uuid;not null;index" json:"rental_order_line_id"`
	RentalOrderLine   *RentalOrderLine `gorm:"foreignKey:RentalOrderLineID" json:"-"`
	ProductID         uuid.UUID        `gorm:"type:uuid;not null;index:idx_res_product_window" json:"product_id"`
	ProductVariantID  *uuid.UUID       `gorm:"type:uuid;index" json:"product_variant_id"`
	RentalStartDate   time.Time        `gorm:"not null;index:idx_res_product_window" json:"rental_start_date"`
	RentalEndDate     time.Time        `gorm:"not null;index:idx_res_product_window" json:"rental_end_date"`
	Quantity          int              `gorm:"type:int;not null;default:1" json:"quantity"`
	Status            string           `gorm:"type:varchar(20);not null;default:'confirmed';index:idx_res_product_window" json:"status"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}
