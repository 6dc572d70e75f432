package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PickupStatus constants
const (
	PickupPending    = "pending"
	PickupInProgress = "in_progress"
	PickupCompleted  = "completed"
	PickupCancelled  = "cancelled"
)

// ReturnStatus constants
const (
	ReturnPending    = "pending"
	ReturnInProgress = "in_progress"
	ReturnCompleted  = "completed"
	ReturnPartial    = "partial" // Some items returned, others pending
	ReturnDamaged    = "damaged" // Returned with damage
)

// Pickup records the handover of rented items to the customer (1:1 with order)
type Pickup struct {
	ID            uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PickupNumber  string       `gorm:"type:varchar(50);uniqueIndex;not null" json:"pickup_number"`
	RentalOrderID uuid.UUID    `gorm:"type:uuid;uniqueIndex;not null" json:"rental_order_id"`
	RentalOrder   *RentalOrder `gorm:"foreignKey:RentalOrderID" json:"-"`
	Status        string       `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`

	ScheduledPickupDate *time.Time `json:"scheduled_pickup_date"`
	ActualPickupDate    *time.Time `json:"actual_pickup_date"`

	HandedOverByID     *uuid.UUID `gorm:"type:uuid" json:"handed_over_by"`
	ItemsChecked       bool       `gorm:"default:false" json:"items_checked"`
	CustomerIDVerified bool       `gorm:"default:false" json:"customer_id_verified"`
	PickupNotes        string     `gorm:"type:text" json:"pickup_notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Return records the inspection and settlement of returned items (1:1 with
// order). Created automatically when pickup completes, so every picked-up
// order has exactly one tracked return expectation.
type Return struct {
	ID            uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ReturnNumber  string       `gorm:"type:varchar(50);uniqueIndex;not null" json:"return_number"`
	RentalOrderID uuid.UUID    `gorm:"type:uuid;uniqueIndex;not null" json:"rental_order_id"`
	RentalOrder   *RentalOrder `gorm:"foreignKey:RentalOrderID" json:"-"`
	Status        string       `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`

	ScheduledReturnDate time.Time  `gorm:"not null" json:"scheduled_return_date"`
	ActualReturnDate    *time.Time `json:"actual_return_date"`

	ReceivedByID      *uuid.UUID      `gorm:"type:uuid" json:"received_by"`
	AllItemsReturned  bool            `gorm:"default:false" json:"all_items_returned"`
	ItemsDamaged      bool            `gorm:"default:false" json:"items_damaged"`
	DamageDescription string          `gorm:"type:text" json:"damage_description"`
	DamageCost        decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"damage_cost"`

	IsLateReturn   bool            `gorm:"default:false" json:"is_late_return"`
	LateDays       int             `gorm:"type:int;default:0" json:"late_days"`
	LateFeeCharged decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"late_fee_charged"`

	ReturnNotes string    `gorm:"type:text" json:"return_notes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
