package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LateFeeMethod constants
const (
	LateFeePerDay     = "per_day"
	LateFeePerHour    = "per_hour"
	LateFeePercentage = "percentage"
)

// LateFeePolicy configures how late-return penalties are computed.
// A policy either applies to all products or to one category; the most
// category-specific active policy wins, newest first on ties.
type LateFeePolicy struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(100);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`

	GracePeriodHours int    `gorm:"type:int;not null;default:0" json:"grace_period_hours"`
	Method           string `gorm:"type:varchar(20);not null;default:'per_day'" json:"method"` // per_day, per_hour, percentage

	PenaltyRatePerDay  decimal.Decimal  `gorm:"type:decimal(10,2);not null;default:0" json:"penalty_rate_per_day"`
	PenaltyRatePerHour decimal.Decimal  `gorm:"type:decimal(10,2);not null;default:0" json:"penalty_rate_per_hour"`
	PenaltyPercentage  decimal.Decimal  `gorm:"type:decimal(5,2);not null;default:0" json:"penalty_percentage"`
	MaxPenaltyCap      *decimal.Decimal `gorm:"type:decimal(10,2)" json:"max_penalty_cap"`

	AppliesToAllProducts bool       `gorm:"default:true" json:"applies_to_all_products"`
	CategoryID           *uuid.UUID `gorm:"type:uuid;index" json:"category_id"`

	IsActive       bool       `gorm:"default:true;index" json:"is_active"`
	EffectiveFrom  *time.Time `gorm:"type:date" json:"effective_from"`
	EffectiveUntil *time.Time `gorm:"type:date" json:"effective_until"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GSTConfiguration stores category GST rates with temporal validity
type GSTConfiguration struct {
	ID         uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CategoryID *uuid.UUID       `gorm:"type:uuid;index" json:"category_id"` // Nil = default rates
	Category   *ProductCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	HSNCode    string           `gorm:"type:varchar(10)" json:"hsn_code"`

	CGSTRate decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"cgst_rate"`
	SGSTRate decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"sgst_rate"`
	IGSTRate decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"igst_rate"`

	IsActive       bool       `gorm:"default:true;index" json:"is_active"`
	EffectiveFrom  time.Time  `gorm:"type:date;not null;index" json:"effective_from"`
	EffectiveUntil *time.Time `gorm:"type:date" json:"effective_until"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
