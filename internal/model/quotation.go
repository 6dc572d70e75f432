package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QuotationStatus constants
const (
	QuotationDraft     = "draft"     // Being edited by customer
	QuotationSent      = "sent"      // Shared with customer for review
	QuotationConfirmed = "confirmed" // Converted into a rental order
	QuotationCancelled = "cancelled" // Declined before confirmation
	QuotationExpired   = "expired"   // Validity period passed
)

// ApprovalStatus constants shared by quotations and rental orders
const (
	ApprovalNotRequired = "not_required"
	ApprovalPending     = "pending"
	ApprovalApproved    = "approved"
	ApprovalRejected    = "rejected"
)

// Quotation is a non-binding rental proposal. It is never hard-deleted:
// the lifecycle is status-driven (draft → sent → confirmed/cancelled/expired).
type Quotation struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	QuotationNumber string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"quotation_number"`
	CustomerID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"customer_id"`
	Customer        *User           `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Status          string          `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`
	ValidUntil      time.Time       `gorm:"type:date;not null" json:"valid_until"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"subtotal"`
	DiscountAmount  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"discount_amount"`
	TaxAmount       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"tax_amount"`
	Total           decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"total"`

	// Advance payment terms (collected when the quotation is confirmed)
	AdvancePercentage decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"advance_percentage"`
	AdvanceAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"advance_amount"`

	// Approval workflow (high-value quotations)
	RequiresApproval bool       `gorm:"default:false" json:"requires_approval"`
	ApprovalStatus   string     `gorm:"type:varchar(20);not null;default:'not_required'" json:"approval_status"`
	ApprovedByID     *uuid.UUID `gorm:"type:uuid" json:"approved_by"`
	ApprovedAt       *time.Time `json:"approved_at"`

	Notes       string          `gorm:"type:text" json:"notes"`
	Lines       []QuotationLine `gorm:"foreignKey:QuotationID;constraint:OnDelete:CASCADE" json:"lines"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	ConfirmedAt *time.Time      `json:"confirmed_at"`
}

// QuotationLine is one product + rental window + quantity inside a quotation
type QuotationLine struct {
	ID               uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	QuotationID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"quotation_id"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Product          *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	ProductVariantID *uuid.UUID      `gorm:"type:uuid;index" json:"product_variant_id"`
	RentalStartDate  time.Time       `gorm:"not null" json:"rental_start_date"`
	RentalEndDate    time.Time       `gorm:"not null" json:"rental_end_date"`
	Quantity         int             `gorm:"type:int;not null;default:1" json:"quantity"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	LineTotal        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"line_total"` // quantity × unit_price
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}
