package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RentalOrderStatus constants
const (
	OrderDraft      = "draft"
	OrderConfirmed  = "confirmed"   // Customer committed, stock reserved
	OrderInProgress = "in_progress" // Customer has picked up items
	OrderCompleted  = "completed"   // Items returned and assessed
	OrderCancelled  = "cancelled"
)

// RentalOrder is the binding agreement created from a confirmed quotation.
// A quotation maps to at most one rental order (1:1).
type RentalOrder struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderNumber string     `gorm:"type:varchar(50);uniqueIndex;not null" json:"order_number"`
	QuotationID *uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"quotation_id"`
	Quotation   *Quotation `gorm:"foreignKey:QuotationID" json:"quotation,omitempty"`
	CustomerID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"customer_id"`
	Customer    *User      `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	VendorID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"vendor_id"`
	Vendor      *User      `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`
	Status      string     `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`
	Invoiced    bool       `gorm:"default:false" json:"invoiced"` // Orthogonal to status

	DeliveryAddress string `gorm:"type:text" json:"delivery_address"`
	BillingAddress  string `gorm:"type:text" json:"billing_address"`

	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"subtotal"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"discount_amount"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"tax_amount"`
	LateFee        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"late_fee"`
	Total          decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"total"`

	AdvancePercentage decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"advance_percentage"`
	AdvanceAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"advance_amount"`
	DepositAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"deposit_amount"`
	PaidAmount        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"paid_amount"`

	RequiresApproval bool       `gorm:"default:false" json:"requires_approval"`
	ApprovalStatus   string     `gorm:"type:varchar(20);not null;default:'not_required'" json:"approval_status"`
	ApprovedByID     *uuid.UUID `gorm:"type:uuid" json:"approved_by"`
	ApprovedAt       *time.Time `json:"approved_at"`

	Notes       string            `gorm:"type:text" json:"notes"`
	Lines       []RentalOrderLine `gorm:"foreignKey:RentalOrderID;constraint:OnDelete:CASCADE" json:"lines"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	ConfirmedAt *time.Time        `json:"confirmed_at"`
	CompletedAt *time.Time        `json:"completed_at"`
}

// RentalOrderLine tracks exactly what was rented, for which window, and the
// late-return outcome once the item comes back.
type RentalOrderLine struct {
	ID               uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RentalOrderID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"rental_order_id"`
	ProductID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"product_id"`
	Product          *Product   `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	ProductVariantID *uuid.UUID `gorm:"type:uuid;index" json:"product_variant_id"`

	RentalStartDate  time.Time  `gorm:"not null" json:"rental_start_date"`
	RentalEndDate    time.Time  `gorm:"not null" json:"rental_end_date"`
	ActualPickupDate *time.Time `json:"actual_pickup_date"`
	ActualReturnDate *time.Time `json:"actual_return_date"`

	Quantity  int             `gorm:"type:int;not null;default:1" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	LineTotal decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"line_total"`

	IsLateReturn   bool            `gorm:"default:false" json:"is_late_return"`
	LateDays       int             `gorm:"type:int;default:0" json:"late_days"`
	LateFeeCharged decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"late_fee_charged"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
