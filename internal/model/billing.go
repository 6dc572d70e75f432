package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus constants
const (
	InvoiceDraft = "draft"
	InvoiceSent  = "sent"
	InvoicePaid  = "paid"
)

// PaymentStatus constants
const (
	PaymentSuccess = "success"
	PaymentFailed  = "failed"
)

// Invoice is the financial document for a rental order. Tax is split by
// origin/destination state; late fees and damage charges are part of the
// taxable base (deliberate policy carried from the billing rules).
type Invoice struct {
	ID            uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InvoiceNumber string       `gorm:"type:varchar(50);uniqueIndex;not null" json:"invoice_number"`
	RentalOrderID uuid.UUID    `gorm:"type:uuid;not null;index" json:"rental_order_id"`
	RentalOrder   *RentalOrder `gorm:"foreignKey:RentalOrderID" json:"-"`
	CustomerID    uuid.UUID    `gorm:"type:uuid;not null;index" json:"customer_id"`
	VendorID      uuid.UUID    `gorm:"type:uuid;not null;index" json:"vendor_id"`
	Status        string       `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`

	BillingName    string `gorm:"type:varchar(255)" json:"billing_name"`
	BillingGSTIN   string `gorm:"type:varchar(20)" json:"billing_gstin"`
	BillingAddress string `gorm:"type:text" json:"billing_address"`
	BillingState   string `gorm:"type:varchar(100)" json:"billing_state"`
	VendorState    string `gorm:"type:varchar(100)" json:"vendor_state"`

	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"subtotal"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"discount_amount"`
	LateFee        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"late_fee"`
	DamageCharges  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"damage_charges"`
	OtherCharges   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"other_charges"`

	IsIntrastate bool            `gorm:"default:false" json:"is_intrastate"`
	CGSTRate     decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"cgst_rate"`
	SGSTRate     decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"sgst_rate"`
	IGSTRate     decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"igst_rate"`
	CGSTAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"cgst_amount"`
	SGSTAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"sgst_amount"`
	IGSTAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"igst_amount"`
	TaxAmount    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"tax_amount"`

	Total      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"total"`
	PaidAmount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"paid_amount"`
	BalanceDue decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"balance_due"`

	Notes     string     `gorm:"type:text" json:"notes"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	PaidAt    *time.Time `json:"paid_at"`
}

// Payment records money received against an invoice. Gateway protocol is an
// external concern; only the reported outcome is stored.
type Payment struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PaymentNumber string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"payment_number"`
	InvoiceID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	Invoice       *Invoice        `gorm:"foreignKey:InvoiceID" json:"-"`
	CustomerID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"customer_id"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Method        string          `gorm:"type:varchar(30);not null;default:'upi'" json:"method"`
	Status        string          `gorm:"type:varchar(20);not null;index" json:"status"`
	PaymentDate   time.Time       `gorm:"not null" json:"payment_date"`
	Notes         string          `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
