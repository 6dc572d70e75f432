package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ApprovalRequestType constants
const (
	ApprovalReqTypeQuotation = "quotation"
	ApprovalReqTypeOrder     = "order"
)

// ApprovalRequest tracks the approval workflow for high-value quotations and
// orders. A pending request blocks confirmation of the linked document;
// approve/reject are one-shot terminal decisions.
type ApprovalRequest struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RequestNumber string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"request_number"`
	RequestType   string          `gorm:"type:varchar(20);not null;index" json:"request_type"` // quotation, order
	QuotationID   *uuid.UUID      `gorm:"type:uuid;index" json:"quotation_id"`
	Quotation     *Quotation      `gorm:"foreignKey:QuotationID" json:"-"`
	RentalOrderID *uuid.UUID      `gorm:"type:uuid;index" json:"rental_order_id"`
	RentalOrder   *RentalOrder    `gorm:"foreignKey:RentalOrderID" json:"-"`
	Status        string          `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`

	RequestedByID *uuid.UUID `gorm:"type:uuid;index" json:"requested_by"`
	Requester     *User      `gorm:"foreignKey:RequestedByID" json:"requester,omitempty"`
	DecidedByID   *uuid.UUID `gorm:"type:uuid" json:"decided_by"`
	Approver      *User      `gorm:"foreignKey:DecidedByID" json:"approver,omitempty"`
	DecidedAt     *time.Time `json:"decided_at"`
	Notes         string     `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
