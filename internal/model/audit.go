package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionCreateQuotation = "CREATE_QUOTATION"
	ActionSendQuotation   = "SEND_QUOTATION"
	ActionConfirmQuote    = "CONFIRM_QUOTATION"
	ActionDeclineQuote    = "DECLINE_QUOTATION"
	ActionExpireQuote     = "EXPIRE_QUOTATION"

	ActionCreateOrder   = "CREATE_ORDER"
	ActionStartOrder    = "START_ORDER"
	ActionCompleteOrder = "COMPLETE_ORDER"
	ActionCancelOrder   = "CANCEL_ORDER"

	ActionSchedulePickup = "SCHEDULE_PICKUP"
	ActionStartPickup    = "START_PICKUP"
	ActionCompletePickup = "COMPLETE_PICKUP"
	ActionCompleteReturn = "COMPLETE_RETURN"

	ActionCreateApprovalRequest = "CREATE_APPROVAL_REQUEST"
	ActionApproveRequest        = "APPROVE_REQUEST"
	ActionRejectRequest         = "REJECT_REQUEST"

	ActionCollectAdvance = "COLLECT_ADVANCE"
	ActionPayBalance     = "PAY_BALANCE"
)

// AuditLog tracks Who, What, and When for every state transition.
// Rows are written inside the mutating transaction so a failed transition
// leaves no trace.
type AuditLog struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID      *uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	User        *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Action      string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityType  string     `gorm:"type:varchar(50);not null;index" json:"entity_type"`
	EntityID    string     `gorm:"type:varchar(50);index" json:"entity_id"`
	OldValue    string     `gorm:"type:varchar(100)" json:"old_value"`
	NewValue    string     `gorm:"type:varchar(100)" json:"new_value"`
	Description string     `gorm:"type:text" json:"description"`
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`
}
