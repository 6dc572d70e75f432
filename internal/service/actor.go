package service

import (
	"github.com/google/uuid"

	"rentalhub/internal/model"
)

// Actor identifies who is performing a transition. Services receive the
// actor and the clock explicitly; they never reach into globals for either.
type Actor struct {
	ID   uuid.UUID
	Role model.Role
}

// Capability names used in permission checks and error messages.
const (
	capManageQuotation = "manage quotations"
	capConfirmQuote    = "confirm quotations"
	capManageOrder     = "manage orders"
	capFulfil          = "run pickups and returns"
	capDecideApproval  = "decide approval requests"
	capRecordPayment   = "record payments"
)

// can is the role capability table. Customers drive their own quotations
// and confirmations; vendors and admins run fulfilment; only admins decide
// approvals.
func (a Actor) can(capability string) bool {
	switch capability {
	case capManageQuotation, capConfirmQuote:
		return a.Role == model.RoleCustomer || a.Role == model.RoleAdmin
	case capManageOrder, capFulfil, capRecordPayment:
		return a.Role == model.RoleVendor || a.Role == model.RoleAdmin
	case capDecideApproval:
		return a.Role == model.RoleAdmin
	}
	return false
}

// require returns a PermissionError when the actor lacks the capability,
// and a ValidationError when the role itself is unknown.
func (a Actor) require(capability string) error {
	if !a.Role.Valid() {
		return NewValidationError("role", "unknown role "+string(a.Role))
	}
	if !a.can(capability) {
		return &PermissionError{Role: string(a.Role), Action: capability}
	}
	return nil
}
