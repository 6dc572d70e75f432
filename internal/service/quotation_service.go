package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"rentalhub/internal/model"
	"rentalhub/internal/pricing"
	"rentalhub/internal/repository"
)

// QuotationConfig carries the pricing defaults and the approval threshold.
// A quotation whose total is greater than or equal to Threshold cannot be
// confirmed until an admin approves it.
type QuotationConfig struct {
	ApprovalThreshold decimal.Decimal
	DefaultCGSTRate   decimal.Decimal
	DefaultSGSTRate   decimal.Decimal
	DefaultIGSTRate   decimal.Decimal
	VendorState       string
}

type QuotationService interface {
	Create(ctx context.Context, actor Actor, now time.Time, req CreateQuotationRequest) (*model.Quotation, error)
	AddLine(ctx context.Context, actor Actor, now time.Time, quotationID uuid.UUID, req QuotationLineRequest) (*model.Quotation, error)
	RemoveLine(ctx context.Context, actor Actor, now time.Time, quotationID, lineID uuid.UUID) (*model.Quotation, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Quotation, error)
	List(ctx context.Context, customerID *uuid.UUID, status string, page, limit int) ([]model.Quotation, int64, error)

	// Send moves draft → sent and, when the total crosses the approval
	// threshold, opens a pending approval request.
	Send(ctx context.Context, actor Actor, now time.Time, id uuid.UUID) (*model.Quotation, error)

	// Confirm converts a sent quotation into a rental order: copies the
	// lines, reserves stock all-or-nothing, recomputes totals, and raises
	// the advance invoice. Runs in one transaction with bounded retry on
	// serialization conflicts.
	Confirm(ctx context.Context, actor Actor, now time.Time, id uuid.UUID) (*model.RentalOrder, error)

	Decline(ctx context.Context, actor Actor, now time.Time, id uuid.UUID) (*model.Quotation, error)
}

type quotationService struct {
	cfg          QuotationConfig
	tx           repository.TransactionManager
	quotations   repository.QuotationRepository
	orders       repository.OrderRepository
	products     repository.ProductRepository
	policies     repository.PolicyRepository
	approvals    repository.ApprovalRepository
	invoices     repository.InvoiceRepository
	users        repository.UserRepository
	audit        repository.AuditRepository
	sequences    repository.SequenceRepository
	reservations ReservationService
	notifier     Notifier
}

func NewQuotationService(
	cfg QuotationConfig,
	tx repository.TransactionManager,
	quotations repository.QuotationRepository,
	orders repository.OrderRepository,
	products repository.ProductRepository,
	policies repository.PolicyRepository,
	approvals repository.ApprovalRepository,
	invoices repository.InvoiceRepository,
	users repository.UserRepository,
	audit repository.AuditRepository,
	sequences repository.SequenceRepository,
	reservations ReservationService,
	notifier Notifier,
) QuotationService {
	return &quotationService{
		cfg:          cfg,
		tx:           tx,
		quotations:   quotations,
		orders:       orders,
		products:     products,
		policies:     policies,
		approvals:    approvals,
		invoices:     invoices,
		users:        users,
		audit:        audit,
		sequences:    sequences,
		reservations: reservations,
		notifier:     notifier,
	}
}

func (s *quotationService) Create(ctx context.Context, actor Actor, now time.Time, req CreateQuotationRequest) (*model.Quotation, error) {
	if err := actor.require(capManageQuotation); err != nil {
		return nil, err
	}
	if req.ValidUntil.Before(now) {
		return nil, NewValidationError("valid_until", "must not be in the past")
	}
	if req.AdvancePercentage.IsNegative() || req.AdvancePercentage.GreaterThan(decimal.NewFromInt(100)) {
		return nil, NewValidationError("advance_percentage", "must be between 0 and 100")
	}
	for i := range req.Lines {
		if err := validateLineRequest(&req.Lines[i]); err != nil {
			return nil, err
		}
	}

	var quotation *model.Quotation
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		number, err := s.sequences.NextNumber(txCtx, "QT", now)
		if err != nil {
			return err
		}

		quotation = &model.Quotation{
			QuotationNumber:   number,
			CustomerID:        req.CustomerID,
			Status:            model.QuotationDraft,
			ValidUntil:        req.ValidUntil,
			DiscountAmount:    req.DiscountAmount,
			AdvancePercentage: req.AdvancePercentage,
			ApprovalStatus:    model.ApprovalNotRequired,
			Notes:             req.Notes,
		}
		if err := s.quotations.Create(txCtx, quotation); err != nil {
			return err
		}

		for i := range req.Lines {
			if _, err := s.addLine(txCtx, quotation, &req.Lines[i]); err != nil {
				return err
			}
		}
		if err := s.recalculate(txCtx, now, quotation); err != nil {
			return err
		}

		return s.writeAudit(txCtx, actor, model.ActionCreateQuotation, "quotation", quotation.ID.String(), "", model.QuotationDraft, "")
	})
	if err != nil {
		return nil, err
	}
	return s.quotations.FindByIDWithLines(ctx, quotation.ID)
}

func (s *quotationService) AddLine(ctx context.Context, actor Actor, now time.Time, quotationID uuid.UUID, req QuotationLineRequest) (*model.Quotation, error) {
	if err := actor.require(capManageQuotation); err != nil {
		return nil, err
	}
	if err := validateLineRequest(&req); err != nil {
		return nil, err
	}

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		quotation, err := s.quotations.FindByID(txCtx, quotationID)
		if err != nil {
			return err
		}
		if quotation.Status != model.QuotationDraft {
			return &StateError{Entity: "quotation", Current: quotation.Status, Action: "edit"}
		}
		if _, err := s.addLine(txCtx, quotation, &req); err != nil {
			return err
		}
		return s.recalculate(txCtx, now, quotation)
	})
	if err != nil {
		return nil, err
	}
	return s.quotations.FindByIDWithLines(ctx, quotationID)
}

func (s *quotationService) RemoveLine(ctx context.Context, actor Actor, now time.Time, quotationID, lineID uuid.UUID) (*model.Quotation, error) {
	if err := actor.require(capManageQuotation); err != nil {
		return nil, err
	}

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		quotation, err := s.quotations.FindByID(txCtx, quotationID)
		if err != nil {
			return err
		}
		if quotation.Status != model.QuotationDraft {
			return &StateError{Entity: "quotation", Current: quotation.Status, Action: "edit"}
		}
		line, err := s.quotations.FindLineByID(txCtx, lineID)
		if err != nil {
			return err
		}
		if line.QuotationID != quotationID {
			return NewValidationError("line_id", "line does not belong to quotation")
		}
		if err := s.quotations.DeleteLine(txCtx, lineID); err != nil {
			return err
		}
		return s.recalculate(txCtx, now, quotation)
	})
	if err != nil {
		return nil, err
	}
	return s.quotations.FindByIDWithLines(ctx, quotationID)
}

func (s *quotationService) Get(ctx context.Context, id uuid.UUID) (*model.Quotation, error) {
	return s.quotations.FindByIDWithLines(ctx, id)
}

func (s *quotationService) List(ctx context.Context, customerID *uuid.UUID, status string, page, limit int) ([]model.Quotation, int64, error) {
	return s.quotations.List(ctx, customerID, status, page, limit)
}

func (s *quotationService) Send(ctx context.Context, actor Actor, now time.Time, id uuid.UUID) (*model.Quotation, error) {
	if err := actor.require(capManageQuotation); err != nil {
		return nil, err
	}

	var quotation *model.Quotation
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		quotation, err = s.quotations.FindByIDWithLines(txCtx, id)
		if err != nil {
			return err
		}
		if quotation.Status != model.QuotationDraft {
			return &StateError{Entity: "quotation", Current: quotation.Status, Action: "send"}
		}
		if len(quotation.Lines) == 0 {
			return NewValidationError("lines", "quotation has no lines")
		}

		if err := s.recalculate(txCtx, now, quotation); err != nil {
			return err
		}

		quotation.Status = model.QuotationSent
		if quotation.Total.GreaterThanOrEqual(s.cfg.ApprovalThreshold) {
			quotation.RequiresApproval = true
			quotation.ApprovalStatus = model.ApprovalPending
			if err := s.openApprovalRequest(txCtx, actor, now, quotation); err != nil {
				return err
			}
		}
		if err := s.quotations.Save(txCtx, quotation); err != nil {
			return err
		}
		return s.writeAudit(txCtx, actor, model.ActionSendQuotation, "quotation", id.String(),
			model.QuotationDraft, model.QuotationSent, "")
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Publish(EventQuotationSent, quotation)
	return quotation, nil
}

func (s *quotationService) Confirm(ctx context.Context, actor Actor, now time.Time, id uuid.UUID) (*model.RentalOrder, error) {
	if err := actor.require(capConfirmQuote); err != nil {
		return nil, err
	}

	// The expiry flip must outlive the failed confirm, so it commits in its
	// own transaction before the conversion starts.
	if err := s.expireIfPast(ctx, actor, now, id); err != nil {
		return nil, err
	}

	var order *model.RentalOrder
	err := runInTxWithRetry(ctx, s.tx, func(txCtx context.Context) error {
		order = nil

		quotation, err := s.quotations.FindByIDWithLines(txCtx, id)
		if err != nil {
			return err
		}
		if quotation.Status != model.QuotationSent {
			return &StateError{Entity: "quotation", Current: quotation.Status, Action: "confirm"}
		}
		if quotation.RequiresApproval && quotation.ApprovalStatus != model.ApprovalApproved {
			return &StateError{Entity: "quotation", Current: "approval " + quotation.ApprovalStatus, Action: "confirm"}
		}
		if len(quotation.Lines) == 0 {
			return NewValidationError("lines", "quotation has no lines")
		}

		vendorID, err := s.vendorFor(txCtx, quotation.Lines[0].ProductID)
		if err != nil {
			return err
		}

		orderNumber, err := s.sequences.NextNumber(txCtx, "ORD", now)
		if err != nil {
			return err
		}

		order = &model.RentalOrder{
			OrderNumber:       orderNumber,
			QuotationID:       &quotation.ID,
			CustomerID:        quotation.CustomerID,
			VendorID:          vendorID,
			Status:            model.OrderConfirmed,
			Subtotal:          quotation.Subtotal,
			DiscountAmount:    quotation.DiscountAmount,
			TaxAmount:         quotation.TaxAmount,
			Total:             quotation.Total,
			AdvancePercentage: quotation.AdvancePercentage,
			AdvanceAmount:     quotation.AdvanceAmount,
			ApprovalStatus:    quotation.ApprovalStatus,
			RequiresApproval:  quotation.RequiresApproval,
			ApprovedByID:      quotation.ApprovedByID,
			ApprovedAt:        quotation.ApprovedAt,
			ConfirmedAt:       &now,
		}
		if err := s.orders.Create(txCtx, order); err != nil {
			return err
		}

		// Copy lines and reserve stock. Any oversell aborts the whole
		// transaction, so no partial reservations survive.
		for i := range quotation.Lines {
			ql := &quotation.Lines[i]
			line := &model.RentalOrderLine{
				RentalOrderID:    order.ID,
				ProductID:        ql.ProductID,
				ProductVariantID: ql.ProductVariantID,
				RentalStartDate:  ql.RentalStartDate,
				RentalEndDate:    ql.RentalEndDate,
				Quantity:         ql.Quantity,
				UnitPrice:        ql.UnitPrice,
				LineTotal:        ql.LineTotal,
			}
			if err := s.orders.CreateLine(txCtx, line); err != nil {
				return err
			}
			if _, err := s.reservations.ReserveLine(txCtx, line); err != nil {
				return err
			}
		}

		if err := s.raiseAdvanceInvoice(txCtx, now, quotation, order); err != nil {
			return err
		}

		quotation.Status = model.QuotationConfirmed
		quotation.ConfirmedAt = &now
		if err := s.quotations.Save(txCtx, quotation); err != nil {
			return err
		}

		if err := s.writeAudit(txCtx, actor, model.ActionConfirmQuote, "quotation", id.String(),
			model.QuotationSent, model.QuotationConfirmed, ""); err != nil {
			return err
		}
		return s.writeAudit(txCtx, actor, model.ActionCreateOrder, "order", order.ID.String(),
			"", model.OrderConfirmed, "created from quotation "+quotation.QuotationNumber)
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Publish(EventOrderConfirmed, order)
	return s.orders.FindByIDWithLines(ctx, order.ID)
}

func (s *quotationService) Decline(ctx context.Context, actor Actor, now time.Time, id uuid.UUID) (*model.Quotation, error) {
	if err := actor.require(capManageQuotation); err != nil {
		return nil, err
	}

	var quotation *model.Quotation
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		quotation, err = s.quotations.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		if quotation.Status != model.QuotationDraft && quotation.Status != model.QuotationSent {
			return &StateError{Entity: "quotation", Current: quotation.Status, Action: "decline"}
		}
		prev := quotation.Status
		quotation.Status = model.QuotationCancelled
		if err := s.quotations.Save(txCtx, quotation); err != nil {
			return err
		}
		return s.writeAudit(txCtx, actor, model.ActionDeclineQuote, "quotation", id.String(),
			prev, model.QuotationCancelled, "")
	})
	if err != nil {
		return nil, err
	}
	return quotation, nil
}

// expireIfPast flips a sent quotation whose validity has passed to expired
// and records the audit row. The flip commits on its own: returning the
// StateError from inside the confirm transaction would roll it back.
func (s *quotationService) expireIfPast(ctx context.Context, actor Actor, now time.Time, id uuid.UUID) error {
	var isExpired bool
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		quotation, err := s.quotations.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		if quotation.Status != model.QuotationSent || !expired(quotation.ValidUntil, now) {
			return nil
		}
		isExpired = true
		quotation.Status = model.QuotationExpired
		if err := s.quotations.Save(txCtx, quotation); err != nil {
			return err
		}
		return s.writeAudit(txCtx, actor, model.ActionExpireQuote, "quotation", id.String(),
			model.QuotationSent, model.QuotationExpired, "validity period passed")
	})
	if err != nil {
		return err
	}
	if isExpired {
		return &StateError{Entity: "quotation", Current: model.QuotationExpired, Action: "confirm"}
	}
	return nil
}

// expired reports whether now is past the quotation validity. The quotation
// stays valid through the whole valid_until date.
func expired(validUntil, now time.Time) bool {
	endOfDay := time.Date(validUntil.Year(), validUntil.Month(), validUntil.Day(),
		23, 59, 59, int(time.Second-time.Nanosecond), validUntil.Location())
	return now.After(endOfDay)
}

func validateLineRequest(req *QuotationLineRequest) error {
	if req.Quantity <= 0 {
		return NewValidationError("quantity", "must be positive")
	}
	if !req.RentalStartDate.Before(req.RentalEndDate) {
		return NewValidationError("rental_window", "start must be before end")
	}
	if req.UnitPrice.IsNegative() {
		return NewValidationError("unit_price", "must not be negative")
	}
	return nil
}

// addLine resolves the unit price (explicit price wins, otherwise the
// product/variant daily rate) and persists the line.
func (s *quotationService) addLine(ctx context.Context, quotation *model.Quotation, req *QuotationLineRequest) (*model.QuotationLine, error) {
	product, err := s.products.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	unitPrice := req.UnitPrice
	if unitPrice.IsZero() {
		unitPrice = product.DailyRate
		if req.ProductVariantID != nil {
			variant, err := s.products.FindVariantByID(ctx, *req.ProductVariantID)
			if err != nil {
				return nil, err
			}
			unitPrice = variant.DailyRate
		}
	}

	line := &model.QuotationLine{
		QuotationID:      quotation.ID,
		ProductID:        req.ProductID,
		ProductVariantID: req.ProductVariantID,
		RentalStartDate:  req.RentalStartDate,
		RentalEndDate:    req.RentalEndDate,
		Quantity:         req.Quantity,
		UnitPrice:        unitPrice,
		LineTotal:        pricing.LineTotal(req.Quantity, unitPrice),
	}
	if err := s.quotations.CreateLine(ctx, line); err != nil {
		return nil, err
	}
	quotation.Lines = append(quotation.Lines, *line)
	return line, nil
}

// recalculate recomputes subtotal, tax, total, and advance from the current
// lines. GST rates come from the first line's category configuration, with
// the default configuration (then the static defaults) as fallback.
func (s *quotationService) recalculate(ctx context.Context, now time.Time, quotation *model.Quotation) error {
	fresh, err := s.quotations.FindByIDWithLines(ctx, quotation.ID)
	if err != nil {
		return err
	}
	quotation.Lines = fresh.Lines

	inputs := make([]pricing.LineInput, 0, len(quotation.Lines))
	for _, l := range quotation.Lines {
		inputs = append(inputs, pricing.LineInput{Quantity: l.Quantity, UnitPrice: l.UnitPrice})
	}

	cgst, sgst, igst := s.cfg.DefaultCGSTRate, s.cfg.DefaultSGSTRate, s.cfg.DefaultIGSTRate
	var categoryID *uuid.UUID
	if len(quotation.Lines) > 0 {
		product, err := s.products.FindByID(ctx, quotation.Lines[0].ProductID)
		if err != nil {
			return err
		}
		categoryID = product.CategoryID
	}
	if cfg, err := s.policies.FindActiveGSTConfig(ctx, categoryID, now); err == nil {
		cgst, sgst, igst = cfg.CGSTRate, cfg.SGSTRate, cfg.IGSTRate
	}

	customerState := s.cfg.VendorState
	if customer, err := s.users.FindByID(ctx, quotation.CustomerID); err == nil && customer.State != "" {
		customerState = customer.State
	}

	totals := pricing.ComputeTotals(inputs, quotation.DiscountAmount,
		decimal.Zero, decimal.Zero, decimal.Zero,
		s.cfg.VendorState, customerState, cgst, sgst, igst,
		quotation.AdvancePercentage)

	quotation.Subtotal = totals.Subtotal
	quotation.TaxAmount = totals.TaxAmount
	quotation.Total = totals.Total
	quotation.AdvanceAmount = totals.AdvanceAmount
	return s.quotations.Save(ctx, quotation)
}

func (s *quotationService) openApprovalRequest(ctx context.Context, actor Actor, now time.Time, quotation *model.Quotation) error {
	number, err := s.sequences.NextNumber(ctx, "APR", now)
	if err != nil {
		return err
	}
	req := &model.ApprovalRequest{
		RequestNumber: number,
		RequestType:   model.ApprovalReqTypeQuotation,
		QuotationID:   &quotation.ID,
		Status:        model.ApprovalPending,
		Amount:        quotation.Total,
		RequestedByID: &actor.ID,
	}
	if err := s.approvals.Create(ctx, req); err != nil {
		return err
	}
	return s.writeAudit(ctx, actor, model.ActionCreateApprovalRequest, "approval_request", req.ID.String(),
		"", model.ApprovalPending, "quotation total crossed approval threshold")
}

func (s *quotationService) raiseAdvanceInvoice(ctx context.Context, now time.Time, quotation *model.Quotation, order *model.RentalOrder) error {
	if order.AdvanceAmount.LessThanOrEqual(decimal.Zero) {
		return nil
	}

	number, err := s.sequences.NextNumber(ctx, "INV", now)
	if err != nil {
		return err
	}

	customer, err := s.users.FindByID(ctx, order.CustomerID)
	if err != nil {
		return err
	}

	invoice := &model.Invoice{
		InvoiceNumber: number,
		RentalOrderID: order.ID,
		CustomerID:    order.CustomerID,
		VendorID:      order.VendorID,
		Status:        model.InvoiceSent,
		BillingName:   customer.Username,
		BillingGSTIN:  customer.GSTIN,
		BillingState:  customer.State,
		VendorState:   s.cfg.VendorState,
		Subtotal:      order.AdvanceAmount,
		Total:         order.AdvanceAmount,
		BalanceDue:    order.AdvanceAmount,
		Notes:         "Advance for order " + order.OrderNumber,
	}
	return s.invoices.Create(ctx, invoice)
}

func (s *quotationService) vendorFor(ctx context.Context, productID uuid.UUID) (uuid.UUID, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return uuid.Nil, err
	}
	return product.VendorID, nil
}

func (s *quotationService) writeAudit(ctx context.Context, actor Actor, action, entityType, entityID, oldValue, newValue, description string) error {
	return s.audit.Create(ctx, &model.AuditLog{
		UserID:      &actor.ID,
		Action:      action,
		EntityType:  entityType,
		EntityID:    entityID,
		OldValue:    oldValue,
		NewValue:    newValue,
		Description: description,
	})
}
