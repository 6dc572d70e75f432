package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"rentalhub/internal/model"
	"rentalhub/internal/repository"
)

// BillingService records payments against invoices and keeps the order's
// paid amount in sync.
type BillingService interface {
	GetInvoice(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
	ListInvoicesByOrder(ctx context.Context, orderID uuid.UUID) ([]model.Invoice, error)
	RecordPayment(ctx context.Context, actor Actor, now time.Time, invoiceID uuid.UUID, req RecordPaymentRequest) (*model.Payment, error)
}

type billingService struct {
	tx        repository.TransactionManager
	invoices  repository.InvoiceRepository
	orders    repository.OrderRepository
	audit     repository.AuditRepository
	sequences repository.SequenceRepository
	notifier  Notifier
}

func NewBillingService(
	tx repository.TransactionManager,
	invoices repository.InvoiceRepository,
	orders repository.OrderRepository,
	audit repository.AuditRepository,
	sequences repository.SequenceRepository,
	notifier Notifier,
) BillingService {
	return &billingService{
		tx:        tx,
		invoices:  invoices,
		orders:    orders,
		audit:     audit,
		sequences: sequences,
		notifier:  notifier,
	}
}

func (s *billingService) GetInvoice(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	return s.invoices.FindByID(ctx, id)
}

func (s *billingService) ListInvoicesByOrder(ctx context.Context, orderID uuid.UUID) ([]model.Invoice, error) {
	return s.invoices.ListByOrder(ctx, orderID)
}

func (s *billingService) RecordPayment(ctx context.Context, actor Actor, now time.Time, invoiceID uuid.UUID, req RecordPaymentRequest) (*model.Payment, error) {
	if err := actor.require(capRecordPayment); err != nil {
		return nil, err
	}
	if !req.Amount.IsPositive() {
		return nil, NewValidationError("amount", "must be positive")
	}

	var payment *model.Payment
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		invoice, err := s.invoices.FindByID(txCtx, invoiceID)
		if err != nil {
			return err
		}
		if invoice.Status == model.InvoicePaid {
			return &StateError{Entity: "invoice", Current: invoice.Status, Action: "pay"}
		}
		if req.Amount.GreaterThan(invoice.BalanceDue) {
			return NewValidationError("amount", "exceeds balance due")
		}

		number, err := s.sequences.NextNumber(txCtx, "PAY", now)
		if err != nil {
			return err
		}
		method := req.Method
		if method == "" {
			method = "upi"
		}
		payment = &model.Payment{
			PaymentNumber: number,
			InvoiceID:     invoiceID,
			CustomerID:    invoice.CustomerID,
			Amount:        req.Amount,
			Method:        method,
			Status:        model.PaymentSuccess,
			PaymentDate:   now,
			Notes:         req.Notes,
		}
		if err := s.invoices.CreatePayment(txCtx, payment); err != nil {
			return err
		}

		invoice.PaidAmount = invoice.PaidAmount.Add(req.Amount)
		invoice.BalanceDue = invoice.Total.Sub(invoice.PaidAmount)
		if invoice.BalanceDue.LessThanOrEqual(decimal.Zero) {
			invoice.Status = model.InvoicePaid
			invoice.PaidAt = &now
		}
		if err := s.invoices.Save(txCtx, invoice); err != nil {
			return err
		}

		order, err := s.orders.FindByID(txCtx, invoice.RentalOrderID)
		if err != nil {
			return err
		}
		order.PaidAmount = order.PaidAmount.Add(req.Amount)
		if err := s.orders.Save(txCtx, order); err != nil {
			return err
		}

		action := model.ActionPayBalance
		if order.PaidAmount.LessThanOrEqual(order.AdvanceAmount) {
			action = model.ActionCollectAdvance
		}
		return s.audit.Create(txCtx, &model.AuditLog{
			UserID:     &actor.ID,
			Action:     action,
			EntityType: "invoice",
			EntityID:   invoiceID.String(),
			NewValue:   req.Amount.StringFixed(2),
		})
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Publish(EventPaymentReceived, payment)
	return payment, nil
}
