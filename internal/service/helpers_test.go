package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"rentalhub/internal/model"
)

// testEnv wires every service against the in-memory fakes with a known
// customer, vendor, admin, and one product in stock.
type testEnv struct {
	store    *memStore
	tx       *fakeTxManager
	notifier *captureNotifier

	reservations ReservationService
	quotations   QuotationService
	orders       OrderService
	approvals    ApprovalService
	billing      BillingService

	customer Actor
	vendor   Actor
	admin    Actor

	customerID uuid.UUID
	vendorID   uuid.UUID
	productID  uuid.UUID
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func day(d int) time.Time {
	return time.Date(2026, time.January, d, 0, 0, 0, 0, time.UTC)
}

func newTestEnv() *testEnv {
	store := newMemStore()
	tx := &fakeTxManager{store: store}
	notifier := &captureNotifier{}

	products := &fakeProductRepo{s: store}
	reservationRepo := &fakeReservationRepo{s: store}
	quotationRepo := &fakeQuotationRepo{s: store}
	orderRepo := &fakeOrderRepo{s: store}
	approvalRepo := &fakeApprovalRepo{s: store}
	policyRepo := &fakePolicyRepo{s: store}
	invoiceRepo := &fakeInvoiceRepo{s: store}
	userRepo := &fakeUserRepo{s: store}
	auditRepo := &fakeAuditRepo{s: store}
	sequenceRepo := &fakeSequenceRepo{s: store}

	customerID := uuid.New()
	vendorID := uuid.New()
	adminID := uuid.New()
	productID := uuid.New()

	store.users[customerID] = model.User{ID: customerID, Username: "asha", Email: "asha@example.com", Role: model.RoleCustomer, State: "Maharashtra"}
	store.users[vendorID] = model.User{ID: vendorID, Username: "rentco", Email: "ops@rentco.example", Role: model.RoleVendor, State: "Maharashtra"}
	store.users[adminID] = model.User{ID: adminID, Username: "root", Email: "root@rentco.example", Role: model.RoleAdmin}

	store.products[productID] = model.Product{
		ID:             productID,
		SKU:            "CAM-001",
		Name:           "Cinema Camera",
		VendorID:       vendorID,
		OnHandQuantity: 2,
		DailyRate:      dec("100"),
	}

	cfg := QuotationConfig{
		ApprovalThreshold: dec("50000"),
		DefaultCGSTRate:   dec("9"),
		DefaultSGSTRate:   dec("9"),
		DefaultIGSTRate:   dec("18"),
		VendorState:       "Maharashtra",
	}

	reservationService := NewReservationService(products, reservationRepo)
	quotationService := NewQuotationService(cfg, tx, quotationRepo, orderRepo, products,
		policyRepo, approvalRepo, invoiceRepo, userRepo, auditRepo, sequenceRepo,
		reservationService, notifier)
	orderService := NewOrderService(cfg, tx, orderRepo, products, policyRepo,
		invoiceRepo, userRepo, auditRepo, sequenceRepo, reservationService, notifier)
	approvalService := NewApprovalService(tx, approvalRepo, quotationRepo, orderRepo, auditRepo)
	billingService := NewBillingService(tx, invoiceRepo, orderRepo, auditRepo, sequenceRepo, notifier)

	return &testEnv{
		store:        store,
		tx:           tx,
		notifier:     notifier,
		reservations: reservationService,
		quotations:   quotationService,
		orders:       orderService,
		approvals:    approvalService,
		billing:      billingService,
		customer:     Actor{ID: customerID, Role: model.RoleCustomer},
		vendor:       Actor{ID: vendorID, Role: model.RoleVendor},
		admin:        Actor{ID: adminID, Role: model.RoleAdmin},
		customerID:   customerID,
		vendorID:     vendorID,
		productID:    productID,
	}
}

// reserve inserts a reservation through the transactional path, the way the
// confirm flow does it.
func (e *testEnv) reserve(quantity int, start, end time.Time) error {
	return e.tx.RunInTx(context.Background(), func(txCtx context.Context) error {
		line := &model.RentalOrderLine{
			ID:              uuid.New(),
			RentalOrderID:   uuid.New(),
			ProductID:       e.productID,
			RentalStartDate: start,
			RentalEndDate:   end,
			Quantity:        quantity,
			UnitPrice:       dec("100"),
			LineTotal:       dec("100").Mul(decimal.NewFromInt(int64(quantity))),
		}
		if err := (&fakeOrderRepo{s: e.store}).CreateLine(txCtx, line); err != nil {
			return err
		}
		_, err := e.reservations.ReserveLine(txCtx, line)
		return err
	})
}

// confirmedOrder walks a quotation through create, send, and confirm and
// returns the resulting order.
func (e *testEnv) confirmedOrder(now time.Time, quantity int, start, end time.Time) (*model.RentalOrder, error) {
	quotation, err := e.quotations.Create(context.Background(), e.customer, now, CreateQuotationRequest{
		CustomerID: e.customerID,
		ValidUntil: now.AddDate(0, 0, 14),
		Lines: []QuotationLineRequest{{
			ProductID:       e.productID,
			RentalStartDate: start,
			RentalEndDate:   end,
			Quantity:        quantity,
		}},
	})
	if err != nil {
		return nil, err
	}
	if _, err := e.quotations.Send(context.Background(), e.customer, now, quotation.ID); err != nil {
		return nil, err
	}
	return e.quotations.Confirm(context.Background(), e.customer, now, quotation.ID)
}
