package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"rentalhub/internal/model"
)

// memStore is the shared in-memory backing for the fake repositories.
// Values are stored by value so a transaction snapshot is a plain copy.
type memStore struct {
	users        map[uuid.UUID]model.User
	products     map[uuid.UUID]model.Product
	variants     map[uuid.UUID]model.ProductVariant
	quotations   map[uuid.UUID]model.Quotation
	qlines       []model.QuotationLine
	orders       map[uuid.UUID]model.RentalOrder
	olines       []model.RentalOrderLine
	reservations []model.Reservation
	pickups      map[uuid.UUID]model.Pickup
	returns      map[uuid.UUID]model.Return
	approvals    map[uuid.UUID]model.ApprovalRequest
	invoices     map[uuid.UUID]model.Invoice
	payments     []model.Payment
	policies     []model.LateFeePolicy
	gstConfigs   []model.GSTConfiguration
	audits       []model.AuditLog
	seqs         map[string]int64
}

func newMemStore() *memStore {
	return &memStore{
		users:      make(map[uuid.UUID]model.User),
		products:   make(map[uuid.UUID]model.Product),
		variants:   make(map[uuid.UUID]model.ProductVariant),
		quotations: make(map[uuid.UUID]model.Quotation),
		orders:     make(map[uuid.UUID]model.RentalOrder),
		pickups:    make(map[uuid.UUID]model.Pickup),
		returns:    make(map[uuid.UUID]model.Return),
		approvals:  make(map[uuid.UUID]model.ApprovalRequest),
		invoices:   make(map[uuid.UUID]model.Invoice),
		seqs:       make(map[string]int64),
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *memStore) snapshot() *memStore {
	return &memStore{
		users:        cloneMap(s.users),
		products:     cloneMap(s.products),
		variants:     cloneMap(s.variants),
		quotations:   cloneMap(s.quotations),
		qlines:       append([]model.QuotationLine(nil), s.qlines...),
		orders:       cloneMap(s.orders),
		olines:       append([]model.RentalOrderLine(nil), s.olines...),
		reservations: append([]model.Reservation(nil), s.reservations...),
		pickups:      cloneMap(s.pickups),
		returns:      cloneMap(s.returns),
		approvals:    cloneMap(s.approvals),
		invoices:     cloneMap(s.invoices),
		payments:     append([]model.Payment(nil), s.payments...),
		policies:     append([]model.LateFeePolicy(nil), s.policies...),
		gstConfigs:   append([]model.GSTConfiguration(nil), s.gstConfigs...),
		audits:       append([]model.AuditLog(nil), s.audits...),
		seqs:         cloneMap(s.seqs),
	}
}

func (s *memStore) restore(snap *memStore) {
	*s = *snap
}

// fakeTxManager serializes transactions with a mutex and rolls the store
// back to its pre-transaction snapshot on error, mirroring the all-or-nothing
// behavior of a real database transaction.
type fakeTxManager struct {
	mu    sync.Mutex
	store *memStore
}

func (t *fakeTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	snap := t.store.snapshot()
	if err := fn(ctx); err != nil {
		t.store.restore(snap)
		return err
	}
	return nil
}

func ensureID(id uuid.UUID) uuid.UUID {
	if id == uuid.Nil {
		return uuid.New()
	}
	return id
}

// --- product repo ---

type fakeProductRepo struct{ s *memStore }

func (r *fakeProductRepo) Create(_ context.Context, p *model.Product) error {
	p.ID = ensureID(p.ID)
	r.s.products[p.ID] = *p
	return nil
}

func (r *fakeProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (r *fakeProductRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeProductRepo) FindVariantByID(_ context.Context, id uuid.UUID) (*model.ProductVariant, error) {
	v, ok := r.s.variants[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &v, nil
}

func (r *fakeProductRepo) List(_ context.Context, page, limit int) ([]model.Product, int64, error) {
	var out []model.Product
	for _, p := range r.s.products {
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

// --- reservation repo ---

type fakeReservationRepo struct{ s *memStore }

func (r *fakeReservationRepo) Create(_ context.Context, res *model.Reservation) error {
	res.ID = ensureID(res.ID)
	r.s.reservations = append(r.s.reservations, *res)
	return nil
}

func (r *fakeReservationRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Reservation, error) {
	for i := range r.s.reservations {
		if r.s.reservations[i].ID == id {
			res := r.s.reservations[i]
			return &res, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeReservationRepo) SumOverlapping(_ context.Context, productID uuid.UUID, variantID *uuid.UUID, start, end time.Time, excludeLineID *uuid.UUID) (int, error) {
	total := 0
	for _, res := range r.s.reservations {
		if res.ProductID != productID {
			continue
		}
		if res.Status != model.ReservationConfirmed && res.Status != model.ReservationActive {
			continue
		}
		if variantID == nil {
			if res.ProductVariantID != nil {
				continue
			}
		} else if res.ProductVariantID == nil || *res.ProductVariantID != *variantID {
			continue
		}
		if excludeLineID != nil && res.RentalOrderLineID == *excludeLineID {
			continue
		}
		// Half-open overlap check
		if res.RentalStartDate.Before(end) && start.Before(res.RentalEndDate) {
			total += res.Quantity
		}
	}
	return total, nil
}

func (r *fakeReservationRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	for i := range r.s.reservations {
		if r.s.reservations[i].ID == id {
			r.s.reservations[i].Status = status
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeReservationRepo) UpdateStatusForOrder(_ context.Context, orderID uuid.UUID, fromStatuses []string, toStatus string) error {
	lineIDs := make(map[uuid.UUID]bool)
	for _, l := range r.s.olines {
		if l.RentalOrderID == orderID {
			lineIDs[l.ID] = true
		}
	}
	from := make(map[string]bool)
	for _, st := range fromStatuses {
		from[st] = true
	}
	for i := range r.s.reservations {
		if lineIDs[r.s.reservations[i].RentalOrderLineID] && from[r.s.reservations[i].Status] {
			r.s.reservations[i].Status = toStatus
		}
	}
	return nil
}

func (r *fakeReservationRepo) ListByOrder(_ context.Context, orderID uuid.UUID) ([]model.Reservation, error) {
	lineIDs := make(map[uuid.UUID]bool)
	for _, l := range r.s.olines {
		if l.RentalOrderID == orderID {
			lineIDs[l.ID] = true
		}
	}
	var out []model.Reservation
	for _, res := range r.s.reservations {
		if lineIDs[res.RentalOrderLineID] {
			out = append(out, res)
		}
	}
	return out, nil
}

// --- quotation repo ---

type fakeQuotationRepo struct{ s *memStore }

func (r *fakeQuotationRepo) Create(_ context.Context, q *model.Quotation) error {
	q.ID = ensureID(q.ID)
	r.s.quotations[q.ID] = *q
	return nil
}

func (r *fakeQuotationRepo) Save(_ context.Context, q *model.Quotation) error {
	r.s.quotations[q.ID] = *q
	return nil
}

func (r *fakeQuotationRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Quotation, error) {
	q, ok := r.s.quotations[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	q.Lines = nil
	return &q, nil
}

func (r *fakeQuotationRepo) FindByIDWithLines(_ context.Context, id uuid.UUID) (*model.Quotation, error) {
	q, ok := r.s.quotations[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	q.Lines = nil
	for _, l := range r.s.qlines {
		if l.QuotationID == id {
			q.Lines = append(q.Lines, l)
		}
	}
	return &q, nil
}

func (r *fakeQuotationRepo) List(_ context.Context, customerID *uuid.UUID, status string, page, limit int) ([]model.Quotation, int64, error) {
	var out []model.Quotation
	for _, q := range r.s.quotations {
		if customerID != nil && q.CustomerID != *customerID {
			continue
		}
		if status != "" && q.Status != status {
			continue
		}
		out = append(out, q)
	}
	return out, int64(len(out)), nil
}

func (r *fakeQuotationRepo) CreateLine(_ context.Context, l *model.QuotationLine) error {
	l.ID = ensureID(l.ID)
	r.s.qlines = append(r.s.qlines, *l)
	return nil
}

func (r *fakeQuotationRepo) SaveLine(_ context.Context, l *model.QuotationLine) error {
	for i := range r.s.qlines {
		if r.s.qlines[i].ID == l.ID {
			r.s.qlines[i] = *l
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeQuotationRepo) FindLineByID(_ context.Context, id uuid.UUID) (*model.QuotationLine, error) {
	for i := range r.s.qlines {
		if r.s.qlines[i].ID == id {
			l := r.s.qlines[i]
			return &l, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeQuotationRepo) DeleteLine(_ context.Context, id uuid.UUID) error {
	for i := range r.s.qlines {
		if r.s.qlines[i].ID == id {
			r.s.qlines = append(r.s.qlines[:i], r.s.qlines[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// --- order repo ---

type fakeOrderRepo struct{ s *memStore }

func (r *fakeOrderRepo) Create(_ context.Context, o *model.RentalOrder) error {
	o.ID = ensureID(o.ID)
	r.s.orders[o.ID] = *o
	return nil
}

func (r *fakeOrderRepo) Save(_ context.Context, o *model.RentalOrder) error {
	saved := *o
	saved.Lines = nil
	r.s.orders[o.ID] = saved
	return nil
}

func (r *fakeOrderRepo) CreateLine(_ context.Context, l *model.RentalOrderLine) error {
	l.ID = ensureID(l.ID)
	r.s.olines = append(r.s.olines, *l)
	return nil
}

func (r *fakeOrderRepo) SaveLine(_ context.Context, l *model.RentalOrderLine) error {
	for i := range r.s.olines {
		if r.s.olines[i].ID == l.ID {
			r.s.olines[i] = *l
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*model.RentalOrder, error) {
	o, ok := r.s.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	o.Lines = nil
	return &o, nil
}

func (r *fakeOrderRepo) FindByIDWithLines(_ context.Context, id uuid.UUID) (*model.RentalOrder, error) {
	o, ok := r.s.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	o.Lines = nil
	for _, l := range r.s.olines {
		if l.RentalOrderID == id {
			o.Lines = append(o.Lines, l)
		}
	}
	return &o, nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	o, ok := r.s.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.Status = status
	r.s.orders[id] = o
	return nil
}

func (r *fakeOrderRepo) List(_ context.Context, customerID, vendorID *uuid.UUID, status string, page, limit int) ([]model.RentalOrder, int64, error) {
	var out []model.RentalOrder
	for _, o := range r.s.orders {
		if customerID != nil && o.CustomerID != *customerID {
			continue
		}
		if vendorID != nil && o.VendorID != *vendorID {
			continue
		}
		if status != "" && o.Status != status {
			continue
		}
		out = append(out, o)
	}
	return out, int64(len(out)), nil
}

func (r *fakeOrderRepo) CreatePickup(_ context.Context, p *model.Pickup) error {
	p.ID = ensureID(p.ID)
	r.s.pickups[p.ID] = *p
	return nil
}

func (r *fakeOrderRepo) SavePickup(_ context.Context, p *model.Pickup) error {
	r.s.pickups[p.ID] = *p
	return nil
}

func (r *fakeOrderRepo) FindPickupByOrder(_ context.Context, orderID uuid.UUID) (*model.Pickup, error) {
	for _, p := range r.s.pickups {
		if p.RentalOrderID == orderID {
			found := p
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeOrderRepo) CreateReturn(_ context.Context, ret *model.Return) error {
	ret.ID = ensureID(ret.ID)
	r.s.returns[ret.ID] = *ret
	return nil
}

func (r *fakeOrderRepo) SaveReturn(_ context.Context, ret *model.Return) error {
	r.s.returns[ret.ID] = *ret
	return nil
}

func (r *fakeOrderRepo) FindReturnByOrder(_ context.Context, orderID uuid.UUID) (*model.Return, error) {
	for _, ret := range r.s.returns {
		if ret.RentalOrderID == orderID {
			found := ret
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeOrderRepo) ListPickupsDueBetween(_ context.Context, from, to string) ([]model.Pickup, error) {
	fromT, _ := time.Parse(time.RFC3339, from)
	toT, _ := time.Parse(time.RFC3339, to)
	var out []model.Pickup
	for _, p := range r.s.pickups {
		if p.Status != model.PickupPending || p.ScheduledPickupDate == nil {
			continue
		}
		d := *p.ScheduledPickupDate
		if !d.Before(fromT) && !d.After(toT) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) ListReturnsDueBetween(_ context.Context, from, to string) ([]model.Return, error) {
	fromT, _ := time.Parse(time.RFC3339, from)
	toT, _ := time.Parse(time.RFC3339, to)
	var out []model.Return
	for _, ret := range r.s.returns {
		if ret.Status != model.ReturnPending {
			continue
		}
		if !ret.ScheduledReturnDate.Before(fromT) && !ret.ScheduledReturnDate.After(toT) {
			out = append(out, ret)
		}
	}
	return out, nil
}

// --- approval repo ---

type fakeApprovalRepo struct{ s *memStore }

func (r *fakeApprovalRepo) Create(_ context.Context, req *model.ApprovalRequest) error {
	req.ID = ensureID(req.ID)
	r.s.approvals[req.ID] = *req
	return nil
}

func (r *fakeApprovalRepo) Save(_ context.Context, req *model.ApprovalRequest) error {
	r.s.approvals[req.ID] = *req
	return nil
}

func (r *fakeApprovalRepo) FindByID(_ context.Context, id uuid.UUID) (*model.ApprovalRequest, error) {
	req, ok := r.s.approvals[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &req, nil
}

func (r *fakeApprovalRepo) FindByIDWithRelations(ctx context.Context, id uuid.UUID) (*model.ApprovalRequest, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeApprovalRepo) List(_ context.Context, status string, page, limit int) ([]model.ApprovalRequest, int64, error) {
	var out []model.ApprovalRequest
	for _, req := range r.s.approvals {
		if status != "" && req.Status != status {
			continue
		}
		out = append(out, req)
	}
	return out, int64(len(out)), nil
}

// --- policy repo ---

type fakePolicyRepo struct{ s *memStore }

func (r *fakePolicyRepo) CreateLateFeePolicy(_ context.Context, p *model.LateFeePolicy) error {
	p.ID = ensureID(p.ID)
	r.s.policies = append(r.s.policies, *p)
	return nil
}

func (r *fakePolicyRepo) SaveLateFeePolicy(_ context.Context, p *model.LateFeePolicy) error {
	for i := range r.s.policies {
		if r.s.policies[i].ID == p.ID {
			r.s.policies[i] = *p
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakePolicyRepo) ListActiveLateFeePolicies(_ context.Context, at time.Time) ([]model.LateFeePolicy, error) {
	var out []model.LateFeePolicy
	for _, p := range r.s.policies {
		if p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePolicyRepo) CreateGSTConfig(_ context.Context, cfg *model.GSTConfiguration) error {
	cfg.ID = ensureID(cfg.ID)
	r.s.gstConfigs = append(r.s.gstConfigs, *cfg)
	return nil
}

func (r *fakePolicyRepo) FindActiveGSTConfig(_ context.Context, categoryID *uuid.UUID, at time.Time) (*model.GSTConfiguration, error) {
	if categoryID != nil {
		for _, cfg := range r.s.gstConfigs {
			if cfg.IsActive && cfg.CategoryID != nil && *cfg.CategoryID == *categoryID {
				found := cfg
				return &found, nil
			}
		}
	}
	for _, cfg := range r.s.gstConfigs {
		if cfg.IsActive && cfg.CategoryID == nil {
			found := cfg
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// --- invoice repo ---

type fakeInvoiceRepo struct{ s *memStore }

func (r *fakeInvoiceRepo) Create(_ context.Context, inv *model.Invoice) error {
	inv.ID = ensureID(inv.ID)
	r.s.invoices[inv.ID] = *inv
	return nil
}

func (r *fakeInvoiceRepo) Save(_ context.Context, inv *model.Invoice) error {
	r.s.invoices[inv.ID] = *inv
	return nil
}

func (r *fakeInvoiceRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Invoice, error) {
	inv, ok := r.s.invoices[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &inv, nil
}

func (r *fakeInvoiceRepo) ListByOrder(_ context.Context, orderID uuid.UUID) ([]model.Invoice, error) {
	var out []model.Invoice
	for _, inv := range r.s.invoices {
		if inv.RentalOrderID == orderID {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (r *fakeInvoiceRepo) CreatePayment(_ context.Context, p *model.Payment) error {
	p.ID = ensureID(p.ID)
	r.s.payments = append(r.s.payments, *p)
	return nil
}

func (r *fakeInvoiceRepo) ListPaymentsByInvoice(_ context.Context, invoiceID uuid.UUID) ([]model.Payment, error) {
	var out []model.Payment
	for _, p := range r.s.payments {
		if p.InvoiceID == invoiceID {
			out = append(out, p)
		}
	}
	return out, nil
}

// --- audit repo ---

type fakeAuditRepo struct{ s *memStore }

func (r *fakeAuditRepo) Create(_ context.Context, e *model.AuditLog) error {
	e.ID = ensureID(e.ID)
	r.s.audits = append(r.s.audits, *e)
	return nil
}

func (r *fakeAuditRepo) ListByEntity(_ context.Context, entityType, entityID string) ([]model.AuditLog, error) {
	var out []model.AuditLog
	for _, e := range r.s.audits {
		if e.EntityType == entityType && e.EntityID == entityID {
			out = append(out, e)
		}
	}
	return out, nil
}

// --- user repo ---

type fakeUserRepo struct{ s *memStore }

func (r *fakeUserRepo) Create(_ context.Context, u *model.User) error {
	u.ID = ensureID(u.ID)
	r.s.users[u.ID] = *u
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.s.users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) CreateRefreshToken(_ context.Context, token *model.RefreshToken) error {
	return nil
}

func (r *fakeUserRepo) FindRefreshToken(_ context.Context, token string) (*model.RefreshToken, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) RevokeRefreshToken(_ context.Context, token string) error {
	return nil
}

// --- sequence repo ---

type fakeSequenceRepo struct{ s *memStore }

func (r *fakeSequenceRepo) NextNumber(_ context.Context, prefix string, now time.Time) (string, error) {
	r.s.seqs[prefix]++
	return fmt.Sprintf("%s-%s-%05d", prefix, now.Format("20060102"), r.s.seqs[prefix]), nil
}

// --- capturing notifier ---

type captureNotifier struct {
	mu     sync.Mutex
	events []string
}

func (n *captureNotifier) Publish(event string, _ any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}
