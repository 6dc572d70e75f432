package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"rentalhub/internal/model"
	"rentalhub/internal/pricing"
	"rentalhub/internal/repository"
)

// OrderService drives the rental order lifecycle. The pickup and return
// sub-workflows are the only paths between confirmed, in_progress, and
// completed: completing the pickup starts the rental, completing the return
// settles it.
type OrderService interface {
	Get(ctx context.Context, id uuid.UUID) (*model.RentalOrder, error)
	List(ctx context.Context, customerID, vendorID *uuid.UUID, status string, page, limit int) ([]model.RentalOrder, int64, error)

	SchedulePickup(ctx context.Context, actor Actor, now time.Time, orderID uuid.UUID, req SchedulePickupRequest) (*model.Pickup, error)
	StartPickup(ctx context.Context, actor Actor, now time.Time, orderID uuid.UUID) (*model.Pickup, error)

	// CompletePickup hands the items over: reservations become active, the
	// order moves to in_progress, and the return record is created with its
	// due date taken from the latest line window end.
	CompletePickup(ctx context.Context, actor Actor, now time.Time, orderID uuid.UUID, req CompletePickupRequest) (*model.Pickup, error)

	// CompleteReturn settles the rental: evaluates late fees per line,
	// completes the reservations, recomputes order money including late
	// fees and damage, and moves the order to completed.
	CompleteReturn(ctx context.Context, actor Actor, now time.Time, orderID uuid.UUID, req CompleteReturnRequest) (*model.Return, error)

	Cancel(ctx context.Context, actor Actor, now time.Time, orderID uuid.UUID) (*model.RentalOrder, error)
}

type orderService struct {
	cfg          QuotationConfig
	tx           repository.TransactionManager
	orders       repository.OrderRepository
	products     repository.ProductRepository
	policies     repository.PolicyRepository
	invoices     repository.InvoiceRepository
	users        repository.UserRepository
	audit        repository.AuditRepository
	sequences    repository.SequenceRepository
	reservations ReservationService
	notifier     Notifier
}

func NewOrderService(
	cfg QuotationConfig,
	tx repository.TransactionManager,
	orders repository.OrderRepository,
	products repository.ProductRepository,
	policies repository.PolicyRepository,
	invoices repository.InvoiceRepository,
	users repository.UserRepository,
	audit repository.AuditRepository,
	sequences repository.SequenceRepository,
	reservations ReservationService,
	notifier Notifier,
) OrderService {
	return &orderService{
		cfg:          cfg,
		tx:           tx,
		orders:       orders,
		products:     products,
		policies:     policies,
		invoices:     invoices,
		users:        users,
		audit:        audit,
		sequences:    sequences,
		reservations: reservations,
		notifier:     notifier,
	}
}

func (s *orderService) Get(ctx context.Context, id uuid.UUID) (*model.RentalOrder, error) {
	return s.orders.FindByIDWithLines(ctx, id)
}

func (s *orderService) List(ctx context.Context, customerID, vendorID *uuid.UUID, status string, page, limit int) ([]model.RentalOrder, int64, error) {
	return s.orders.List(ctx, customerID, vendorID, status, page, limit)
}

func (s *orderService) SchedulePickup(ctx context.Context, actor Actor, now time.Time, orderID uuid.UUID, req SchedulePickupRequest) (*model.Pickup, error) {
	if err := actor.require(capFulfil); err != nil {
		return nil, err
	}
	if req.ScheduledPickupDate.Before(now) {
		return nil, NewValidationError("scheduled_pickup_date", "must not be in the past")
	}

	var pickup *model.Pickup
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		order, err := s.orders.FindByID(txCtx, orderID)
		if err != nil {
			return err
		}
		if order.Status != model.OrderConfirmed {
			return &StateError{Entity: "order", Current: order.Status, Action: "schedule pickup"}
		}

		pickup, err = s.orders.FindPickupByOrder(txCtx, orderID)
		if err == nil {
			if pickup.Status != model.PickupPending {
				return &StateError{Entity: "pickup", Current: pickup.Status, Action: "reschedule"}
			}
			pickup.ScheduledPickupDate = &req.ScheduledPickupDate
			pickup.PickupNotes = req.Notes
			if err := s.orders.SavePickup(txCtx, pickup); err != nil {
				return err
			}
		} else {
			number, err := s.sequences.NextNumber(txCtx, "PU", now)
			if err != nil {
				return err
			}
			pickup = &model.Pickup{
				PickupNumber:        number,
				RentalOrderID:       orderID,
				Status:              model.PickupPending,
				ScheduledPickupDate: &req.ScheduledPickupDate,
				PickupNotes:         req.Notes,
			}
			if err := s.orders.CreatePickup(txCtx, pickup); err != nil {
				return err
			}
		}

		return s.writeAudit(txCtx, actor, model.ActionSchedulePickup, "pickup", pickup.ID.String(),
			"", model.PickupPending, "")
	})
	if err != nil {
		return nil, err
	}
	return pickup, nil
}

func (s *orderService) StartPickup(ctx context.Context, actor Actor, now time.Time, orderID uuid.UUID) (*model.Pickup, error) {
	if err := actor.require(capFulfil); err != nil {
		return nil, err
	}

	var pickup *model.Pickup
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		pickup, err = s.orders.FindPickupByOrder(txCtx, orderID)
		if err != nil {
			return err
		}
		if pickup.Status != model.PickupPending {
			return &StateError{Entity: "pickup", Current: pickup.Status, Action: "start"}
		}
		pickup.Status = model.PickupInProgress
		pickup.HandedOverByID = &actor.ID
		if err := s.orders.SavePickup(txCtx, pickup); err != nil {
			return err
		}
		return s.writeAudit(txCtx, actor, model.ActionStartPickup, "pickup", pickup.ID.String(),
			model.PickupPending, model.PickupInProgress, "")
	})
	if err != nil {
		return nil, err
	}
	return pickup, nil
}

func (s *orderService) CompletePickup(ctx context.Context, actor Actor, now time.Time, orderID uuid.UUID, req CompletePickupRequest) (*model.Pickup, error) {
	if err := actor.require(capFulfil); err != nil {
		return nil, err
	}
	if !req.ItemsChecked {
		return nil, NewValidationError("items_checked", "items must be checked before handover")
	}

	var pickup *model.Pickup
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		order, err := s.orders.FindByIDWithLines(txCtx, orderID)
		if err != nil {
			return err
		}
		if order.Status != model.OrderConfirmed {
			return &StateError{Entity: "order", Current: order.Status, Action: "complete pickup"}
		}

		pickup, err = s.orders.FindPickupByOrder(txCtx, orderID)
		switch {
		case err == nil:
			if pickup.Status != model.PickupPending && pickup.Status != model.PickupInProgress {
				return &StateError{Entity: "pickup", Current: pickup.Status, Action: "complete"}
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			// Walk-in handover with no prior schedule: create the pickup
			// record on the spot.
			number, err := s.sequences.NextNumber(txCtx, "PU", now)
			if err != nil {
				return err
			}
			pickup = &model.Pickup{
				PickupNumber:  number,
				RentalOrderID: orderID,
				Status:        model.PickupPending,
			}
			if err := s.orders.CreatePickup(txCtx, pickup); err != nil {
				return err
			}
		default:
			return err
		}

		pickup.Status = model.PickupCompleted
		pickup.ActualPickupDate = &now
		pickup.ItemsChecked = req.ItemsChecked
		pickup.CustomerIDVerified = req.CustomerIDVerified
		pickup.HandedOverByID = &actor.ID
		if req.Notes != "" {
			pickup.PickupNotes = req.Notes
		}
		if err := s.orders.SavePickup(txCtx, pickup); err != nil {
			return err
		}

		// The rental is running: block rows become active and every line
		// records the actual handover time.
		if err := s.reservations.ActivateForOrder(txCtx, orderID); err != nil {
			return err
		}
		for i := range order.Lines {
			line := order.Lines[i]
			line.ActualPickupDate = &now
			if err := s.orders.SaveLine(txCtx, &line); err != nil {
				return err
			}
		}

		order.Status = model.OrderInProgress
		if err := s.orders.Save(txCtx, order); err != nil {
			return err
		}

		// Every picked-up order gets exactly one return expectation, due
		// when the last line's window ends.
		returnNumber, err := s.sequences.NextNumber(txCtx, "RET", now)
		if err != nil {
			return err
		}
		ret := &model.Return{
			ReturnNumber:        returnNumber,
			RentalOrderID:       orderID,
			Status:              model.ReturnPending,
			ScheduledReturnDate: latestWindowEnd(order.Lines),
		}
		if err := s.orders.CreateReturn(txCtx, ret); err != nil {
			return err
		}

		if err := s.writeAudit(txCtx, actor, model.ActionCompletePickup, "pickup", pickup.ID.String(),
			model.PickupPending, model.PickupCompleted, ""); err != nil {
			return err
		}
		return s.writeAudit(txCtx, actor, model.ActionStartOrder, "order", orderID.String(),
			model.OrderConfirmed, model.OrderInProgress, "")
	})
	if err != nil {
		return nil, err
	}
	return pickup, nil
}

func (s *orderService) CompleteReturn(ctx context.Context, actor Actor, now time.Time, orderID uuid.UUID, req CompleteReturnRequest) (*model.Return, error) {
	if err := actor.require(capFulfil); err != nil {
		return nil, err
	}
	if req.DamageCost.IsNegative() {
		return nil, NewValidationError("damage_cost", "must not be negative")
	}

	var ret *model.Return
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		order, err := s.orders.FindByIDWithLines(txCtx, orderID)
		if err != nil {
			return err
		}
		if order.Status != model.OrderInProgress {
			return &StateError{Entity: "order", Current: order.Status, Action: "complete return"}
		}

		ret, err = s.orders.FindReturnByOrder(txCtx, orderID)
		if err != nil {
			return err
		}
		if ret.Status != model.ReturnPending && ret.Status != model.ReturnInProgress {
			return &StateError{Entity: "return", Current: ret.Status, Action: "complete"}
		}

		policies, err := s.policies.ListActiveLateFeePolicies(txCtx, now)
		if err != nil {
			return err
		}

		totalLateFee := decimal.Zero
		maxLateDays := 0
		for i := range order.Lines {
			line := order.Lines[i]
			line.ActualReturnDate = &now

			// Lateness is a fact about the window, recorded whether or not
			// any fee policy applies.
			if now.After(line.RentalEndDate) {
				line.IsLateReturn = true
				line.LateDays = int(now.Sub(line.RentalEndDate).Hours() / 24)
				if line.LateDays > maxLateDays {
					maxLateDays = line.LateDays
				}
			}

			product, err := s.products.FindByID(txCtx, line.ProductID)
			if err != nil {
				return err
			}
			if policy := pricing.SelectPolicy(policies, product.CategoryID); policy != nil {
				result := pricing.ComputeLateFee(*policy, line.RentalEndDate, now, line.Quantity, line.LineTotal)
				line.LateFeeCharged = result.Fee
				totalLateFee = totalLateFee.Add(result.Fee)
			}
			if err := s.orders.SaveLine(txCtx, &line); err != nil {
				return err
			}
		}

		ret.ActualReturnDate = &now
		ret.ReceivedByID = &actor.ID
		ret.AllItemsReturned = req.AllItemsReturned
		ret.ItemsDamaged = req.ItemsDamaged
		ret.DamageDescription = req.DamageDescription
		ret.DamageCost = req.DamageCost
		ret.IsLateReturn = maxLateDays > 0
		ret.LateDays = maxLateDays
		ret.LateFeeCharged = totalLateFee
		ret.ReturnNotes = req.Notes
		switch {
		case req.ItemsDamaged:
			ret.Status = model.ReturnDamaged
		case !req.AllItemsReturned:
			ret.Status = model.ReturnPartial
		default:
			ret.Status = model.ReturnCompleted
		}
		if err := s.orders.SaveReturn(txCtx, ret); err != nil {
			return err
		}

		if err := s.reservations.CompleteForOrder(txCtx, orderID); err != nil {
			return err
		}

		if err := s.settle(txCtx, now, order, totalLateFee, req.DamageCost); err != nil {
			return err
		}

		order.Status = model.OrderCompleted
		order.CompletedAt = &now
		if err := s.orders.Save(txCtx, order); err != nil {
			return err
		}

		if err := s.writeAudit(txCtx, actor, model.ActionCompleteReturn, "return", ret.ID.String(),
			model.ReturnPending, ret.Status, ""); err != nil {
			return err
		}
		return s.writeAudit(txCtx, actor, model.ActionCompleteOrder, "order", orderID.String(),
			model.OrderInProgress, model.OrderCompleted, "")
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Publish(EventReturnSettled, ret)
	return ret, nil
}

func (s *orderService) Cancel(ctx context.Context, actor Actor, now time.Time, orderID uuid.UUID) (*model.RentalOrder, error) {
	if err := actor.require(capManageOrder); err != nil {
		return nil, err
	}

	var order *model.RentalOrder
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		order, err = s.orders.FindByID(txCtx, orderID)
		if err != nil {
			return err
		}
		if order.Status != model.OrderDraft && order.Status != model.OrderConfirmed {
			return &StateError{Entity: "order", Current: order.Status, Action: "cancel"}
		}
		prev := order.Status

		// Cancelling releases the stock immediately: cancelled rows stop
		// counting against availability.
		if err := s.reservations.CancelForOrder(txCtx, orderID); err != nil {
			return err
		}

		order.Status = model.OrderCancelled
		if err := s.orders.Save(txCtx, order); err != nil {
			return err
		}
		return s.writeAudit(txCtx, actor, model.ActionCancelOrder, "order", orderID.String(),
			prev, model.OrderCancelled, "")
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// settle recomputes the final money for the order with late fees and damage
// in the taxable base, then raises or updates the settlement invoice for the
// balance over what was already paid.
func (s *orderService) settle(ctx context.Context, now time.Time, order *model.RentalOrder, lateFee, damageCost decimal.Decimal) error {
	cgst, sgst, igst := s.cfg.DefaultCGSTRate, s.cfg.DefaultSGSTRate, s.cfg.DefaultIGSTRate
	var categoryID *uuid.UUID
	if len(order.Lines) > 0 {
		product, err := s.products.FindByID(ctx, order.Lines[0].ProductID)
		if err != nil {
			return err
		}
		categoryID = product.CategoryID
	}
	if cfg, err := s.policies.FindActiveGSTConfig(ctx, categoryID, now); err == nil {
		cgst, sgst, igst = cfg.CGSTRate, cfg.SGSTRate, cfg.IGSTRate
	}

	customer, err := s.users.FindByID(ctx, order.CustomerID)
	if err != nil {
		return err
	}
	customerState := customer.State
	if customerState == "" {
		customerState = s.cfg.VendorState
	}

	inputs := make([]pricing.LineInput, 0, len(order.Lines))
	for _, l := range order.Lines {
		inputs = append(inputs, pricing.LineInput{Quantity: l.Quantity, UnitPrice: l.UnitPrice})
	}

	totals := pricing.ComputeTotals(inputs, order.DiscountAmount,
		lateFee, damageCost, decimal.Zero,
		s.cfg.VendorState, customerState, cgst, sgst, igst,
		order.AdvancePercentage)

	order.Subtotal = totals.Subtotal
	order.TaxAmount = totals.TaxAmount
	order.LateFee = lateFee
	order.Total = totals.Total

	balance := totals.Total.Sub(order.PaidAmount)
	if balance.LessThanOrEqual(decimal.Zero) {
		return nil
	}

	number, err := s.sequences.NextNumber(ctx, "INV", now)
	if err != nil {
		return err
	}
	taxable := pricing.TaxableBase(totals.Subtotal, order.DiscountAmount, lateFee, damageCost, decimal.Zero)
	gst := pricing.ComputeGST(taxable, s.cfg.VendorState, customerState, cgst, sgst, igst)

	invoice := &model.Invoice{
		InvoiceNumber:  number,
		RentalOrderID:  order.ID,
		CustomerID:     order.CustomerID,
		VendorID:       order.VendorID,
		Status:         model.InvoiceSent,
		BillingName:    customer.Username,
		BillingGSTIN:   customer.GSTIN,
		BillingState:   customerState,
		VendorState:    s.cfg.VendorState,
		Subtotal:       totals.Subtotal,
		DiscountAmount: order.DiscountAmount,
		LateFee:        lateFee,
		DamageCharges:  damageCost,
		IsIntrastate:   gst.IsIntrastate,
		CGSTRate:       cgst,
		SGSTRate:       sgst,
		IGSTRate:       igst,
		CGSTAmount:     gst.CGST,
		SGSTAmount:     gst.SGST,
		IGSTAmount:     gst.IGST,
		TaxAmount:      gst.TotalTax,
		Total:          totals.Total,
		PaidAmount:     order.PaidAmount,
		BalanceDue:     balance,
		Notes:          "Settlement for order " + order.OrderNumber,
	}
	if err := s.invoices.Create(ctx, invoice); err != nil {
		return err
	}
	order.Invoiced = true
	return nil
}

// latestWindowEnd picks the return due date: the latest rental end across
// the order lines.
func latestWindowEnd(lines []model.RentalOrderLine) time.Time {
	var latest time.Time
	for _, l := range lines {
		if l.RentalEndDate.After(latest) {
			latest = l.RentalEndDate
		}
	}
	return latest
}

func (s *orderService) writeAudit(ctx context.Context, actor Actor, action, entityType, entityID, oldValue, newValue, description string) error {
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
