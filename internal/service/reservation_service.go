package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"rentalhub/internal/model"
	"rentalhub/internal/repository"
)

// ReservationService owns the availability math and the reservation rows.
// The reserve path must run inside a transaction: it locks the product row,
// re-checks availability under the lock, and only then inserts, so two
// concurrent reserves for the last unit cannot both succeed.
type ReservationService interface {
	// AvailableQuantity is the lock-free read used by availability queries:
	// on-hand minus overlapping confirmed/active reservation quantities.
	AvailableQuantity(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID, start, end time.Time) (int, error)

	// ReserveLine blocks stock for one order line. Callers must invoke it
	// inside a TransactionManager.RunInTx scope.
	ReserveLine(ctx context.Context, line *model.RentalOrderLine) (*model.Reservation, error)

	ActivateForOrder(ctx context.Context, orderID uuid.UUID) error
	CompleteForOrder(ctx context.Context, orderID uuid.UUID) error
	CancelForOrder(ctx context.Context, orderID uuid.UUID) error
}

type reservationService struct {
	products     repository.ProductRepository
	reservations repository.ReservationRepository
}

func NewReservationService(products repository.ProductRepository, reservations repository.ReservationRepository) ReservationService {
	return &reservationService{products: products, reservations: reservations}
}

func validateWindow(start, end time.Time) error {
	if !start.Before(end) {
		return NewValidationError("rental_window", "start must be before end")
	}
	return nil
}

func (s *reservationService) AvailableQuantity(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID, start, end time.Time) (int, error) {
	if err := validateWindow(start, end); err != nil {
		return 0, err
	}

	onHand, _, err := s.onHand(ctx, productID, variantID, false)
	if err != nil {
		return 0, err
	}

	reserved, err := s.reservations.SumOverlapping(ctx, productID, variantID, start, end, nil)
	if err != nil {
		return 0, err
	}

	free := onHand - reserved
	if free < 0 {
		free = 0
	}
	return free, nil
}

func (s *reservationService) ReserveLine(ctx context.Context, line *model.RentalOrderLine) (*model.Reservation, error) {
	if line.Quantity <= 0 {
		return nil, NewValidationError("quantity", "must be positive")
	}
	if err := validateWindow(line.RentalStartDate, line.RentalEndDate); err != nil {
		return nil, err
	}

	// Lock the product row so concurrent reserves serialize, then re-check
	// availability under the lock before inserting.
	onHand, name, err := s.onHand(ctx, line.ProductID, line.ProductVariantID, true)
	if err != nil {
		return nil, err
	}

	reserved, err := s.reservations.SumOverlapping(ctx, line.ProductID, line.ProductVariantID,
		line.RentalStartDate, line.RentalEndDate, &line.ID)
	if err != nil {
		return nil, err
	}

	free := onHand - reserved
	if free < 0 {
		free = 0
	}
	if line.Quantity > free {
		return nil, &OversellError{ProductName: name, Requested: line.Quantity, Available: free}
	}

	res := &model.Reservation{
		RentalOrderLineID: line.ID,
		ProductID:         line.ProductID,
		ProductVariantID:  line.ProductVariantID,
		RentalStartDate:   line.RentalStartDate,
		RentalEndDate:     line.RentalEndDate,
		Quantity:          line.Quantity,
		Status:            model.ReservationConfirmed,
	}
	if err := s.reservations.Create(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *reservationService) ActivateForOrder(ctx context.Context, orderID uuid.UUID) error {
	return s.reservations.UpdateStatusForOrder(ctx, orderID,
		[]string{model.ReservationConfirmed}, model.ReservationActive)
}

func (s *reservationService) CompleteForOrder(ctx context.Context, orderID uuid.UUID) error {
	return s.reservations.UpdateStatusForOrder(ctx, orderID,
		[]string{model.ReservationConfirmed, model.ReservationActive}, model.ReservationCompleted)
}

func (s *reservationService) CancelForOrder(ctx context.Context, orderID uuid.UUID) error {
	return s.reservations.UpdateStatusForOrder(ctx, orderID,
		[]string{model.ReservationConfirmed, model.ReservationActive}, model.ReservationCancelled)
}

// onHand resolves the stock pool: the variant's own stock when a variant is
// rented, otherwise the product's. forUpdate locks the product row.
func (s *reservationService) onHand(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID, forUpdate bool) (int, string, error) {
	var product *model.Product
	var err error
	if forUpdate {
		product, err = s.products.FindByIDForUpdate(ctx, productID)
	} else {
		product, err = s.products.FindByID(ctx, productID)
	}
	if err != nil {
		return 0, "", err
	}

	if variantID != nil {
		variant, err := s.products.FindVariantByID(ctx, *variantID)
		if err != nil {
			return 0, "", err
		}
		return variant.OnHandQuantity, product.Name + " / " + variant.Name, nil
	}
	return product.OnHandQuantity, product.Name, nil
}
