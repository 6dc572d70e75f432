package repository

import (
	"context"
	"time"

	"rentalhub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReservationRepository interface {
	Create(ctx context.Context, res *model.Reservation) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Reservation, error)
	// SumOverlapping totals the quantities of confirmed/active reservations
	// whose window overlaps [start, end) for the product (or its variant).
	// excludeLineID skips reservations belonging to that order line so a
	// line's own block does not count against its re-validation.
	SumOverlapping(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID, start, end time.Time, excludeLineID *uuid.UUID) (int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	// UpdateStatusForOrder transitions every reservation of the order whose
	// status is in fromStatuses.
	UpdateStatusForOrder(ctx context.Context, orderID uuid.UUID, fromStatuses []string, toStatus string) error
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]model.Reservation, error)
}

type reservationRepository struct {
	db *gorm.DB
}

func NewReservationRepository(db *gorm.DB) ReservationRepository {
	return &reservationRepository{db: db}
}

func (r *reservationRepository) Create(ctx context.Context, res *model.Reservation) error {
	return GetDB(ctx, r.db).Create(res).Error
}

func (r *reservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Reservation, error) {
	var res model.Reservation
	if err := GetDB(ctx, r.db).First(&res, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *reservationRepository) SumOverlapping(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID, start, end time.Time, excludeLineID *uuid.UUID) (int, error) {
	// Half-open overlap: [s1,e1) and [s2,e2) overlap iff s1 < e2 && s2 < e1,
	// so back-to-back windows never collide.
	query := GetDB(ctx, r.db).Model(&model.Reservation{}).
		Where("product_id = ?", productID).
		Where("status IN ?", []string{model.ReservationConfirmed, model.ReservationActive}).
		Where("rental_start_date < ? AND ? < rental_end_date", end, start)

	if variantID != nil {
		query = query.Where("product_variant_id = ?", *variantID)
	} else {
		query = query.Where("product_variant_id IS NULL")
	}
	if excludeLineID != nil {
		query = query.Where("rental_order_line_id != ?", *excludeLineID)
	}

	var total int64
	if err := query.Select("COALESCE(SUM(quantity), 0)").Scan(&total).Error; err != nil {
		return 0, err
	}
	return int(total), nil
}

func (r *reservationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return GetDB(ctx, r.db).Model(&model.Reservation{}).Where("id = ?", id).Update("status", status).Error
}

func (r *reservationRepository) UpdateStatusForOrder(ctx context.Context, orderID uuid.UUID, fromStatuses []string, toStatus string) error {
	return GetDB(ctx, r.db).Model(&model.Reservation{}).
		Where("rental_order_line_id IN (?)",
			GetDB(ctx, r.db).Model(&model.RentalOrderLine{}).Select("id").Where("rental_order_id = ?", orderID)).
		Where("status IN ?", fromStatuses).
		Update("status", toStatus).Error
}

func (r *reservationRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]model.Reservation, error) {
	var reservations []model.Reservation
	err := GetDB(ctx, r.db).
		Joins("JOIN rental_order_lines ON rental_order_lines.id = reservations.rental_order_line_id").
		Where("rental_order_lines.rental_order_id = ?", orderID).
		Find(&reservations).Error
	if err != nil {
		return nil, err
	}
	return reservations, nil
}
