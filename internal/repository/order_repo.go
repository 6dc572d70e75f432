package repository

import (
	"context"

	"rentalhub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(ctx context.Context, order *model.RentalOrder) error
	Save(ctx context.Context, order *model.RentalOrder) error
	CreateLine(ctx context.Context, line *model.RentalOrderLine) error
	SaveLine(ctx context.Context, line *model.RentalOrderLine) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.RentalOrder, error)
	FindByIDWithLines(ctx context.Context, id uuid.UUID) (*model.RentalOrder, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	List(ctx context.Context, customerID, vendorID *uuid.UUID, status string, page, limit int) ([]model.RentalOrder, int64, error)

	CreatePickup(ctx context.Context, pickup *model.Pickup) error
	SavePickup(ctx context.Context, pickup *model.Pickup) error
	FindPickupByOrder(ctx context.Context, orderID uuid.UUID) (*model.Pickup, error)
	CreateReturn(ctx context.Context, ret *model.Return) error
	SaveReturn(ctx context.Context, ret *model.Return) error
	FindReturnByOrder(ctx context.Context, orderID uuid.UUID) (*model.Return, error)
	// ListPickupsDueBetween / ListReturnsDueBetween feed the reminder sweep.
	ListPickupsDueBetween(ctx context.Context, from, to string) ([]model.Pickup, error)
	ListReturnsDueBetween(ctx context.Context, from, to string) ([]model.Return, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *model.RentalOrder) error {
	return GetDB(ctx, r.db).Create(order).Error
}

func (r *orderRepository) Save(ctx context.Context, order *model.RentalOrder) error {
	return GetDB(ctx, r.db).Save(order).Error
}

func (r *orderRepository) CreateLine(ctx context.Context, line *model.RentalOrderLine) error {
	return GetDB(ctx, r.db).Create(line).Error
}

func (r *orderRepository) SaveLine(ctx context.Context, line *model.RentalOrderLine) error {
	return GetDB(ctx, r.db).Save(line).Error
}

func (r *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.RentalOrder, error) {
	var order model.RentalOrder
	if err := GetDB(ctx, r.db).First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindByIDWithLines(ctx context.Context, id uuid.UUID) (*model.RentalOrder, error) {
	var order model.RentalOrder
	if err := GetDB(ctx, r.db).
		Preload("Lines").
		Preload("Lines.Product").
		Preload("Customer").
		Preload("Vendor").
		First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return GetDB(ctx, r.db).Model(&model.RentalOrder{}).Where("id = ?", id).Update("status", status).Error
}

func (r *orderRepository) List(ctx context.Context, customerID, vendorID *uuid.UUID, status string, page, limit int) ([]model.RentalOrder, int64, error) {
	var orders []model.RentalOrder
	var total int64

	db := GetDB(ctx, r.db)
	applyFilters := func(q *gorm.DB) *gorm.DB {
		if customerID != nil {
			q = q.Where("customer_id = ?", *customerID)
		}
		if vendorID != nil {
			q = q.Where("vendor_id = ?", *vendorID)
		}
		if status != "" {
			q = q.Where("status = ?", status)
		}
		return q
	}

	if err := applyFilters(db.Model(&model.RentalOrder{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := applyFilters(db.Preload("Lines").Preload("Customer").Preload("Vendor")).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

func (r *orderRepository) CreatePickup(ctx context.Context, pickup *model.Pickup) error {
	return GetDB(ctx, r.db).Create(pickup).Error
}

func (r *orderRepository) SavePickup(ctx context.Context, pickup *model.Pickup) error {
	return GetDB(ctx, r.db).Save(pickup).Error
}

func (r *orderRepository) FindPickupByOrder(ctx context.Context, orderID uuid.UUID) (*model.Pickup, error) {
	var pickup model.Pickup
	if err := GetDB(ctx, r.db).First(&pickup, "rental_order_id = ?", orderID).Error; err != nil {
		return nil, err
	}
	return &pickup, nil
}

func (r *orderRepository) CreateReturn(ctx context.Context, ret *model.Return) error {
	return GetDB(ctx, r.db).Create(ret).Error
}

func (r *orderRepository) SaveReturn(ctx context.Context, ret *model.Return) error {
	return GetDB(ctx, r.db).Save(ret).Error
}

func (r *orderRepository) FindReturnByOrder(ctx context.Context, orderID uuid.UUID) (*model.Return, error) {
	var ret model.Return
	if err := GetDB(ctx, r.db).First(&ret, "rental_order_id = ?", orderID).Error; err != nil {
		return nil, err
	}
	return &ret, nil
}

func (r *orderRepository) ListPickupsDueBetween(ctx context.Context, from, to string) ([]model.Pickup, error) {
	var pickups []model.Pickup
	err := GetDB(ctx, r.db).
		Where("status = ? AND scheduled_pickup_date BETWEEN ? AND ?", model.PickupPending, from, to).
		Find(&pickups).Error
	if err != nil {
		return nil, err
	}
	return pickups, nil
}

func (r *orderRepository) ListReturnsDueBetween(ctx context.Context, from, to string) ([]model.Return, error) {
	var returns []model.Return
	err := GetDB(ctx, r.db).
		Where("status = ? AND scheduled_return_date BETWEEN ? AND ?", model.ReturnPending, from, to).
		Find(&returns).Error
	if err != nil {
		return nil, err
	}
	return returns, nil
}
