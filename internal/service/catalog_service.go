package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"rentalhub/internal/model"
	"rentalhub/internal/repository"
)

type CreateProductRequest struct {
	SKU            string          `json:"sku" binding:"required"`
	Name           string          `json:"name" binding:"required"`
	VendorID       uuid.UUID       `json:"vendor_id" binding:"required"`
	CategoryID     *uuid.UUID      `json:"category_id"`
	OnHandQuantity int             `json:"on_hand_quantity"`
	DailyRate      decimal.Decimal `json:"daily_rate"`
}

type CreateLateFeePolicyRequest struct {
	Name                 string           `json:"name" binding:"required"`
	Description          string           `json:"description"`
	GracePeriodHours     int              `json:"grace_period_hours"`
	Method               string           `json:"method" binding:"required"`
	PenaltyRatePerDay    decimal.Decimal  `json:"penalty_rate_per_day"`
	PenaltyRatePerHour   decimal.Decimal  `json:"penalty_rate_per_hour"`
	PenaltyPercentage    decimal.Decimal  `json:"penalty_percentage"`
	MaxPenaltyCap        *decimal.Decimal `json:"max_penalty_cap"`
	AppliesToAllProducts bool             `json:"applies_to_all_products"`
	CategoryID           *uuid.UUID       `json:"category_id"`
}

// CatalogService manages products and the pricing configuration
// (GST rates, late-fee policies).
type CatalogService interface {
	CreateProduct(ctx context.Context, actor Actor, req CreateProductRequest) (*model.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error)
	ListProducts(ctx context.Context, page, limit int) ([]model.Product, int64, error)

	CreateLateFeePolicy(ctx context.Context, actor Actor, req CreateLateFeePolicyRequest) (*model.LateFeePolicy, error)
	CreateGSTConfig(ctx context.Context, actor Actor, cfg *model.GSTConfiguration) error

	// Availability is the read-only query behind the availability endpoint:
	// free units of a product for a half-open window.
	Availability(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID, start, end time.Time) (int, error)
}

type catalogService struct {
	products     repository.ProductRepository
	policies     repository.PolicyRepository
	reservations ReservationService
}

func NewCatalogService(products repository.ProductRepository, policies repository.PolicyRepository, reservations ReservationService) CatalogService {
	return &catalogService{products: products, policies: policies, reservations: reservations}
}

func (s *catalogService) CreateProduct(ctx context.Context, actor Actor, req CreateProductRequest) (*model.Product, error) {
	if actor.Role != model.RoleVendor && actor.Role != model.RoleAdmin {
		return nil, &PermissionError{Role: string(actor.Role), Action: "manage the catalog"}
	}
	if req.OnHandQuantity < 0 {
		return nil, NewValidationError("on_hand_quantity", "must not be negative")
	}
	if req.DailyRate.IsNegative() {
		return nil, NewValidationError("daily_rate", "must not be negative")
	}

	product := &model.Product{
		SKU:            req.SKU,
		Name:           req.Name,
		VendorID:       req.VendorID,
		CategoryID:     req.CategoryID,
		OnHandQuantity: req.OnHandQuantity,
		DailyRate:      req.DailyRate,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return s.products.FindByID(ctx, id)
}

func (s *catalogService) ListProducts(ctx context.Context, page, limit int) ([]model.Product, int64, error) {
	return s.products.List(ctx, page, limit)
}

func (s *catalogService) CreateLateFeePolicy(ctx context.Context, actor Actor, req CreateLateFeePolicyRequest) (*model.LateFeePolicy, error) {
	if actor.Role != model.RoleAdmin {
		return nil, &PermissionError{Role: string(actor.Role), Action: "manage pricing policies"}
	}
	switch req.Method {
	case model.LateFeePerDay, model.LateFeePerHour, model.LateFeePercentage:
	default:
		return nil, NewValidationError("method", "must be per_day, per_hour, or percentage")
	}
	if req.GracePeriodHours < 0 {
		return nil, NewValidationError("grace_period_hours", "must not be negative")
	}
	if !req.AppliesToAllProducts && req.CategoryID == nil {
		return nil, NewValidationError("category_id", "required unless the policy applies to all products")
	}

	policy := &model.LateFeePolicy{
		Name:                 req.Name,
		Description:          req.Description,
		GracePeriodHours:     req.GracePeriodHours,
		Method:               req.Method,
		PenaltyRatePerDay:    req.PenaltyRatePerDay,
		PenaltyRatePerHour:   req.PenaltyRatePerHour,
		PenaltyPercentage:    req.PenaltyPercentage,
		MaxPenaltyCap:        req.MaxPenaltyCap,
		AppliesToAllProducts: req.AppliesToAllProducts,
		CategoryID:           req.CategoryID,
		IsActive:             true,
	}
	if err := s.policies.CreateLateFeePolicy(ctx, policy); err != nil {
		return nil, err
	}
	return policy, nil
}

func (s *catalogService) CreateGSTConfig(ctx context.Context, actor Actor, cfg *model.GSTConfiguration) error {
	if actor.Role != model.RoleAdmin {
		return &PermissionError{Role: string(actor.Role), Action: "manage pricing policies"}
	}
	return s.policies.CreateGSTConfig(ctx, cfg)
}

func (s *catalogService) Availability(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID, start, end time.Time) (int, error) {
	return s.reservations.AvailableQuantity(ctx, productID, variantID, start, end)
}
