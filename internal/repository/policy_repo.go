package repository

import (
	"context"
	"time"

	"rentalhub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PolicyRepository interface {
	CreateLateFeePolicy(ctx context.Context, policy *model.LateFeePolicy) error
	SaveLateFeePolicy(ctx context.Context, policy *model.LateFeePolicy) error
	// ListActiveLateFeePolicies returns active policies effective at `at`,
	// newest first. Policy selection happens in the pricing package.
	ListActiveLateFeePolicies(ctx context.Context, at time.Time) ([]model.LateFeePolicy, error)

	CreateGSTConfig(ctx context.Context, cfg *model.GSTConfiguration) error
	// FindActiveGSTConfig resolves the GST rates for a category at `at`,
	// falling back to the default (nil category) configuration.
	FindActiveGSTConfig(ctx context.Context, categoryID *uuid.UUID, at time.Time) (*model.GSTConfiguration, error)
}

type policyRepository struct {
	db *gorm.DB
}

func NewPolicyRepository(db *gorm.DB) PolicyRepository {
	return &policyRepository{db: db}
}

func (r *policyRepository) CreateLateFeePolicy(ctx context.Context, policy *model.LateFeePolicy) error {
	return GetDB(ctx, r.db).Create(policy).Error
}

func (r *policyRepository) SaveLateFeePolicy(ctx context.Context, policy *model.LateFeePolicy) error {
	return GetDB(ctx, r.db).Save(policy).Error
}

func (r *policyRepository) ListActiveLateFeePolicies(ctx context.Context, at time.Time) ([]model.LateFeePolicy, error) {
	var policies []model.LateFeePolicy
	err := GetDB(ctx, r.db).
		Where("is_active = ?", true).
		Where("effective_from IS NULL OR effective_from <= ?", at).
		Where("effective_until IS NULL OR effective_until >= ?", at).
		Order("created_at DESC").
		Find(&policies).Error
	if err != nil {
		return nil, err
	}
	return policies, nil
}

func (r *policyRepository) CreateGSTConfig(ctx context.Context, cfg *model.GSTConfiguration) error {
	return GetDB(ctx, r.db).Create(cfg).Error
}

func (r *policyRepository) FindActiveGSTConfig(ctx context.Context, categoryID *uuid.UUID, at time.Time) (*model.GSTConfiguration, error) {
	db := GetDB(ctx, r.db)

	active := func(q *gorm.DB) *gorm.DB {
		return q.Where("is_active = ?", true).
			Where("effective_from <= ?", at).
			Where("effective_until IS NULL OR effective_until >= ?", at).
			Order("effective_from DESC")
	}

	var cfg model.GSTConfiguration
	if categoryID != nil {
		err := active(db.Where("category_id = ?", *categoryID)).First(&cfg).Error
		if err == nil {
			return &cfg, nil
		}
		if err != gorm.ErrRecordNotFound {
			return nil, err
		}
	}

	if err := active(db.Where("category_id IS NULL")).First(&cfg).Error; err != nil {
		return nil, err
	}
	return &cfg, nil
}
