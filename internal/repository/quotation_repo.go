package repository

import (
	"context"

	"rentalhub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuotationRepository interface {
	Create(ctx context.Context, quotation *model.Quotation) error
	Save(ctx context.Context, quotation *model.Quotation) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Quotation, error)
	FindByIDWithLines(ctx context.Context, id uuid.UUID) (*model.Quotation, error)
	List(ctx context.Context, customerID *uuid.UUID, status string, page, limit int) ([]model.Quotation, int64, error)
	CreateLine(ctx context.Context, line *model.QuotationLine) error
	SaveLine(ctx context.Context, line *model.QuotationLine) error
	FindLineByID(ctx context.Context, id uuid.UUID) (*model.QuotationLine, error)
	DeleteLine(ctx context.Context, id uuid.UUID) error
}

type quotationRepository struct {
	db *gorm.DB
}

func NewQuotationRepository(db *gorm.DB) QuotationRepository {
	return &quotationRepository{db: db}
}

func (r *quotationRepository) Create(ctx context.Context, quotation *model.Quotation) error {
	return GetDB(ctx, r.db).Create(quotation).Error
}

func (r *quotationRepository) Save(ctx context.Context, quotation *model.Quotation) error {
	return GetDB(ctx, r.db).Save(quotation).Error
}

func (r *quotationRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Quotation, error) {
	var quotation model.Quotation
	if err := GetDB(ctx, r.db).First(&quotation, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &quotation, nil
}

func (r *quotationRepository) FindByIDWithLines(ctx context.Context, id uuid.UUID) (*model.Quotation, error) {
	var quotation model.Quotation
	if err := GetDB(ctx, r.db).
		Preload("Lines").
		Preload("Lines.Product").
		Preload("Customer").
		First(&quotation, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &quotation, nil
}

func (r *quotationRepository) List(ctx context.Context, customerID *uuid.UUID, status string, page, limit int) ([]model.Quotation, int64, error) {
	var quotations []model.Quotation
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.Quotation{})
	if customerID != nil {
		query = query.Where("customer_id = ?", *customerID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	fetch := db.Preload("Lines").Preload("Customer")
	if customerID != nil {
		fetch = fetch.Where("customer_id = ?", *customerID)
	}
	if status != "" {
		fetch = fetch.Where("status = ?", status)
	}
	if err := fetch.Order("created_at DESC").Offset(offset).Limit(limit).Find(&quotations).Error; err != nil {
		return nil, 0, err
	}

	return quotations, total, nil
}

func (r *quotationRepository) CreateLine(ctx context.Context, line *model.QuotationLine) error {
	return GetDB(ctx, r.db).Create(line).Error
}

func (r *quotationRepository) SaveLine(ctx context.Context, line *model.QuotationLine) error {
	return GetDB(ctx, r.db).Save(line).Error
}

func (r *quotationRepository) FindLineByID(ctx context.Context, id uuid.UUID) (*model.QuotationLine, error) {
	var line model.QuotationLine
	if err := GetDB(ctx, r.db).First(&line, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *quotationRepository) DeleteLine(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Delete(&model.QuotationLine{}, "id = ?", id).Error
}
