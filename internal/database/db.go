package database

import (
	"log"

	"rentalhub/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Auto-migrate core models
	err = db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.ProductCategory{},
		&model.Product{},
		&model.ProductVariant{},
		&model.Quotation{},
		&model.QuotationLine{},
		&model.RentalOrder{},
		&model.RentalOrderLine{},
		&model.Reservation{},
		&model.Pickup{},
		&model.Return{},
		&model.ApprovalRequest{},
		&model.LateFeePolicy{},
		&model.GSTConfiguration{},
		&model.Invoice{},
		&model.Payment{},
		&model.AuditLog{},
		&model.DocumentSequence{},
	)
	if err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}
