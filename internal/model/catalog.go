package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductCategory groups products for GST rates and late-fee policies
type ProductCategory struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	HSNCode   string    `gorm:"type:varchar(10)" json:"hsn_code"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Product represents a rentable item owned by a vendor.
// OnHandQuantity is the physical stock; free stock for a window is
// on-hand minus overlapping confirmed/active reservations.
type Product struct {
	ID             uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SKU            string           `gorm:"type:varchar(100);uniqueIndex;not null" json:"sku"`
	Name           string           `gorm:"type:varchar(255);not null" json:"name"`
	VendorID       uuid.UUID        `gorm:"type:uuid;not null;index" json:"vendor_id"`
	Vendor         *User            `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`
	CategoryID     *uuid.UUID       `gorm:"type:uuid;index" json:"category_id"`
	Category       *ProductCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	OnHandQuantity int              `gorm:"type:int;default:0;not null" json:"on_hand_quantity"`
	DailyRate      decimal.Decimal  `gorm:"type:decimal(10,2);not null;default:0" json:"daily_rate"`
	Variants       []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"variants,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
	DeletedAt      gorm.DeletedAt   `gorm:"index" json:"-"`
}

// ProductVariant is a specific configuration of a product with its own stock
type ProductVariant struct {
	ID             uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProductID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	SKU            string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"sku"`
	Name           string          `gorm:"type:varchar(255);not null" json:"name"`
	OnHandQuantity int             `gorm:"type:int;default:0;not null" json:"on_hand_quantity"`
	DailyRate      decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"daily_rate"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
