package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product statuses
const (
	ProductStatusAvailable   = "available"
	ProductStatusUnavailable = "unavailable"
	ProductStatusDraft       = "draft"
)

// Product represents an item listed for sale by a user.
// Soft-deleted rows are retained for order-item referential integrity.
type Product struct {
	ID                uint            `json:"id" gorm:"primaryKey"`
	Name              string          `json:"name" gorm:"type:varchar(255);not null"`
	Description       string          `json:"description" gorm:"type:text"`
	Status            string          `json:"status" gorm:"type:varchar(20);not null;index"`
	UnitOfMeasurement string          `json:"unit_of_measurement" gorm:"type:varchar(50);not null"`
	UnitPrice         decimal.Decimal `json:"unit_price" gorm:"type:decimal(10,2);not null"`
	Currency          string          `json:"currency" gorm:"type:char(3);not null"`
	UserID            uint            `json:"user_id" gorm:"index;not null"`
	ProductCategoryID uint            `json:"product_category_id" gorm:"index;not null"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	DeletedAt         gorm.DeletedAt  `json:"-" gorm:"index"`

	// Relations
	Seller       *User                 `json:"seller,omitempty" gorm:"foreignKey:UserID"`
	Category     *ProductCategory      `json:"category,omitempty" gorm:"foreignKey:ProductCategoryID"`
	Images       []ProductImage        `json:"images,omitempty" gorm:"foreignKey:ProductID"`
	PriceHistory []ProductPriceHistory `json:"price_history,omitempty" gorm:"foreignKey:ProductID"`
}
