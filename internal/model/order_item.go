package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order item statuses
const (
	OrderItemStatusPending   = "pending"
	OrderItemStatusShipped   = "shipped"
	OrderItemStatusDelivered = "delivered"
	OrderItemStatusCancelled = "cancelled"
)

// OrderItem snapshots product name, description and price at time of purchase,
// decoupled from later product mutation. Each item carries its own status.
type OrderItem struct {
	ID                 uint            `json:"id" gorm:"primaryKey"`
	OrderID            uint            `json:"order_id" gorm:"index;not null"`
	ProductID          uint            `json:"product_id" gorm:"index;not null"`
	SellerID           uint            `json:"seller_id" gorm:"index;not null"`
	ProductName        string          `json:"product_name" gorm:"type:varchar(255);not null"`
	ProductDescription string          `json:"product_description" gorm:"type:text"`
	UnitPrice          decimal.Decimal `json:"unit_price" gorm:"type:decimal(10,2);not null"`
	Quantity           int             `json:"quantity" gorm:"not null"`
	Subtotal           decimal.Decimal `json:"subtotal" gorm:"type:decimal(10,2);not null"`
	Currency           string          `json:"currency" gorm:"type:char(3);not null"`
	Status             string          `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}
