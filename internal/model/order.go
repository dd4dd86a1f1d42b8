package model

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order statuses
const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// Order aggregates a buyer's line items across possibly multiple sellers.
// Totals are recomputed from items, never incrementally maintained.
type Order struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	OrderNumber string          `json:"order_number" gorm:"type:varchar(20);uniqueIndex;not null"`
	UserID      uint            `json:"user_id" gorm:"index;not null"`
	Status      string          `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
	Subtotal    decimal.Decimal `json:"subtotal" gorm:"type:decimal(10,2);not null"`
	Tax         decimal.Decimal `json:"tax" gorm:"type:decimal(10,2);not null"`
	Shipping    decimal.Decimal `json:"shipping" gorm:"type:decimal(10,2);not null"`
	Total       decimal.Decimal `json:"total" gorm:"type:decimal(10,2);not null"`
	Currency    string          `json:"currency" gorm:"type:char(3);not null"`
	Notes       string          `json:"notes" gorm:"type:text"`
	CompletedAt *time.Time      `json:"completed_at"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `json:"-" gorm:"index"`

	// Relations
	Buyer *User       `json:"buyer,omitempty" gorm:"foreignKey:UserID"`
	Items []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID"`
}

// NextOrderNumber builds the per-year sequential human-readable order code,
// e.g. ORD-2026-00042. The sequence restarts every calendar year.
func NextOrderNumber(db *gorm.DB, now time.Time) (string, error) {
	year := now.Year()

	var last Order
	seq := 1
	err := db.Unscoped().
		Where("order_number LIKE ?", fmt.Sprintf("ORD-%d-%%", year)).
		Order("id DESC").
		First(&last).Error
	if err == nil {
		if n := len(last.OrderNumber); n >= 5 {
			if lastSeq, convErr := strconv.Atoi(last.OrderNumber[n-5:]); convErr == nil {
				seq = lastSeq + 1
			}
		}
	} else if err != gorm.ErrRecordNotFound {
		return "", err
	}

	return fmt.Sprintf("ORD-%d-%05d", year, seq), nil
}

// CalculateTotals recomputes subtotal and total from the loaded items
func (o *Order) CalculateTotals() {
	subtotal := decimal.Zero
	for _, item := range o.Items {
		subtotal = subtotal.Add(item.Subtotal)
	}
	o.Subtotal = subtotal
	o.Total = subtotal.Add(o.Tax).Add(o.Shipping)
}
