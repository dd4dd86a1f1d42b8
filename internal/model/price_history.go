package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Actor attribution for price history rows
const (
	ChangedByUser   = "user"
	ChangedBySystem = "system"
)

// ProductPriceHistory is an append-only-with-closure log of a product's unit price.
// For a given product at most one row has a null EffectiveTo (the active price);
// intervals never overlap and closed rows are immutable.
type ProductPriceHistory struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	ProductID     uint            `json:"product_id" gorm:"index:idx_price_history_product;not null"`
	UnitPrice     decimal.Decimal `json:"unit_price" gorm:"type:decimal(10,2);not null"`
	Currency      string          `json:"currency" gorm:"type:char(3);not null"`
	EffectiveFrom time.Time       `json:"effective_from" gorm:"index:idx_price_history_product;not null"`
	EffectiveTo   *time.Time      `json:"effective_to"`
	ChangedByType string          `json:"changed_by_type" gorm:"type:varchar(20);not null"`
	ChangedByID   *uint           `json:"changed_by_id"`
	Reason        string          `json:"reason" gorm:"type:text"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Covers reports whether the row's [EffectiveFrom, EffectiveTo) interval contains t.
// A null EffectiveTo means the price is still current.
func (h *ProductPriceHistory) Covers(t time.Time) bool {
	if t.Before(h.EffectiveFrom) {
		return false
	}
	return h.EffectiveTo == nil || t.Before(*h.EffectiveTo)
}
