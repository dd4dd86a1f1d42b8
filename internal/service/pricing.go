package service

import (
	"errors"
	"time"

	"marketplace-api/internal/apperr"
	"marketplace-api/internal/model"
	"marketplace-api/prometheus"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Default reasons written to price history rows
const (
	ReasonInitialPrice = "Initial price"
	ReasonPriceUpdated = "Price updated"
)

// Actor identifies who triggered a price-affecting mutation: a user, or the
// system when no authenticated actor exists.
type Actor struct {
	Type   string
	UserID *uint
}

// ActorUser attributes the change to an authenticated user
func ActorUser(id uint) Actor {
	return Actor{Type: model.ChangedByUser, UserID: &id}
}

// ActorSystem attributes the change to the system
func ActorSystem() Actor {
	return Actor{Type: model.ChangedBySystem}
}

// ProductUpdate carries partial-update fields for a product. Nil pointers
// leave the current value untouched.
type ProductUpdate struct {
	Name              *string
	Description       *string
	Status            *string
	UnitOfMeasurement *string
	UnitPrice         *decimal.Decimal
	Currency          *string
	ProductCategoryID *uint
	PriceChangeReason string
}

// CreateProduct inserts the product together with its initial open price
// history row. Both writes share one transaction: a product must never be
// observable without an open history row.
func CreateProduct(db *gorm.DB, product *model.Product, actor Actor) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(product).Error; err != nil {
			return err
		}

		history := model.ProductPriceHistory{
			ProductID:     product.ID,
			UnitPrice:     product.UnitPrice,
			Currency:      product.Currency,
			EffectiveFrom: time.Now(),
			ChangedByType: actor.Type,
			ChangedByID:   actor.UserID,
			Reason:        ReasonInitialPrice,
		}
		if err := tx.Create(&history).Error; err != nil {
			return err
		}

		prometheus.PriceChangeCounter.Inc()
		return nil
	})
}

// UpdateProduct applies a partial update. When the unit price changes to a
// different value, the open history row is closed and a new one opened with
// the caller-supplied reason, all in the same transaction as the product
// mutation. An equal price writes no history.
func UpdateProduct(db *gorm.DB, product *model.Product, upd ProductUpdate, actor Actor) error {
	return db.Transaction(func(tx *gorm.DB) error {
		oldPrice := product.UnitPrice

		if upd.Name != nil {
			product.Name = *upd.Name
		}
		if upd.Description != nil {
			product.Description = *upd.Description
		}
		if upd.Status != nil {
			product.Status = *upd.Status
		}
		if upd.UnitOfMeasurement != nil {
			product.UnitOfMeasurement = *upd.UnitOfMeasurement
		}
		if upd.Currency != nil {
			product.Currency = *upd.Currency
		}
		if upd.ProductCategoryID != nil {
			product.ProductCategoryID = *upd.ProductCategoryID
		}

		priceChanged := upd.UnitPrice != nil && !upd.UnitPrice.Equal(oldPrice)
		if upd.UnitPrice != nil {
			product.UnitPrice = *upd.UnitPrice
		}

		if err := tx.Save(product).Error; err != nil {
			return err
		}

		if !priceChanged {
			return nil
		}

		now := time.Now()

		// Close the currently open interval before opening the next one
		if err := tx.Model(&model.ProductPriceHistory{}).
			Where("product_id = ? AND effective_to IS NULL", product.ID).
			Update("effective_to", now).Error; err != nil {
			return err
		}

		reason := upd.PriceChangeReason
		if reason == "" {
			reason = ReasonPriceUpdated
		}

		history := model.ProductPriceHistory{
			ProductID:     product.ID,
			UnitPrice:     product.UnitPrice,
			Currency:      product.Currency,
			EffectiveFrom: now,
			ChangedByType: actor.Type,
			ChangedByID:   actor.UserID,
			Reason:        reason,
		}
		if err := tx.Create(&history).Error; err != nil {
			return err
		}

		prometheus.PriceChangeCounter.Inc()
		return nil
	})
}

// PriceAt returns the history row whose interval contains t, or ErrNotFound
// when no interval covers it (t predates the product's first price).
func PriceAt(db *gorm.DB, productID uint, t time.Time) (*model.ProductPriceHistory, error) {
	var history model.ProductPriceHistory
	err := db.Where("product_id = ? AND effective_from <= ?", productID, t).
		Where("effective_to IS NULL OR effective_to > ?", t).
		Order("effective_from DESC").
		First(&history).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &history, nil
}
