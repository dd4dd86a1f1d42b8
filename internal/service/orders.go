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

// OrderItemInput is one requested line item
type OrderItemInput struct {
	ProductID uint
	Quantity  int
}

// OrderInput carries everything needed to assemble an order
type OrderInput struct {
	Items    []OrderItemInput
	Tax      decimal.Decimal
	Shipping decimal.Decimal
	Notes    string
}

// CreateOrder assembles an order for the buyer, snapshotting each product's
// name, description and price into its line item so later product mutation
// does not rewrite history. Totals are recomputed from the items; the order
// number is a per-year sequence. Everything runs in one transaction.
func CreateOrder(db *gorm.DB, buyerID uint, in OrderInput) (*model.Order, error) {
	if len(in.Items) == 0 {
		return nil, apperr.Domainf("an order requires at least one item")
	}

	var order *model.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		number, err := model.NextOrderNumber(tx, now)
		if err != nil {
			return err
		}

		items := make([]model.OrderItem, 0, len(in.Items))
		currency := ""
		for _, itemIn := range in.Items {
			if itemIn.Quantity <= 0 {
				return apperr.Domainf("quantity must be positive for product %d", itemIn.ProductID)
			}

			var product model.Product
			if err := tx.First(&product, itemIn.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.Domainf("product %d is not available", itemIn.ProductID)
				}
				return err
			}
			if product.Status != model.ProductStatusAvailable {
				return apperr.Domainf("product %d is not available", itemIn.ProductID)
			}

			if currency == "" {
				currency = product.Currency
			} else if currency != product.Currency {
				return apperr.Domainf("order items must share one currency")
			}

			items = append(items, model.OrderItem{
				ProductID:          product.ID,
				SellerID:           product.UserID,
				ProductName:        product.Name,
				ProductDescription: product.Description,
				UnitPrice:          product.UnitPrice,
				Quantity:           itemIn.Quantity,
				Subtotal:           product.UnitPrice.Mul(decimal.NewFromInt(int64(itemIn.Quantity))),
				Currency:           product.Currency,
				Status:             model.OrderItemStatusPending,
			})
		}

		order = &model.Order{
			OrderNumber: number,
			UserID:      buyerID,
			Status:      model.OrderStatusPending,
			Tax:         in.Tax,
			Shipping:    in.Shipping,
			Currency:    currency,
			Notes:       in.Notes,
			Items:       items,
		}
		order.CalculateTotals()

		if err := tx.Create(order).Error; err != nil {
			return err
		}

		prometheus.OrderCreatedCounter.Inc()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}
