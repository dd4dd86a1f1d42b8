package handler

import (
	"net/http"

	"marketplace-api/internal/middleware"
	"marketplace-api/internal/model"
	"marketplace-api/internal/service"
	"marketplace-api/pkg/database"
	"marketplace-api/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderItemRequest is one requested line item
type OrderItemRequest struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity" validate:"required,gt=0"`
}

// OrderRequest defines the structure for order creation requests
type OrderRequest struct {
	Items    []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	Tax      decimal.Decimal    `json:"tax"`
	Shipping decimal.Decimal    `json:"shipping"`
	Notes    string             `json:"notes"`
}

// CreateOrder places an order for the authenticated buyer. Product fields
// are snapshotted into the items and totals recomputed server-side.
func CreateOrder(c echo.Context) error {
	log := logger.FromEcho(c)

	actor, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req OrderRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse order request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if err := validate.Struct(&req); err != nil {
		return respondValidation(c, err)
	}

	if req.Tax.IsNegative() || req.Shipping.IsNegative() {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"errors": map[string]string{"tax": "tax and shipping must not be negative"},
		})
	}

	in := service.OrderInput{
		Tax:      req.Tax,
		Shipping: req.Shipping,
		Notes:    req.Notes,
	}
	for _, item := range req.Items {
		in.Items = append(in.Items, service.OrderItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	order, err := service.CreateOrder(database.GetDB(), actor.ID, in)
	if err != nil {
		log.Warn("Order rejected", zap.Uint("buyer_id", actor.ID), zap.Error(err))
		return respondError(c, err, "Order not found")
	}

	log.Info("Order created",
		zap.Uint("order_id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.Uint("buyer_id", actor.ID))
	return c.JSON(http.StatusCreated, echo.Map{
		"message": middleware.T(c, "orders.created"),
		"data":    order,
	})
}

// ListOrders returns the authenticated buyer's orders
func ListOrders(c echo.Context) error {
	log := logger.FromEcho(c)

	actor, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var orders []model.Order
	result := database.GetDB().
		Preload("Items").
		Where("user_id = ?", actor.ID).
		Order("created_at DESC").
		Find(&orders)
	if result.Error != nil {
		log.Error("Failed to list orders", zap.Uint("buyer_id", actor.ID), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve orders"})
	}

	return c.JSON(http.StatusOK, echo.Map{"data": orders})
}

// GetOrder returns one order; buyer only
func GetOrder(c echo.Context) error {
	log := logger.FromEcho(c)

	actor, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	id := c.Param("id")
	var order model.Order
	if result := database.GetDB().Preload("Items").First(&order, id); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Order not found"})
	}

	if order.UserID != actor.ID {
		log.Warn("Unauthorized order access attempt",
			zap.Uint("actor_id", actor.ID),
			zap.Uint("order_id", order.ID))
		return c.JSON(http.StatusForbidden, echo.Map{"error": "This action is unauthorized"})
	}

	return c.JSON(http.StatusOK, order)
}
