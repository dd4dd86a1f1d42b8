package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"marketplace-api/internal/middleware"
	"marketplace-api/internal/model"
	"marketplace-api/internal/service"
	"marketplace-api/pkg/database"
	"marketplace-api/pkg/logger"
	"marketplace-api/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Sortable product list columns
var productSortColumns = map[string]bool{
	"name":       true,
	"unit_price": true,
	"created_at": true,
	"updated_at": true,
}

// ListProducts handles the public catalog listing with filtering, sorting
// and pagination. Drafts are intentionally not hidden here; see the policy
// note in DESIGN.md.
func ListProducts(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordProductOperation("list")

	db := database.GetDB()
	query := db.Model(&model.Product{})

	// Free-text relevance search over name and description
	if search := c.QueryParam("filter[search]"); search != "" {
		query = query.Where(
			"to_tsvector('english', name || ' ' || coalesce(description, '')) @@ plainto_tsquery('english', ?)",
			search,
		)
		log.Info("Filtering products by search", zap.String("search", search))
	}

	// Substring match on the seller's city
	if location := c.QueryParam("filter[location]"); location != "" {
		query = query.
			Joins("JOIN users ON users.id = products.user_id").
			Where("users.city ILIKE ?", "%"+location+"%")
		log.Info("Filtering products by location", zap.String("location", location))
	}

	if categoryID := c.QueryParam("filter[category_id]"); categoryID != "" {
		query = query.Where("product_category_id = ?", categoryID)
	}

	if status := c.QueryParam("filter[status]"); status != "" {
		query = query.Where("products.status = ?", status)
	}

	// Sort whitelist with "-" prefix for descending; default newest first.
	// Columns are qualified so the location join cannot make them ambiguous.
	sort := c.QueryParam("sort")
	orderClause := "products.created_at DESC"
	if sort != "" {
		column := strings.TrimPrefix(sort, "-")
		if productSortColumns[column] {
			direction := "ASC"
			if strings.HasPrefix(sort, "-") {
				direction = "DESC"
			}
			orderClause = "products." + column + " " + direction
		}
	}

	perPage := 15
	if v, err := strconv.Atoi(c.QueryParam("per_page")); err == nil && v > 0 && v <= 100 {
		perPage = v
	}
	page := 1
	if v, err := strconv.Atoi(c.QueryParam("page")); err == nil && v > 0 {
		page = v
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		log.Error("Failed to count products", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve products"})
	}

	var products []model.Product
	result := query.
		Order(orderClause).
		Preload("Seller").
		Preload("Category").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&products)
	if result.Error != nil {
		log.Error("Failed to list products", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve products"})
	}

	basePath := c.Request().URL.Path
	queryString := c.Request().URL.RawQuery

	log.Info("Products retrieved successfully", zap.Int("count", len(products)), zap.Int64("total", total))
	return c.JSON(http.StatusOK, echo.Map{
		"data": products,
		"links": echo.Map{
			"self": basePath + "?" + queryString,
		},
		"meta": echo.Map{
			"total":        total,
			"per_page":     perPage,
			"current_page": page,
			"query":        queryString,
		},
	})
}

// GetProduct returns one product with seller and category attached.
// Public read, no ownership restriction.
func GetProduct(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordProductOperation("show")

	id := c.Param("id")
	var product model.Product
	result := database.GetDB().
		Preload("Seller").
		Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("order_column ASC") }).
		First(&product, id)
	if result.Error != nil {
		log.Warn("Product not found", zap.String("product_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": middleware.T(c, "products.not_found")})
	}

	return c.JSON(http.StatusOK, product)
}

// ProductRequest defines the structure for product creation requests
type ProductRequest struct {
	Name              string          `json:"name" validate:"required,max=255"`
	Description       string          `json:"description"`
	Status            string          `json:"status" validate:"required,oneof=available unavailable draft"`
	UnitOfMeasurement string          `json:"unit_of_measurement" validate:"required,max=50"`
	UnitPrice         decimal.Decimal `json:"unit_price" validate:"required"`
	Currency          string          `json:"currency" validate:"required,len=3"`
	ProductCategoryID uint            `json:"product_category_id" validate:"required"`
}

// CreateProduct lists a new product for the authenticated seller, opening
// its initial price history row in the same transaction.
func CreateProduct(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordProductOperation("create")

	actor, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	if err := validate.Struct(&req); err != nil {
		return respondValidation(c, err)
	}

	if req.UnitPrice.IsNegative() {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"errors": map[string]string{"unit_price": "must not be negative"},
		})
	}

	var category model.ProductCategory
	if result := database.GetDB().First(&category, req.ProductCategoryID); result.Error != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"errors": map[string]string{"product_category_id": "the selected category does not exist"},
		})
	}

	product := model.Product{
		Name:              req.Name,
		Description:       req.Description,
		Status:            req.Status,
		UnitOfMeasurement: req.UnitOfMeasurement,
		UnitPrice:         req.UnitPrice,
		Currency:          strings.ToUpper(req.Currency),
		UserID:            actor.ID,
		ProductCategoryID: req.ProductCategoryID,
	}

	if err := service.CreateProduct(database.GetDB(), &product, service.ActorUser(actor.ID)); err != nil {
		log.Error("Failed to create product", zap.String("name", req.Name), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create product"})
	}

	database.GetDB().Preload("Seller").Preload("Category").First(&product, product.ID)

	log.Info("Product created successfully",
		zap.Uint("product_id", product.ID),
		zap.String("name", product.Name),
		zap.Uint("seller_id", actor.ID))
	return c.JSON(http.StatusCreated, echo.Map{
		"message": middleware.T(c, "products.created"),
		"data":    product,
	})
}

// ProductUpdateRequest carries partial fields for product updates
type ProductUpdateRequest struct {
	Name              *string          `json:"name" validate:"omitempty,max=255"`
	Description       *string          `json:"description"`
	Status            *string          `json:"status" validate:"omitempty,oneof=available unavailable draft"`
	UnitOfMeasurement *string          `json:"unit_of_measurement" validate:"omitempty,max=50"`
	UnitPrice         *decimal.Decimal `json:"unit_price"`
	Currency          *string          `json:"currency" validate:"omitempty,len=3"`
	ProductCategoryID *uint            `json:"product_category_id"`
	PriceChangeReason string           `json:"price_change_reason"`
}

// UpdateProduct applies a partial update; a changed unit price closes the
// open history row and opens a new one with the supplied reason.
func UpdateProduct(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordProductOperation("update")

	actor, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	id := c.Param("id")
	var product model.Product
	if result := database.GetDB().First(&product, id); result.Error != nil {
		log.Warn("Product not found for update", zap.String("product_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": middleware.T(c, "products.not_found")})
	}

	if !policy.CanUpdateProduct(actor, &product) {
		log.Warn("Unauthorized product update attempt",
			zap.Uint("actor_id", actor.ID),
			zap.Uint("seller_id", product.UserID))
		prometheus.RecordForbidden("product")
		return c.JSON(http.StatusForbidden, echo.Map{"error": "This action is unauthorized"})
	}

	var req ProductUpdateRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.String("product_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	if err := validate.Struct(&req); err != nil {
		return respondValidation(c, err)
	}

	if req.UnitPrice != nil && req.UnitPrice.IsNegative() {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"errors": map[string]string{"unit_price": "must not be negative"},
		})
	}

	if req.ProductCategoryID != nil {
		var category model.ProductCategory
		if result := database.GetDB().First(&category, *req.ProductCategoryID); result.Error != nil {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{
				"errors": map[string]string{"product_category_id": "the selected category does not exist"},
			})
		}
	}

	var currency *string
	if req.Currency != nil {
		upper := strings.ToUpper(*req.Currency)
		currency = &upper
	}

	upd := service.ProductUpdate{
		Name:              req.Name,
		Description:       req.Description,
		Status:            req.Status,
		UnitOfMeasurement: req.UnitOfMeasurement,
		UnitPrice:         req.UnitPrice,
		Currency:          currency,
		ProductCategoryID: req.ProductCategoryID,
		PriceChangeReason: req.PriceChangeReason,
	}

	if err := service.UpdateProduct(database.GetDB(), &product, upd, service.ActorUser(actor.ID)); err != nil {
		log.Error("Failed to update product", zap.String("product_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update product"})
	}

	database.GetDB().Preload("Seller").Preload("Category").First(&product, product.ID)

	log.Info("Product updated successfully",
		zap.Uint("product_id", product.ID),
		zap.String("name", product.Name))
	return c.JSON(http.StatusOK, echo.Map{
		"message": middleware.T(c, "products.updated"),
		"data":    product,
	})
}

// DeleteProduct soft-deletes the product; the row is retained for order
// history referential integrity.
func DeleteProduct(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordProductOperation("delete")

	actor, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	id := c.Param("id")
	var product model.Product
	if result := database.GetDB().First(&product, id); result.Error != nil {
		log.Warn("Product not found for deletion", zap.String("product_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": middleware.T(c, "products.not_found")})
	}

	if !policy.CanDeleteProduct(actor, &product) {
		log.Warn("Unauthorized product deletion attempt",
			zap.Uint("actor_id", actor.ID),
			zap.Uint("seller_id", product.UserID))
		prometheus.RecordForbidden("product")
		return c.JSON(http.StatusForbidden, echo.Map{"error": "This action is unauthorized"})
	}

	if result := database.GetDB().Delete(&product); result.Error != nil {
		log.Error("Failed to delete product", zap.String("product_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete product"})
	}

	log.Info("Product deleted successfully", zap.Uint("product_id", product.ID))
	return c.JSON(http.StatusOK, echo.Map{"message": middleware.T(c, "products.deleted")})
}

// PriceAtQuery returns the price effective at the given RFC3339 timestamp
func PriceAtQuery(c echo.Context) error {
	log := logger.FromEcho(c)

	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product ID"})
	}

	at := c.QueryParam("at")
	t, err := parseTimestamp(at)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"errors": map[string]string{"at": "must be an RFC3339 timestamp"},
		})
	}

	var product model.Product
	if result := database.GetDB().First(&product, id); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": middleware.T(c, "products.not_found")})
	}

	history, err := service.PriceAt(database.GetDB(), id, t)
	if err != nil {
		log.Warn("No price interval covers timestamp",
			zap.Uint("product_id", id),
			zap.String("at", at))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "No price recorded at the given time"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"product_id": id,
		"at":         t,
		"unit_price": history.UnitPrice,
		"currency":   history.Currency,
	})
}

func parseTimestamp(v string) (t time.Time, err error) {
	if v == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	return time.Parse(time.RFC3339, v)
}
