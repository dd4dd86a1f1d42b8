package handler

import (
	"net/http"

	"marketplace-api/internal/middleware"
	"marketplace-api/internal/model"
	"marketplace-api/pkg/database"
	"marketplace-api/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ListCategories returns all product categories
func ListCategories(c echo.Context) error {
	log := logger.FromEcho(c)

	var categories []model.ProductCategory
	result := database.GetDB().Order("name ASC").Find(&categories)
	if result.Error != nil {
		log.Error("Failed to retrieve categories", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve categories"})
	}

	return c.JSON(http.StatusOK, echo.Map{"data": categories})
}

// CategoryRequest defines the structure for category creation requests
type CategoryRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// CreateCategory adds a new product category; superadmin only
func CreateCategory(c echo.Context) error {
	log := logger.FromEcho(c)

	actor, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	if !actor.IsSuperadmin() {
		log.Warn("Unauthorized category creation attempt", zap.Uint("actor_id", actor.ID))
		return c.JSON(http.StatusForbidden, echo.Map{"error": "This action is unauthorized"})
	}

	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	if err := validate.Struct(&req); err != nil {
		return respondValidation(c, err)
	}

	var count int64
	database.GetDB().Model(&model.ProductCategory{}).Where("name = ?", req.Name).Count(&count)
	if count > 0 {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"errors": map[string]string{"name": "The name has already been taken."},
		})
	}

	category := model.ProductCategory{Name: req.Name}
	if result := database.GetDB().Create(&category); result.Error != nil {
		log.Error("Failed to create category", zap.String("name", req.Name), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create category"})
	}

	log.Info("Category created", zap.Uint("category_id", category.ID), zap.String("name", category.Name))
	return c.JSON(http.StatusCreated, echo.Map{"data": category})
}
