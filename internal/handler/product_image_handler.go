package handler

import (
	"errors"
	"net/http"

	"marketplace-api/internal/apperr"
	"marketplace-api/internal/middleware"
	"marketplace-api/internal/model"
	"marketplace-api/internal/service"
	"marketplace-api/pkg/database"
	"marketplace-api/pkg/logger"
	"marketplace-api/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// loadOwnedProduct resolves the product and enforces seller ownership for
// all gallery mutations.
func loadOwnedProduct(c echo.Context) (*model.Product, error) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	id := c.Param("id")
	var product model.Product
	if result := database.GetDB().First(&product, id); result.Error != nil {
		return nil, apperr.ErrNotFound
	}

	if !policy.CanUpdateProduct(actor, &product) {
		prometheus.RecordForbidden("product")
		return nil, apperr.ErrForbidden
	}

	return &product, nil
}

// AddProductImage appends an uploaded image to the product's gallery.
// Accepts jpeg/png/webp up to the configured size; a full gallery is a 422
// domain error.
func AddProductImage(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordProductOperation("add_image")

	product, err := loadOwnedProduct(c)
	if err != nil {
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			return httpErr
		}
		return respondError(c, err, middleware.T(c, "products.not_found"))
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"errors": map[string]string{"image": "an image file is required"},
		})
	}

	maxBytes := appConfig.Storage.MaxUploadMB * 1024 * 1024
	if fileHeader.Size > maxBytes {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"errors": map[string]string{"image": "the image must not exceed the upload size limit"},
		})
	}

	src, err := fileHeader.Open()
	if err != nil {
		log.Error("Failed to open uploaded file", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "upload failed"})
	}
	defer src.Close()

	// Sniff the real content type instead of trusting the client header
	head := make([]byte, 512)
	n, _ := src.Read(head)
	mimeType := http.DetectContentType(head[:n])
	if !allowedMIME(mimeType) {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"errors": map[string]string{"image": "the image must be a jpeg, png or webp file"},
		})
	}
	if _, err := src.Seek(0, 0); err != nil {
		log.Error("Failed to rewind uploaded file", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "upload failed"})
	}

	fileName, filePath, err := imageStore.Save(src, fileHeader.Filename)
	if err != nil {
		log.Error("Failed to store image", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "upload failed"})
	}

	image := model.ProductImage{
		FileName:  fileName,
		FilePath:  filePath,
		MimeType:  mimeType,
		SizeBytes: fileHeader.Size,
	}

	if err := service.AddImage(database.GetDB(), product.ID, &image); err != nil {
		// Roll the stored file back; the gallery row never landed
		imageStore.Delete(filePath)
		if errors.Is(err, apperr.ErrGalleryFull) {
			log.Warn("Gallery full", zap.Uint("product_id", product.ID))
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{
				"error": middleware.T(c, "products.gallery_full"),
			})
		}
		log.Error("Failed to add image", zap.Uint("product_id", product.ID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "upload failed"})
	}

	log.Info("Image added to gallery",
		zap.Uint("product_id", product.ID),
		zap.Uint("image_id", image.ID),
		zap.Int("order", image.OrderColumn))
	return c.JSON(http.StatusCreated, echo.Map{
		"message": middleware.T(c, "products.image_added"),
		"data": echo.Map{
			"id":           image.ID,
			"product_id":   image.ProductID,
			"url":          imageStore.PublicURL(image.FilePath),
			"mime_type":    image.MimeType,
			"size_bytes":   image.SizeBytes,
			"order_column": image.OrderColumn,
		},
	})
}

// DeleteProductImage removes one gallery entry scoped to the product
func DeleteProductImage(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordProductOperation("delete_image")

	product, err := loadOwnedProduct(c)
	if err != nil {
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			return httpErr
		}
		return respondError(c, err, middleware.T(c, "products.not_found"))
	}

	imageID, err := paramID(c, "imageId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid image ID"})
	}

	image, err := service.RemoveImage(database.GetDB(), product.ID, imageID)
	if err != nil {
		return respondError(c, err, "Image not found")
	}

	if err := imageStore.Delete(image.FilePath); err != nil {
		// The row is gone; report success and leave the orphan for cleanup
		log.Warn("Failed to remove stored file", zap.String("path", image.FilePath), zap.Error(err))
	}

	log.Info("Image removed from gallery",
		zap.Uint("product_id", product.ID),
		zap.Uint("image_id", imageID))
	return c.JSON(http.StatusOK, echo.Map{"message": middleware.T(c, "products.image_deleted")})
}

// ReorderRequest carries the caller's full desired gallery sequence
type ReorderRequest struct {
	ImageIDs []uint `json:"image_ids" validate:"required,min=1"`
}

// ReorderProductImages rewrites the gallery order from the supplied sequence.
// All-or-nothing: one foreign id fails the whole operation.
func ReorderProductImages(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordProductOperation("reorder_images")

	product, err := loadOwnedProduct(c)
	if err != nil {
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			return httpErr
		}
		return respondError(c, err, middleware.T(c, "products.not_found"))
	}

	var req ReorderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	if err := validate.Struct(&req); err != nil {
		return respondValidation(c, err)
	}

	if err := service.ReorderImages(database.GetDB(), product.ID, req.ImageIDs); err != nil {
		log.Warn("Gallery reorder rejected", zap.Uint("product_id", product.ID), zap.Error(err))
		return respondError(c, err, "Image not found")
	}

	log.Info("Gallery reordered",
		zap.Uint("product_id", product.ID),
		zap.Int("count", len(req.ImageIDs)))
	return c.JSON(http.StatusOK, echo.Map{"message": middleware.T(c, "products.images_reordered")})
}

func allowedMIME(mimeType string) bool {
	for _, allowed := range appConfig.Storage.AllowedMIMEs {
		if mimeType == allowed {
			return true
		}
	}
	return false
}
