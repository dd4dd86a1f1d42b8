package service

import (
	"errors"

	"marketplace-api/internal/apperr"
	"marketplace-api/internal/model"

	"gorm.io/gorm"
)

// AddImage appends an image to the product's gallery. The gallery is capped
// at model.MaxGalleryImages; a full gallery is a domain error and leaves the
// gallery unchanged. The new image is ordered after all existing entries.
func AddImage(db *gorm.DB, productID uint, image *model.ProductImage) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.ProductImage{}).
			Where("product_id = ?", productID).
			Count(&count).Error; err != nil {
			return err
		}

		if count >= model.MaxGalleryImages {
			return apperr.ErrGalleryFull
		}

		image.ProductID = productID
		image.OrderColumn = int(count)
		return tx.Create(image).Error
	})
}

// RemoveImage deletes one gallery entry scoped to the product. An unknown id
// is ErrNotFound; an id belonging to another product is a distinct domain error.
func RemoveImage(db *gorm.DB, productID, imageID uint) (*model.ProductImage, error) {
	var image model.ProductImage
	err := db.First(&image, imageID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}

	if image.ProductID != productID {
		return nil, apperr.Domainf("image %d belongs to another product", imageID)
	}

	if err := db.Delete(&image).Error; err != nil {
		return nil, err
	}
	return &image, nil
}

// ReorderImages assigns the gallery's canonical order from the caller's
// sequence, writing order_column = position+1 row by row. The operation is
// all-or-nothing: any id not currently in this product's gallery fails the
// whole reorder, naming the first offending id, with zero rows changed.
//
// Concurrent reorders of the same gallery are last-writer-wins; no
// optimistic-lock token is maintained.
func ReorderImages(db *gorm.DB, productID uint, orderedIDs []uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var images []model.ProductImage
		if err := tx.Where("product_id = ?", productID).Find(&images).Error; err != nil {
			return err
		}

		owned := make(map[uint]bool, len(images))
		for _, img := range images {
			owned[img.ID] = true
		}

		for _, id := range orderedIDs {
			if !owned[id] {
				return apperr.Domainf("image %d does not belong to this product", id)
			}
		}

		for position, id := range orderedIDs {
			if err := tx.Model(&model.ProductImage{}).
				Where("id = ?", id).
				Update("order_column", position+1).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
