package service

import (
	"fmt"
	"testing"

	"marketplace-api/internal/apperr"
	"marketplace-api/internal/model"
	"marketplace-api/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func addImages(t *testing.T, db *gorm.DB, productID uint, count int) []model.ProductImage {
	t.Helper()

	images := make([]model.ProductImage, 0, count)
	for i := 0; i < count; i++ {
		img := model.ProductImage{
			FileName: fmt.Sprintf("photo-%d.jpg", i),
			FilePath: fmt.Sprintf("/uploads/photo-%d.jpg", i),
			MimeType: "image/jpeg",
		}
		require.NoError(t, AddImage(db, productID, &img))
		images = append(images, img)
	}
	return images
}

func TestAddImageAppendsInOrder(t *testing.T) {
	db := testutil.NewDB(t)
	seller := testutil.SeedUser(t, db, "Ana", "ana@example.com", "+40711111111", "secret123")
	category := testutil.SeedCategory(t, db, "Food")
	product := testutil.SeedProduct(t, db, seller, category, "Honey", "10.00")

	images := addImages(t, db, product.ID, 3)

	for i, img := range images {
		assert.Equal(t, i, img.OrderColumn)
		assert.Equal(t, product.ID, img.ProductID)
	}
}

func TestAddImageGalleryFull(t *testing.T) {
	db := testutil.NewDB(t)
	seller := testutil.SeedUser(t, db, "Ana", "ana@example.com", "+40711111111", "secret123")
	category := testutil.SeedCategory(t, db, "Food")
	product := testutil.SeedProduct(t, db, seller, category, "Honey", "10.00")

	addImages(t, db, product.ID, model.MaxGalleryImages)

	extra := model.ProductImage{FileName: "extra.jpg", FilePath: "/uploads/extra.jpg", MimeType: "image/jpeg"}
	err := AddImage(db, product.ID, &extra)
	assert.ErrorIs(t, err, apperr.ErrGalleryFull)

	var count int64
	require.NoError(t, db.Model(&model.ProductImage{}).
		Where("product_id = ?", product.ID).
		Count(&count).Error)
	assert.EqualValues(t, model.MaxGalleryImages, count)
}

func TestRemoveImage(t *testing.T) {
	db := testutil.NewDB(t)
	seller := testutil.SeedUser(t, db, "Ana", "ana@example.com", "+40711111111", "secret123")
	category := testutil.SeedCategory(t, db, "Food")
	product := testutil.SeedProduct(t, db, seller, category, "Honey", "10.00")

	images := addImages(t, db, product.ID, 2)

	removed, err := RemoveImage(db, product.ID, images[0].ID)
	require.NoError(t, err)
	assert.Equal(t, images[0].ID, removed.ID)

	var count int64
	require.NoError(t, db.Model(&model.ProductImage{}).
		Where("product_id = ?", product.ID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestRemoveImageUnknownID(t *testing.T) {
	db := testutil.NewDB(t)
	seller := testutil.SeedUser(t, db, "Ana", "ana@example.com", "+40711111111", "secret123")
	category := testutil.SeedCategory(t, db, "Food")
	product := testutil.SeedProduct(t, db, seller, category, "Honey", "10.00")

	_, err := RemoveImage(db, product.ID, 9999)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRemoveImageOfAnotherProduct(t *testing.T) {
	db := testutil.NewDB(t)
	seller := testutil.SeedUser(t, db, "Ana", "ana@example.com", "+40711111111", "secret123")
	category := testutil.SeedCategory(t, db, "Food")
	product := testutil.SeedProduct(t, db, seller, category, "Honey", "10.00")
	other := testutil.SeedProduct(t, db, seller, category, "Jam", "7.00")

	otherImages := addImages(t, db, other.ID, 1)

	_, err := RemoveImage(db, product.ID, otherImages[0].ID)
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperr.ErrNotFound)
	_, isDomain := apperr.IsDomain(err)
	assert.True(t, isDomain)
	assert.Contains(t, err.Error(), fmt.Sprintf("%d", otherImages[0].ID))

	var count int64
	require.NoError(t, db.Model(&model.ProductImage{}).
		Where("product_id = ?", other.ID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestReorderImages(t *testing.T) {
	db := testutil.NewDB(t)
	seller := testutil.SeedUser(t, db, "Ana", "ana@example.com", "+40711111111", "secret123")
	category := testutil.SeedCategory(t, db, "Food")
	product := testutil.SeedProduct(t, db, seller, category, "Honey", "10.00")

	images := addImages(t, db, product.ID, 3)
	a, b, c := images[0], images[1], images[2]

	require.NoError(t, ReorderImages(db, product.ID, []uint{c.ID, a.ID, b.ID}))

	var gallery []model.ProductImage
	require.NoError(t, db.Where("product_id = ?", product.ID).
		Order("order_column ASC").
		Find(&gallery).Error)
	require.Len(t, gallery, 3)

	assert.Equal(t, []uint{c.ID, a.ID, b.ID}, []uint{gallery[0].ID, gallery[1].ID, gallery[2].ID})
	assert.Equal(t, 1, gallery[0].OrderColumn)
	assert.Equal(t, 2, gallery[1].OrderColumn)
	assert.Equal(t, 3, gallery[2].OrderColumn)
}

func TestReorderImagesForeignIDFailsWhole(t *testing.T) {
	db := testutil.NewDB(t)
	seller := testutil.SeedUser(t, db, "Ana", "ana@example.com", "+40711111111", "secret123")
	category := testutil.SeedCategory(t, db, "Food")
	product := testutil.SeedProduct(t, db, seller, category, "Honey", "10.00")
	other := testutil.SeedProduct(t, db, seller, category, "Jam", "7.00")

	images := addImages(t, db, product.ID, 2)
	foreign := addImages(t, db, other.ID, 1)[0]

	err := ReorderImages(db, product.ID, []uint{images[1].ID, foreign.ID, images[0].ID})
	require.Error(t, err)
	_, isDomain := apperr.IsDomain(err)
	assert.True(t, isDomain)
	assert.Contains(t, err.Error(), fmt.Sprintf("%d", foreign.ID))

	// No partial writes: original append order still intact
	var gallery []model.ProductImage
	require.NoError(t, db.Where("product_id = ?", product.ID).
		Order("order_column ASC").
		Find(&gallery).Error)
	require.Len(t, gallery, 2)
	assert.Equal(t, images[0].ID, gallery[0].ID)
	assert.Equal(t, 0, gallery[0].OrderColumn)
	assert.Equal(t, 1, gallery[1].OrderColumn)
}
