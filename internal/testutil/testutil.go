// Package testutil provides the in-memory database harness used across
// package tests.
package testutil

import (
	"testing"

	"marketplace-api/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a fresh in-memory database with the full schema migrated
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Space{},
		&model.SpaceMember{},
		&model.ProductCategory{},
		&model.Product{},
		&model.ProductImage{},
		&model.ProductPriceHistory{},
		&model.Order{},
		&model.OrderItem{},
	))

	return db
}

// SeedUser inserts a user with a bcrypt-hashed password
func SeedUser(t *testing.T, db *gorm.DB, name, email, phone, password string) *model.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := &model.User{
		Name:     name,
		Email:    email,
		Phone:    phone,
		Password: string(hashed),
		Role:     model.RoleConsumer,
		City:     "Cluj-Napoca",
		Country:  "Romania",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// SeedCategory inserts a product category
func SeedCategory(t *testing.T, db *gorm.DB, name string) *model.ProductCategory {
	t.Helper()

	category := &model.ProductCategory{Name: name}
	require.NoError(t, db.Create(category).Error)
	return category
}

// SeedProduct inserts a product directly, without opening price history
func SeedProduct(t *testing.T, db *gorm.DB, seller *model.User, category *model.ProductCategory, name string, price string) *model.Product {
	t.Helper()

	product := &model.Product{
		Name:              name,
		Description:       "seeded product",
		Status:            model.ProductStatusAvailable,
		UnitOfMeasurement: "piece",
		UnitPrice:         decimal.RequireFromString(price),
		Currency:          "EUR",
		UserID:            seller.ID,
		ProductCategoryID: category.ID,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

// SeedSpace inserts a space owned by the given user
func SeedSpace(t *testing.T, db *gorm.DB, owner *model.User, name string, active bool) *model.Space {
	t.Helper()

	space := &model.Space{
		OwnerID:  owner.ID,
		Name:     name,
		City:     "Cluj-Napoca",
		Country:  "Romania",
		IsActive: active,
	}
	require.NoError(t, db.Create(space).Error)
	return space
}
