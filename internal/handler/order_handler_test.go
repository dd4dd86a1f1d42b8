package handler

import (
	"fmt"
	"net/http"
	"testing"

	"marketplace-api/internal/model"
	"marketplace-api/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrderHandler(t *testing.T) {
	db := setupHandlerTest(t)
	seller := testutil.SeedUser(t, db, "Ana", "ana@example.com", "+40711111111", "secret123")
	buyer := testutil.SeedUser(t, db, "Bogdan", "bogdan@example.com", "+40722222222", "secret123")
	category := testutil.SeedCategory(t, db, "Food")
	product := testutil.SeedProduct(t, db, seller, category, "Honey", "10.00")

	c, rec := newRequest(t, http.MethodPost, "/orders", map[string]interface{}{
		"items": []map[string]interface{}{
			{"product_id": product.ID, "quantity": 2},
		},
		"tax":      "1.00",
		"shipping": "3.00",
	}, buyer)

	require.NoError(t, CreateOrder(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var order model.Order
	require.NoError(t, db.Preload("Items").First(&order).Error)
	assert.Equal(t, buyer.ID, order.UserID)
	assert.True(t, order.Total.Equal(order.Subtotal.Add(order.Tax).Add(order.Shipping)))
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Honey", order.Items[0].ProductName)
}

func TestCreateOrderRejectsNegativeTax(t *testing.T) {
	db := setupHandlerTest(t)
	seller := testutil.SeedUser(t, db, "Ana", "ana@example.com", "+40711111111", "secret123")
	buyer := testutil.SeedUser(t, db, "Bogdan", "bogdan@example.com", "+40722222222", "secret123")
	category := testutil.SeedCategory(t, db, "Food")
	product := testutil.SeedProduct(t, db, seller, category, "Honey", "10.00")

	c, rec := newRequest(t, http.MethodPost, "/orders", map[string]interface{}{
		"items": []map[string]interface{}{
			{"product_id": product.ID, "quantity": 1},
		},
		"tax": "-1.00",
	}, buyer)

	require.NoError(t, CreateOrder(c))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCreateOrderUnavailableProduct(t *testing.T) {
	db := setupHandlerTest(t)
	seller := testutil.SeedUser(t, db, "Ana", "ana@example.com", "+40711111111", "secret123")
	buyer := testutil.SeedUser(t, db, "Bogdan", "bogdan@example.com", "+40722222222", "secret123")
	category := testutil.SeedCategory(t, db, "Food")
	product := testutil.SeedProduct(t, db, seller, category, "Honey", "10.00")
	require.NoError(t, db.Model(product).Update("status", model.ProductStatusUnavailable).Error)

	c, rec := newRequest(t, http.MethodPost, "/orders", map[string]interface{}{
		"items": []map[string]interface{}{
			{"product_id": product.ID, "quantity": 1},
		},
	}, buyer)

	require.NoError(t, CreateOrder(c))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestGetOrderBuyerOnly(t *testing.T) {
	db := setupHandlerTest(t)
	seller := testutil.SeedUser(t, db, "Ana", "ana@example.com", "+40711111111", "secret123")
	buyer := testutil.SeedUser(t, db, "Bogdan", "bogdan@example.com", "+40722222222", "secret123")
	category := testutil.SeedCategory(t, db, "Food")
	product := testutil.SeedProduct(t, db, seller, category, "Honey", "10.00")

	c, rec := newRequest(t, http.MethodPost, "/orders", map[string]interface{}{
		"items": []map[string]interface{}{
			{"product_id": product.ID, "quantity": 1},
		},
	}, buyer)
	require.NoError(t, CreateOrder(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var order model.Order
	require.NoError(t, db.First(&order).Error)

	// The seller is not the buyer here
	c, rec = newRequest(t, http.MethodGet, "/orders/1", nil, seller)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(order.ID))
	require.NoError(t, GetOrder(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	c, rec = newRequest(t, http.MethodGet, "/orders/1", nil, buyer)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(order.ID))
	require.NoError(t, GetOrder(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListOrdersScopedToBuyer(t *testing.T) {
	db := setupHandlerTest(t)
	seller := testutil.SeedUser(t, db, "Ana", "ana@example.com", "+40711111111", "secret123")
	buyer := testutil.SeedUser(t, db, "Bogdan", "bogdan@example.com", "+40722222222", "secret123")
	other := testutil.SeedUser(t, db, "Carla", "carla@example.com", "+40733333333", "secret123")
	category := testutil.SeedCategory(t, db, "Food")
	product := testutil.SeedProduct(t, db, seller, category, "Honey", "10.00")

	placeOrder := func(actor *model.User) {
		c, rec := newRequest(t, http.MethodPost, "/orders", map[string]interface{}{
			"items": []map[string]interface{}{
				{"product_id": product.ID, "quantity": 1},
			},
		}, actor)
		require.NoError(t, CreateOrder(c))
		require.Equal(t, http.StatusCreated, rec.Code)
	}
	placeOrder(buyer)
	placeOrder(buyer)
	placeOrder(other)

	c, rec := newRequest(t, http.MethodGet, "/orders", nil, buyer)
	require.NoError(t, ListOrders(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Len(t, body["data"], 2)
}
