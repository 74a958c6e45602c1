//go:build integration

package order

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/localmarket/internal/api"
	"github.com/georgemunganga/localmarket/internal/testutil"
)

func TestIntegrationOrderService_PlaceListCancel(t *testing.T) {
	db := testutil.OpenDB(t)
	ctx := context.Background()
	svc := NewService(NewPostgresRepository(db), decimal.RequireFromString("3.50"))

	seller := testutil.CreateUser(t, db, "pw-seller-123", true)
	buyer := testutil.CreateUser(t, db, "pw-buyer-123", false)
	vendorID := testutil.CreateVendor(t, db, seller, "0.10")
	productID := testutil.CreateProduct(t, db, vendorID, "veg", "2.00")

	var addressID int
	require.NoError(t, db.QueryRowContext(ctx, `
		INSERT INTO addresses (user_id, address_line1, city, postcode, is_default)
		VALUES ($1, '1 High St', 'Bristol', 'BS1 4DJ', true) RETURNING id`, buyer).Scan(&addressID))

	o, err := svc.PlaceOrder(ctx, buyer, api.CreateOrderRequest{
		Product: productID, Quantity: 4, DeliveryMethod: api.DeliveryHome, DeliveryAddress: addressID,
	})
	require.NoError(t, err)
	assert.Equal(t, "8.00", o.TotalPrice.StringFixed(2))
	require.NotNil(t, o.DeliveryAddress)
	assert.Equal(t, "Bristol", o.DeliveryAddress.City)

	_, err = svc.PlaceOrder(ctx, buyer, api.CreateOrderRequest{Product: productID, Quantity: 7})
	assert.ErrorIs(t, err, ErrProductUnavailable, "only 6 left in stock")

	orders, total, err := svc.ListBuyerOrders(ctx, buyer, "", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, o.ID, orders[0].ID)

	received, total, err := svc.ListVendorOrders(ctx, seller, "", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, o.ID, received[0].ID)

	_, total, err = svc.ListVendorOrders(ctx, buyer, "", 10, 0)
	require.NoError(t, err)
	assert.Zero(t, total)

	cancelled, err := svc.CancelOrder(ctx, buyer, o.ID)
	require.NoError(t, err)
	assert.Equal(t, api.OrderCancelled, cancelled.Status)

	var stock int
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT stock_quantity FROM products WHERE id = $1`, productID).Scan(&stock))
	assert.Equal(t, 10, stock, "cancelling returns the reserved quantity")

	_, err = svc.CancelOrder(ctx, buyer, o.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	addrs, err := svc.ListAddresses(ctx, buyer)
	require.NoError(t, err)
	assert.Len(t, addrs, 1)
}
