//go:build integration

package payment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/localmarket/internal/api"
	"github.com/georgemunganga/localmarket/internal/testutil"
)

func TestIntegrationPayment_CreateConfirmStatus(t *testing.T) {
	db := testutil.OpenDB(t)
	ctx := context.Background()
	gw := NewSandboxGateway(false)
	svc := NewService(NewPostgresRepository(db), gw, "gbp", discardLogger())

	seller := testutil.CreateUser(t, db, "pw-seller-123", true)
	buyer := testutil.CreateUser(t, db, "pw-buyer-123", false)
	vendorID := testutil.CreateVendor(t, db, seller, "0.1500")
	productID := testutil.CreateProduct(t, db, vendorID, "dairy", "2.50")

	o1 := testutil.CreateOrder(t, db, buyer, vendorID, productID, 2, "2.50", "3.50", api.OrderPending)
	o2 := testutil.CreateOrder(t, db, buyer, vendorID, productID, 1, "2.50", "0.00", api.OrderPending)
	cancelled := testutil.CreateOrder(t, db, buyer, vendorID, productID, 1, "2.50", "0.00", api.OrderCancelled)

	_, err := svc.CreateIntent(ctx, buyer, []int{o1, cancelled})
	assert.ErrorIs(t, err, ErrOrdersNotPayable)

	_, err = svc.CreateIntent(ctx, seller, []int{o1})
	assert.ErrorIs(t, err, ErrOrdersNotFound)

	pi, err := svc.CreateIntent(ctx, buyer, []int{o1, o2})
	require.NoError(t, err)
	assert.Equal(t, int64(1100), pi.Amount)
	assert.Equal(t, int64(165), pi.Commission)
	assert.Equal(t, int64(935), pi.VendorPayout)

	stored, err := NewPostgresRepository(db).GetIntent(ctx, pi.IntentID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{o1, o2}, stored.OrderIDs)

	gw.SetStatus(pi.IntentID, api.PaymentSucceeded)

	first, err := svc.ConfirmPayment(ctx, buyer, pi.IntentID, []int{o1})
	require.NoError(t, err)
	assert.Equal(t, 1, first.OrdersUpdated)

	second, err := svc.ConfirmPayment(ctx, buyer, pi.IntentID, []int{o1, o2})
	require.NoError(t, err)
	assert.Equal(t, 1, second.OrdersUpdated)
	assert.Equal(t, 1, second.OrdersAlreadyPaid)

	st, err := svc.GetStatus(ctx, buyer, pi.IntentID)
	require.NoError(t, err)
	assert.Equal(t, api.PaymentSucceeded, st.Status)
	require.Len(t, st.Orders, 2)
	for _, o := range st.Orders {
		assert.Equal(t, api.OrderPaid, o.Status)
	}

	var paidAtSet int
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orders WHERE id IN ($1, $2) AND paid_at IS NOT NULL`, o1, o2).Scan(&paidAtSet))
	assert.Equal(t, 2, paidAtSet)
}
