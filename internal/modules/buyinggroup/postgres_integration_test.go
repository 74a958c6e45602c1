//go:build integration

package buyinggroup

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/localmarket/internal/testutil"
)

func TestIntegrationBuyingGroupRepository(t *testing.T) {
	db := testutil.OpenDB(t)
	ctx := context.Background()
	repo := NewPostgresRepository(db)

	seller := testutil.CreateUser(t, db, "pw-seller-123", true)
	buyer := testutil.CreateUser(t, db, "pw-buyer-123", false)
	vendorID := testutil.CreateVendor(t, db, seller, "0.10")
	productID := testutil.CreateProduct(t, db, vendorID, "veg", "4.00")

	var groupID int
	require.NoError(t, db.QueryRowContext(ctx, `
		INSERT INTO buying_groups (product_id, postcode, target_quantity, current_quantity, discount_percent, expires_at)
		VALUES ($1, 'SW1A 1AA', 10, 3, 15, NOW() + INTERVAL '2 days') RETURNING id`, productID).Scan(&groupID))
	_, err := db.ExecContext(ctx, `INSERT INTO group_commitments (group_id, buyer_id, quantity) VALUES ($1, $2, 3)`, groupID, buyer)
	require.NoError(t, err)

	groups, total, err := repo.List(ctx, Filter{Status: "open", Postcode: "sw1a 2bb", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, groups, 1)
	assert.Equal(t, "15.00", groups[0].DiscountPercent.StringFixed(2))

	g, err := repo.GetByID(ctx, groupID, buyer)
	require.NoError(t, err)
	assert.True(t, g.HasJoined)
	assert.Equal(t, 1, g.ParticipantsCount)

	g, err = repo.GetByID(ctx, groupID, 0)
	require.NoError(t, err)
	assert.False(t, g.HasJoined)

	_, err = repo.GetByID(ctx, groupID+100, 0)
	assert.ErrorIs(t, err, ErrNotFound)
}
