//go:build integration

package catalog

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/localmarket/internal/testutil"
)

func TestIntegrationCatalogRepository_ListFilters(t *testing.T) {
	db := testutil.OpenDB(t)
	ctx := context.Background()
	repo := NewPostgresRepository(db)

	seller := testutil.CreateUser(t, db, "pw-seller-123", true)
	vendorID := testutil.CreateVendor(t, db, seller, "0.10")
	cheap := testutil.CreateProduct(t, db, vendorID, "veg", "1.20")
	testutil.CreateProduct(t, db, vendorID, "veg", "8.00")
	testutil.CreateProduct(t, db, vendorID, "dairy", "2.00")

	maxPrice := decimal.RequireFromString("5")
	products, total, err := repo.List(ctx, Filter{Category: "veg", MaxPrice: &maxPrice, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, products, 1)
	assert.Equal(t, cheap, products[0].ID)
	assert.Equal(t, []string{"local"}, products[0].Tags)

	p, err := repo.GetByID(ctx, cheap)
	require.NoError(t, err)
	assert.Equal(t, "1.20", p.Price.StringFixed(2))

	_, err = repo.GetByID(ctx, cheap+1000)
	assert.ErrorIs(t, err, ErrNotFound)
}
