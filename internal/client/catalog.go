package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/georgemunganga/localmarket/internal/api"
)

// VendorsService wraps the /vendors endpoints.
type VendorsService struct{ c *Client }

// Stats returns dashboard figures for the signed-in vendor.
func (s *VendorsService) Stats(ctx context.Context) (api.Response[api.VendorStats], error) {
	return call[api.VendorStats](ctx, s.c, http.MethodGet, "/vendors/me/stats/", nil, nil)
}

// Get returns a vendor profile.
func (s *VendorsService) Get(ctx context.Context, id int) (api.Response[api.Vendor], error) {
	return call[api.Vendor](ctx, s.c, http.MethodGet, "/vendors/"+strconv.Itoa(id)+"/", nil, nil)
}

// CatalogService wraps the /products endpoints.
type CatalogService struct{ c *Client }

// ListProducts returns one page of products.
func (s *CatalogService) ListProducts(ctx context.Context, q api.ProductQuery) (api.Response[api.Paginated[api.Product]], error) {
	v := url.Values{}
	setPage(v, q.Page, q.PageSize)
	setIfNotEmpty(v, "category", q.Category)
	setIfNotEmpty(v, "search", q.Search)
	setIfNotEmpty(v, "min_price", q.MinPrice)
	setIfNotEmpty(v, "max_price", q.MaxPrice)
	return call[api.Paginated[api.Product]](ctx, s.c, http.MethodGet, "/products/", v, nil)
}

// GetProduct returns the detail view of a product.
func (s *CatalogService) GetProduct(ctx context.Context, id int) (api.Response[api.ProductDetail], error) {
	return call[api.ProductDetail](ctx, s.c, http.MethodGet, "/products/"+strconv.Itoa(id)+"/", nil, nil)
}

// BuyingGroupsService wraps the /buying-groups endpoints.
type BuyingGroupsService struct{ c *Client }

// List returns one page of open buying groups.
func (s *BuyingGroupsService) List(ctx context.Context, page int) (api.Response[api.Paginated[api.BuyingGroup]], error) {
	v := url.Values{}
	setPage(v, page, 0)
	return call[api.Paginated[api.BuyingGroup]](ctx, s.c, http.MethodGet, "/buying-groups/", v, nil)
}

// Get returns the detail view of a buying group.
func (s *BuyingGroupsService) Get(ctx context.Context, id int) (api.Response[api.BuyingGroupDetail], error) {
	return call[api.BuyingGroupDetail](ctx, s.c, http.MethodGet, "/buying-groups/"+strconv.Itoa(id)+"/", nil, nil)
}

// OrdersService wraps the /orders, /vendors/me/orders and /addresses endpoints.
type OrdersService struct{ c *Client }

// List returns one page of the caller's orders.
func (s *OrdersService) List(ctx context.Context, page int) (api.Response[api.Paginated[api.Order]], error) {
	v := url.Values{}
	setPage(v, page, 0)
	return call[api.Paginated[api.Order]](ctx, s.c, http.MethodGet, "/orders/", v, nil)
}

// ListVendor returns one page of the orders received by the caller's shop.
func (s *OrdersService) ListVendor(ctx context.Context, page int) (api.Response[api.Paginated[api.Order]], error) {
	v := url.Values{}
	setPage(v, page, 0)
	return call[api.Paginated[api.Order]](ctx, s.c, http.MethodGet, "/vendors/me/orders/", v, nil)
}

// Addresses returns the caller's saved addresses.
func (s *OrdersService) Addresses(ctx context.Context) (api.Response[[]api.Address], error) {
	return call[[]api.Address](ctx, s.c, http.MethodGet, "/addresses/", nil, nil)
}

func setPage(v url.Values, page, size int) {
	if page > 0 {
		v.Set("page", strconv.Itoa(page))
	}
	if size > 0 {
		v.Set("page_size", strconv.Itoa(size))
	}
}

func setIfNotEmpty(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}
