package catalog

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/localmarket/internal/api"
	"github.com/georgemunganga/localmarket/internal/modules/vendor"
)

type stubRepo struct {
	products []*Product
	lastF    Filter
}

func (s *stubRepo) List(_ context.Context, f Filter) ([]*Product, int, error) {
	s.lastF = f
	var out []*Product
	for _, p := range s.products {
		if f.MinPrice != nil && p.Price.LessThan(*f.MinPrice) {
			continue
		}
		if f.MaxPrice != nil && p.Price.GreaterThan(*f.MaxPrice) {
			continue
		}
		out = append(out, p)
	}
	total := len(out)
	end := min(f.Offset+f.Limit, total)
	if f.Offset >= total {
		return []*Product{}, total, nil
	}
	return out[f.Offset:end], total, nil
}

func (s *stubRepo) GetByID(_ context.Context, id int) (*Product, error) {
	for _, p := range s.products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, ErrNotFound
}

type stubVendors struct{}

func (stubVendors) GetVendorByID(_ context.Context, id int) (*vendor.Vendor, error) {
	return &vendor.Vendor{ID: id, UserID: 1, BusinessName: "Green Grocer", CommissionRate: decimal.RequireFromString("0.1")}, nil
}
func (stubVendors) GetVendorByUserID(context.Context, int) (*vendor.Vendor, error) {
	return nil, vendor.ErrNotFound
}
func (stubVendors) GetStats(context.Context, int) (*vendor.Stats, error) { return nil, vendor.ErrNotFound }

func fixture() *stubRepo {
	at := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	return &stubRepo{products: []*Product{
		{ID: 3, VendorID: 2, VendorName: "Green Grocer", Name: "Leeks", Category: "veg", Price: decimal.RequireFromString("1.5"), IsActive: true, CreatedAt: at, UpdatedAt: at, Tags: []string{"local"}},
		{ID: 2, VendorID: 2, VendorName: "Green Grocer", Name: "Kale", Category: "veg", Price: decimal.RequireFromString("2.25"), IsActive: true, CreatedAt: at},
		{ID: 1, VendorID: 2, VendorName: "Green Grocer", Name: "Honey", Category: "larder", Price: decimal.RequireFromString("7"), IsActive: true, CreatedAt: at},
	}}
}

func newRouter(repo Repository) *chi.Mux {
	r := chi.NewRouter()
	NewHandler(NewService(repo, stubVendors{}), slog.New(slog.NewTextHandler(io.Discard, nil))).RegisterRoutes(r, nil)
	return r
}

func TestListProducts_PriceRangeAndPaging(t *testing.T) {
	repo := fixture()
	rec := httptest.NewRecorder()
	newRouter(repo).ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/products/?min_price=1&max_price=5&page_size=1", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var page api.Paginated[api.Product]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 2, page.Count)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "Leeks", page.Results[0].Name)
	assert.Equal(t, "1.50", page.Results[0].Price)
	assert.True(t, page.HasNext())
	assert.Nil(t, page.Previous)
	assert.Equal(t, "1", repo.lastF.MinPrice.String())
}

func TestListProducts_RejectsBadPrices(t *testing.T) {
	for _, q := range []string{"min_price=abc", "max_price=-1", "min_price=9&max_price=2"} {
		rec := httptest.NewRecorder()
		newRouter(fixture()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/?"+q, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
		assert.NotContains(t, rec.Body.String(), "invalid filter", q)
	}
}

func TestGetProduct_Detail(t *testing.T) {
	r := newRouter(fixture())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/3/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var d api.ProductDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &d))
	assert.Equal(t, 3, d.ID)
	assert.Equal(t, "Green Grocer", d.VendorDetails.BusinessName)
	assert.Equal(t, []string{"local"}, d.Tags)
	assert.Equal(t, []string{}, d.Images)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/404/", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Product not found"}`, rec.Body.String())
}
