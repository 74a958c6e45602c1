package payment

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/localmarket/internal/api"
	"github.com/georgemunganga/localmarket/internal/client"
	"github.com/georgemunganga/localmarket/internal/middleware"
)

type memRepo struct {
	mu      sync.Mutex
	orders  map[int]*PayableOrder
	intents map[string]*Intent
}

func newMemRepo() *memRepo {
	rate := decimal.RequireFromString("0.1500")
	return &memRepo{
		orders: map[int]*PayableOrder{
			1: {ID: 1, ReferenceNumber: "LM-1", BuyerID: 7, VendorID: 4, VendorName: "Hillside Farm", CommissionRate: rate,
				Status: api.OrderPending, TotalPrice: decimal.RequireFromString("12.40"), DeliveryFee: decimal.RequireFromString("3.50")},
			2: {ID: 2, ReferenceNumber: "LM-2", BuyerID: 7, VendorID: 4, VendorName: "Hillside Farm", CommissionRate: rate,
				Status: api.OrderPending, TotalPrice: decimal.RequireFromString("4.99"), DeliveryFee: decimal.Zero},
			3: {ID: 3, ReferenceNumber: "LM-3", BuyerID: 7, VendorID: 5, VendorName: "Town Bakery", CommissionRate: rate,
				Status: api.OrderPending, TotalPrice: decimal.RequireFromString("2.00"), DeliveryFee: decimal.Zero},
			4: {ID: 4, ReferenceNumber: "LM-4", BuyerID: 8, VendorID: 4, VendorName: "Hillside Farm", CommissionRate: rate,
				Status: api.OrderPending, TotalPrice: decimal.RequireFromString("1.00"), DeliveryFee: decimal.Zero},
			5: {ID: 5, ReferenceNumber: "LM-5", BuyerID: 7, VendorID: 4, VendorName: "Hillside Farm", CommissionRate: rate,
				Status: api.OrderCancelled, TotalPrice: decimal.RequireFromString("1.00"), DeliveryFee: decimal.Zero},
		},
		intents: map[string]*Intent{},
	}
}

func (m *memRepo) GetPayableOrders(_ context.Context, ids []int) ([]*PayableOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*PayableOrder
	for _, id := range ids {
		if o, ok := m.orders[id]; ok {
			cp := *o
			out = append(out, &cp)
		}
	}
	slices.SortFunc(out, func(a, b *PayableOrder) int { return a.ID - b.ID })
	return out, nil
}

func (m *memRepo) CreateIntent(_ context.Context, in *Intent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	in.CreatedAt = time.Now()
	in.UpdatedAt = in.CreatedAt
	cp := *in
	m.intents[in.ID] = &cp
	return nil
}

func (m *memRepo) GetIntent(_ context.Context, id string) (*Intent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if in, ok := m.intents[id]; ok {
		cp := *in
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (m *memRepo) UpdateIntentStatus(_ context.Context, id, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	in, ok := m.intents[id]
	if !ok {
		return ErrNotFound
	}
	in.Status = status
	return nil
}

func (m *memRepo) MarkOrdersPaid(_ context.Context, intentID string, ids []int) (ConfirmResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		if m.orders[id].Status == api.OrderCancelled {
			return ConfirmResult{}, ErrOrdersNotPayable
		}
	}
	var res ConfirmResult
	for _, id := range ids {
		if m.orders[id].Status == api.OrderPending {
			m.orders[id].Status = api.OrderPaid
			res.Updated++
		} else {
			res.AlreadyPaid++
		}
	}
	m.intents[intentID].Status = api.PaymentSucceeded
	return res, nil
}

type failingGateway struct{}

func (failingGateway) CreateIntent(context.Context, int64, string) (*ProviderIntent, error) {
	return nil, errors.New("connection refused")
}

func (failingGateway) Retrieve(context.Context, string) (*ProviderIntent, error) {
	return nil, errors.New("connection refused")
}

func discardLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestSplitCommission_RoundsHalfUp(t *testing.T) {
	tests := []struct {
		amount     int64
		rate       string
		commission int64
	}{
		{2079, "0.15", 312}, // 311.85
		{1000, "0.15", 150},
		{10, "0.15", 2}, // 1.5
		{1, "0.10", 0},
		{999, "0", 0},
	}
	for _, tt := range tests {
		commission, payout := splitCommission(tt.amount, decimal.RequireFromString(tt.rate))
		assert.Equal(t, tt.commission, commission, "amount %d rate %s", tt.amount, tt.rate)
		assert.Equal(t, tt.amount, commission+payout)
	}
}

func TestNormaliseStatus(t *testing.T) {
	assert.Equal(t, api.PaymentSucceeded, NormaliseStatus(" Succeeded "))
	assert.Equal(t, api.PaymentCanceled, NormaliseStatus("cancelled"))
	assert.Equal(t, api.PaymentRequiresPaymentMethod, NormaliseStatus("failed"))
	assert.Equal(t, api.PaymentRequiresAction, NormaliseStatus("requires_confirmation"))
	assert.Equal(t, api.PaymentProcessing, NormaliseStatus("something-new"))
}

func TestSandboxGateway(t *testing.T) {
	ctx := context.Background()
	g := NewSandboxGateway(false)

	pi, err := g.CreateIntent(ctx, 100, "gbp")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(pi.ID, "pi_"))
	assert.True(t, strings.HasPrefix(pi.ClientSecret, pi.ID+"_secret_"))

	got, err := g.Retrieve(ctx, pi.ID)
	require.NoError(t, err)
	assert.Equal(t, api.PaymentRequiresPaymentMethod, got.Status)

	g.SetStatus(pi.ID, api.PaymentSucceeded)
	got, _ = g.Retrieve(ctx, pi.ID)
	assert.Equal(t, api.PaymentSucceeded, got.Status)

	got, _ = NewSandboxGateway(true).Retrieve(ctx, "pi_unknown")
	assert.Equal(t, api.PaymentSucceeded, got.Status)
}

func TestCreateIntent_PricesOrders(t *testing.T) {
	svc := NewService(newMemRepo(), NewSandboxGateway(false), "GBP", discardLogger())

	pi, err := svc.CreateIntent(context.Background(), 7, []int{2, 1})
	require.NoError(t, err)

	// (12.40 + 3.50 + 4.99) * 100 = 2089, 15% = 313.35
	assert.Equal(t, int64(2089), pi.Amount)
	assert.Equal(t, int64(313), pi.Commission)
	assert.Equal(t, int64(1776), pi.VendorPayout)
	assert.Equal(t, "gbp", pi.Currency)
	assert.Equal(t, api.VendorSummary{ID: 4, BusinessName: "Hillside Farm"}, pi.Vendor)
	require.Len(t, pi.Orders, 2)
	assert.Equal(t, "12.40", pi.Orders[0].TotalPrice)
}

func TestCreateIntent_Rejections(t *testing.T) {
	tests := []struct {
		name string
		ids  []int
		want error
	}{
		{"empty", nil, ErrInvalidRequest},
		{"non-positive", []int{1, 0}, ErrInvalidRequest},
		{"duplicate", []int{1, 1}, ErrInvalidRequest},
		{"unknown order", []int{1, 99}, ErrOrdersNotFound},
		{"other buyer", []int{4}, ErrOrdersNotFound},
		{"cancelled", []int{5}, ErrOrdersNotPayable},
		{"two vendors", []int{1, 3}, ErrMixedVendors},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(newMemRepo(), NewSandboxGateway(false), "gbp", discardLogger())
			_, err := svc.CreateIntent(context.Background(), 7, tt.ids)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCreateIntent_GatewayFailure(t *testing.T) {
	svc := NewService(newMemRepo(), failingGateway{}, "gbp", discardLogger())
	_, err := svc.CreateIntent(context.Background(), 7, []int{1})
	assert.ErrorIs(t, err, ErrGateway)
}

func TestConfirmPayment_Idempotent(t *testing.T) {
	repo := newMemRepo()
	gw := NewSandboxGateway(false)
	svc := NewService(repo, gw, "gbp", discardLogger())
	ctx := context.Background()

	pi, err := svc.CreateIntent(ctx, 7, []int{1, 2})
	require.NoError(t, err)

	_, err = svc.ConfirmPayment(ctx, 7, pi.IntentID, []int{1, 2})
	assert.ErrorIs(t, err, ErrPaymentNotSucceeded)
	assert.Equal(t, api.OrderPending, repo.orders[1].Status)

	gw.SetStatus(pi.IntentID, api.PaymentSucceeded)

	first, err := svc.ConfirmPayment(ctx, 7, pi.IntentID, []int{1})
	require.NoError(t, err)
	assert.Equal(t, 1, first.OrdersUpdated)
	assert.Equal(t, 0, first.OrdersAlreadyPaid)

	second, err := svc.ConfirmPayment(ctx, 7, pi.IntentID, []int{1, 2})
	require.NoError(t, err)
	assert.Equal(t, 1, second.OrdersUpdated)
	assert.Equal(t, 1, second.OrdersAlreadyPaid)

	third, err := svc.ConfirmPayment(ctx, 7, pi.IntentID, []int{1, 2})
	require.NoError(t, err)
	assert.Equal(t, 0, third.OrdersUpdated)
	assert.Equal(t, 2, third.OrdersAlreadyPaid)
	assert.Equal(t, "Payment already confirmed", third.Message)
}

func TestConfirmPayment_Rejections(t *testing.T) {
	gw := NewSandboxGateway(true)
	svc := NewService(newMemRepo(), gw, "gbp", discardLogger())
	ctx := context.Background()

	pi, err := svc.CreateIntent(ctx, 7, []int{1})
	require.NoError(t, err)

	_, err = svc.ConfirmPayment(ctx, 8, pi.IntentID, []int{1})
	assert.ErrorIs(t, err, ErrNotFound, "another buyer's intent is invisible")

	_, err = svc.ConfirmPayment(ctx, 7, "pi_missing", []int{1})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.ConfirmPayment(ctx, 7, " ", []int{1})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = svc.ConfirmPayment(ctx, 7, pi.IntentID, []int{1, 2})
	assert.ErrorIs(t, err, ErrOrderNotInIntent)
}

func TestGetStatus_RefreshesFromGateway(t *testing.T) {
	repo := newMemRepo()
	gw := NewSandboxGateway(false)
	svc := NewService(repo, gw, "gbp", discardLogger())
	ctx := context.Background()

	pi, err := svc.CreateIntent(ctx, 7, []int{1})
	require.NoError(t, err)

	st, err := svc.GetStatus(ctx, 7, pi.IntentID)
	require.NoError(t, err)
	assert.Equal(t, api.PaymentRequiresPaymentMethod, st.Status)
	assert.Equal(t, []api.OrderState{{ID: 1, Status: api.OrderPending}}, st.Orders)

	gw.SetStatus(pi.IntentID, "processing")
	st, err = svc.GetStatus(ctx, 7, pi.IntentID)
	require.NoError(t, err)
	assert.Equal(t, api.PaymentProcessing, st.Status)
	assert.Equal(t, api.PaymentProcessing, repo.intents[pi.IntentID].Status)
}

func newRouter(svc Service, userID int) *chi.Mux {
	asUser := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.WithUserID(r.Context(), userID)))
		})
	}
	r := chi.NewRouter()
	NewHandler(svc, discardLogger()).RegisterRoutes(r, asUser)
	return r
}

func TestHandler_StatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		svc    Service
		method string
		path   string
		body   string
		code   int
		errMsg string
	}{
		{"bad json", NewService(newMemRepo(), NewSandboxGateway(true), "gbp", discardLogger()),
			http.MethodPost, "/payments/create-intent/", `{`, http.StatusBadRequest, "Invalid JSON body"},
		{"empty ids", NewService(newMemRepo(), NewSandboxGateway(true), "gbp", discardLogger()),
			http.MethodPost, "/payments/create-intent/", `{"order_ids":[]}`, http.StatusBadRequest, "order_ids must not be empty"},
		{"mixed vendors", NewService(newMemRepo(), NewSandboxGateway(true), "gbp", discardLogger()),
			http.MethodPost, "/payments/create-intent/", `{"order_ids":[1,3]}`, http.StatusBadRequest, "All orders must be from the same vendor"},
		{"unknown order", NewService(newMemRepo(), NewSandboxGateway(true), "gbp", discardLogger()),
			http.MethodPost, "/payments/create-intent/", `{"order_ids":[42]}`, http.StatusNotFound, "One or more orders were not found"},
		{"gateway down", NewService(newMemRepo(), failingGateway{}, "gbp", discardLogger()),
			http.MethodPost, "/payments/create-intent/", `{"order_ids":[1]}`, http.StatusBadGateway, "Payment provider unavailable"},
		{"unknown intent", NewService(newMemRepo(), NewSandboxGateway(true), "gbp", discardLogger()),
			http.MethodGet, "/payments/payment-status/pi_nope/", "", http.StatusNotFound, "Payment intent not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			newRouter(tt.svc, 7).ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body)))
			assert.Equal(t, tt.code, rec.Code)

			var body api.ErrorBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.errMsg, body.Error)
		})
	}
}

// TestClientCheckoutFlow drives the typed client against the real handlers.
func TestClientCheckoutFlow(t *testing.T) {
	repo := newMemRepo()
	gw := NewSandboxGateway(false)
	srv := httptest.NewServer(newRouter(NewService(repo, gw, "gbp", discardLogger()), 7))
	defer srv.Close()

	c, err := client.New(srv.URL, client.WithTokenSource(client.StaticToken("t")))
	require.NoError(t, err)
	ctx := context.Background()
	ids := []int{1, 2}

	intent, err := c.Payments.CreateIntent(ctx, ids)
	require.NoError(t, err)
	assert.Equal(t, int64(2089), intent.Data.Amount)

	_, err = c.Payments.ConfirmPayment(ctx, intent.Data.IntentID, ids)
	assert.True(t, client.IsStatus(err, http.StatusBadRequest))
	assert.Equal(t, "Payment has not succeeded", client.Message(err))

	gw.SetStatus(intent.Data.IntentID, api.PaymentSucceeded)

	first, err := c.Payments.ConfirmPayment(ctx, intent.Data.IntentID, ids)
	require.NoError(t, err)
	second, err := c.Payments.ConfirmPayment(ctx, intent.Data.IntentID, ids)
	require.NoError(t, err)

	for _, res := range []api.PaymentConfirmation{first.Data, second.Data} {
		assert.Equal(t, len(ids), res.OrdersUpdated+res.OrdersAlreadyPaid)
	}
	assert.LessOrEqual(t, second.Data.OrdersUpdated, first.Data.OrdersUpdated)
	assert.Equal(t, 2, first.Data.OrdersUpdated)
	assert.Equal(t, second.Data.Message, second.Message)

	status, err := c.Payments.PollStatus(ctx, intent.Data.IntentID, 10*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, api.PaymentSucceeded, status.Data.Status)
	for _, o := range status.Data.Orders {
		assert.Equal(t, api.OrderPaid, o.Status)
	}
}
