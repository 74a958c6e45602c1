package order

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/localmarket/internal/api"
	"github.com/georgemunganga/localmarket/internal/httpx"
	"github.com/georgemunganga/localmarket/internal/middleware"
)

// Handler exposes order HTTP endpoints.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) RegisterRoutes(r chi.Router, requireUser func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(requireUser)
		r.Get("/orders/", h.listOrders)                 // GET   /api/orders/?status=pending
		r.Post("/orders/", h.placeOrder)                // POST  /api/orders/
		r.Get("/orders/{id}/", h.getOrder)              // GET   /api/orders/{id}/
		r.Patch("/orders/{id}/status/", h.updateStatus)  // PATCH /api/orders/{id}/status/
		r.Post("/orders/{id}/cancel/", h.cancelOrder)   // POST  /api/orders/{id}/cancel/
		r.Get("/addresses/", h.listAddresses)           // GET   /api/addresses/
		r.Get("/vendors/me/orders/", h.listVendorOrders) // GET   /api/vendors/me/orders/
	})
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	h.respondOrders(w, r, "list orders", h.service.ListBuyerOrders)
}

// listVendorOrders lists the orders received by the caller's shop. Callers
// without a shop get an empty page.
func (h *Handler) listVendorOrders(w http.ResponseWriter, r *http.Request) {
	h.respondOrders(w, r, "list vendor orders", h.service.ListVendorOrders)
}

type listFunc func(ctx context.Context, userID int, status string, limit, offset int) ([]*Order, int, error)

func (h *Handler) respondOrders(w http.ResponseWriter, r *http.Request, op string, list listFunc) {
	userID, _ := middleware.UserID(r.Context())
	page := httpx.ParsePage(r)

	orders, total, err := list(r.Context(), userID, r.URL.Query().Get("status"), page.Size, page.Offset())
	if err != nil {
		h.fail(w, r, op, err)
		return
	}

	items := make([]api.Order, 0, len(orders))
	for _, o := range orders {
		items = append(items, o.ToAPI())
	}
	httpx.Respond(w, http.StatusOK, httpx.Paginate(r, page, total, items))
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	var req api.CreateOrderRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	o, err := h.service.PlaceOrder(r.Context(), userID, req)
	if err != nil {
		h.fail(w, r, "place order", err)
		return
	}
	httpx.Respond(w, http.StatusCreated, o.ToAPI())
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())
	id, err := httpx.IntParam(r, "id")
	if err != nil {
		httpx.Error(w, http.StatusNotFound, ErrNotFound.Error())
		return
	}
	o, err := h.service.GetOrder(r.Context(), userID, id)
	if err != nil {
		h.fail(w, r, "get order", err)
		return
	}
	httpx.Respond(w, http.StatusOK, o.ToAPI())
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())
	id, err := httpx.IntParam(r, "id")
	if err != nil {
		httpx.Error(w, http.StatusNotFound, ErrNotFound.Error())
		return
	}
	var req api.UpdateOrderStatusRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	o, err := h.service.UpdateStatus(r.Context(), userID, id, req.Status)
	if err != nil {
		h.fail(w, r, "update order status", err)
		return
	}
	httpx.Respond(w, http.StatusOK, o.ToAPI())
}

func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())
	id, err := httpx.IntParam(r, "id")
	if err != nil {
		httpx.Error(w, http.StatusNotFound, ErrNotFound.Error())
		return
	}
	o, err := h.service.CancelOrder(r.Context(), userID, id)
	if err != nil {
		h.fail(w, r, "cancel order", err)
		return
	}
	httpx.Respond(w, http.StatusOK, o.ToAPI())
}

func (h *Handler) listAddresses(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())
	addresses, err := h.service.ListAddresses(r.Context(), userID)
	if err != nil {
		h.fail(w, r, "list addresses", err)
		return
	}
	out := make([]api.Address, 0, len(addresses))
	for _, a := range addresses {
		out = append(out, a.ToAPI())
	}
	httpx.Respond(w, http.StatusOK, out)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Error(w, http.StatusNotFound, ErrNotFound.Error())
	case errors.Is(err, ErrForbidden):
		httpx.Error(w, http.StatusForbidden, ErrForbidden.Error())
	case errors.Is(err, ErrProductUnavailable):
		httpx.Error(w, http.StatusUnprocessableEntity, ErrProductUnavailable.Error())
	case errors.Is(err, ErrInvalidOrder):
		httpx.Error(w, http.StatusBadRequest, strings.TrimPrefix(err.Error(), ErrInvalidOrder.Error()+": "))
	case errors.Is(err, ErrInvalidTransition):
		httpx.Error(w, http.StatusConflict, strings.TrimPrefix(err.Error(), ErrInvalidTransition.Error()+": "))
	default:
		h.logger.ErrorContext(r.Context(), op+" failed", "error", err)
		httpx.Error(w, http.StatusInternalServerError, "Could not process order request")
	}
}
