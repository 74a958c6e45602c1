package payment

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/localmarket/internal/api"
	"github.com/georgemunganga/localmarket/internal/httpx"
	"github.com/georgemunganga/localmarket/internal/middleware"
)

// Handler exposes checkout payment endpoints.
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
		r.Post("/payments/create-intent/", h.createIntent)                // POST /api/payments/create-intent/
		r.Post("/payments/confirm-payment/", h.confirmPayment)            // POST /api/payments/confirm-payment/
		r.Get("/payments/payment-status/{intentID}/", h.getPaymentStatus) // GET  /api/payments/payment-status/{intentID}/
	})
}

func (h *Handler) createIntent(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	var req api.CreateIntentRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	intent, err := h.service.CreateIntent(r.Context(), userID, req.OrderIDs)
	if err != nil {
		h.fail(w, r, "create payment intent", err)
		return
	}
	httpx.Respond(w, http.StatusCreated, intent)
}

func (h *Handler) confirmPayment(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	var req api.ConfirmPaymentRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := h.service.ConfirmPayment(r.Context(), userID, req.PaymentIntentID, req.OrderIDs)
	if err != nil {
		h.fail(w, r, "confirm payment", err)
		return
	}
	httpx.Respond(w, http.StatusOK, res)
}

func (h *Handler) getPaymentStatus(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	intentID, err := url.PathUnescape(chi.URLParam(r, "intentID"))
	if err != nil {
		httpx.Error(w, http.StatusNotFound, ErrNotFound.Error())
		return
	}
	status, err := h.service.GetStatus(r.Context(), userID, intentID)
	if err != nil {
		h.fail(w, r, "get payment status", err)
		return
	}
	httpx.Respond(w, http.StatusOK, status)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Error(w, http.StatusNotFound, ErrNotFound.Error())
	case errors.Is(err, ErrOrdersNotFound):
		httpx.Error(w, http.StatusNotFound, ErrOrdersNotFound.Error())
	case errors.Is(err, ErrInvalidRequest):
		httpx.Error(w, http.StatusBadRequest, strings.TrimPrefix(err.Error(), ErrInvalidRequest.Error()+": "))
	case errors.Is(err, ErrOrdersNotPayable):
		httpx.Error(w, http.StatusBadRequest, ErrOrdersNotPayable.Error())
	case errors.Is(err, ErrMixedVendors):
		httpx.Error(w, http.StatusBadRequest, ErrMixedVendors.Error())
	case errors.Is(err, ErrOrderNotInIntent):
		httpx.Error(w, http.StatusBadRequest, ErrOrderNotInIntent.Error())
	case errors.Is(err, ErrPaymentNotSucceeded):
		httpx.Error(w, http.StatusBadRequest, ErrPaymentNotSucceeded.Error())
	case errors.Is(err, ErrGateway):
		h.logger.ErrorContext(r.Context(), op+" failed", "error", err)
		httpx.Error(w, http.StatusBadGateway, ErrGateway.Error())
	default:
		h.logger.ErrorContext(r.Context(), op+" failed", "error", err)
		httpx.Error(w, http.StatusInternalServerError, "Could not process payment request")
	}
}
