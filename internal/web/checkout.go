package web

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/localmarket/internal/api"
	"github.com/georgemunganga/localmarket/internal/client"
)

type checkoutData struct {
	Intent       *api.PaymentIntent
	Confirmation *api.PaymentConfirmation
	Status       *api.PaymentStatus
	IntentID     string
	OrderIDs     []int
}

// formOrderIDs reads every order_id form value. Unparseable values become
// zero so the client rejects them before anything is sent.
func formOrderIDs(r *http.Request) []int {
	if err := r.ParseForm(); err != nil {
		return nil
	}
	raw := r.PostForm["order_id"]
	ids := make([]int, 0, len(raw))
	for _, v := range raw {
		id, _ := strconv.Atoi(v)
		ids = append(ids, id)
	}
	return ids
}

func (h *Handler) checkoutIntent(w http.ResponseWriter, r *http.Request) {
	ids := formOrderIDs(r)
	resp, err := h.api.Payments.CreateIntent(r.Context(), ids)
	if err != nil {
		h.apiFailure(w, r, "create payment intent", err)
		return
	}
	h.render(w, r, http.StatusOK, "checkout", view{
		Title: "Checkout",
		Data:  checkoutData{Intent: &resp.Data, IntentID: resp.Data.IntentID, OrderIDs: ids},
	})
}

func (h *Handler) checkoutConfirm(w http.ResponseWriter, r *http.Request) {
	ids := formOrderIDs(r)
	intentID := r.PostFormValue("intent_id")

	resp, err := h.api.Payments.ConfirmPayment(r.Context(), intentID, ids)
	if err != nil {
		if client.IsStatus(err, http.StatusBadRequest) {
			// Not paid yet: stay on the checkout page so the buyer can retry.
			h.render(w, r, http.StatusUnprocessableEntity, "checkout", view{
				Title: "Checkout",
				Error: errorMessage(err),
				Data:  checkoutData{IntentID: intentID, OrderIDs: ids},
			})
			return
		}
		h.apiFailure(w, r, "confirm payment", err)
		return
	}
	h.render(w, r, http.StatusOK, "checkout", view{
		Title: "Payment confirmed",
		Flash: resp.Message,
		Data:  checkoutData{Confirmation: &resp.Data, IntentID: intentID, OrderIDs: ids},
	})
}

func (h *Handler) checkoutStatus(w http.ResponseWriter, r *http.Request) {
	intentID, err := url.PathUnescape(chi.URLParam(r, "intentID"))
	if err != nil {
		h.render(w, r, http.StatusNotFound, "error", view{Title: "Payment", Error: "Payment intent not found"})
		return
	}
	resp, err := h.api.Payments.GetStatus(r.Context(), intentID)
	if err != nil {
		h.apiFailure(w, r, "payment status", err)
		return
	}
	h.render(w, r, http.StatusOK, "checkout", view{
		Title: "Payment status",
		Data:  checkoutData{Status: &resp.Data, IntentID: intentID},
	})
}
