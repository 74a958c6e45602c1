package client

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/georgemunganga/localmarket/internal/api"
)

// PaymentsService wraps the /payments endpoints.
type PaymentsService struct{ c *Client }

// CreateIntent opens a payment intent covering orderIDs. Amount, commission
// and payout in the reply are authoritative and must not be recomputed.
func (s *PaymentsService) CreateIntent(ctx context.Context, orderIDs []int) (api.Response[api.PaymentIntent], error) {
	if err := validateOrderIDs(orderIDs); err != nil {
		return api.Response[api.PaymentIntent]{}, err
	}
	return call[api.PaymentIntent](ctx, s.c, http.MethodPost, "/payments/create-intent/", nil,
		api.CreateIntentRequest{OrderIDs: orderIDs})
}

// ConfirmPayment marks the orders paid once the provider reports success.
// Safe to repeat: orders paid by an earlier call count as already paid.
func (s *PaymentsService) ConfirmPayment(ctx context.Context, intentID string, orderIDs []int) (api.Response[api.PaymentConfirmation], error) {
	if strings.TrimSpace(intentID) == "" {
		return api.Response[api.PaymentConfirmation]{}, validationError("payment intent id is required")
	}
	if err := validateOrderIDs(orderIDs); err != nil {
		return api.Response[api.PaymentConfirmation]{}, err
	}
	resp, err := call[api.PaymentConfirmation](ctx, s.c, http.MethodPost, "/payments/confirm-payment/", nil,
		api.ConfirmPaymentRequest{PaymentIntentID: intentID, OrderIDs: orderIDs})
	if err != nil {
		return resp, err
	}
	resp.Message = resp.Data.Message
	return resp, nil
}

// GetStatus fetches a snapshot of the payment intent.
func (s *PaymentsService) GetStatus(ctx context.Context, intentID string) (api.Response[api.PaymentStatus], error) {
	if strings.TrimSpace(intentID) == "" {
		return api.Response[api.PaymentStatus]{}, validationError("payment intent id is required")
	}
	return call[api.PaymentStatus](ctx, s.c, http.MethodGet,
		"/payments/payment-status/"+url.PathEscape(intentID)+"/", nil, nil)
}

// PollStatus calls GetStatus every interval until the intent reaches a
// terminal status or ctx is done. Request errors end polling immediately.
func (s *PaymentsService) PollStatus(ctx context.Context, intentID string, interval time.Duration) (api.Response[api.PaymentStatus], error) {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		resp, err := s.GetStatus(ctx, intentID)
		if err != nil {
			return resp, err
		}
		if api.IsTerminalPaymentStatus(resp.Data.Status) {
			return resp, nil
		}
		select {
		case <-ctx.Done():
			return resp, ctx.Err()
		case <-ticker.C:
		}
	}
}

func validateOrderIDs(ids []int) error {
	if len(ids) == 0 {
		return validationError("at least one order id is required")
	}
	for _, id := range ids {
		if id <= 0 {
			return validationError("order id %d is not a positive integer", id)
		}
	}
	return nil
}
