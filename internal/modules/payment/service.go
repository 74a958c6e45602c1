package payment

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/georgemunganga/localmarket/internal/api"
)

// Service defines the checkout payment business logic.
type Service interface {
	// CreateIntent prices the buyer's pending orders and opens a provider intent.
	CreateIntent(ctx context.Context, buyerID int, orderIDs []int) (*api.PaymentIntent, error)

	// ConfirmPayment marks the intent's orders paid once the provider reports
	// success. Repeating it never pays an order twice.
	ConfirmPayment(ctx context.Context, buyerID int, intentID string, orderIDs []int) (*api.PaymentConfirmation, error)

	// GetStatus refreshes the intent status from the provider.
	GetStatus(ctx context.Context, buyerID int, intentID string) (*api.PaymentStatus, error)
}

type service struct {
	repo     Repository
	gateway  Gateway
	currency string
	logger   *slog.Logger
}

// NewService creates a new payment service.
func NewService(repo Repository, gateway Gateway, currency string, logger *slog.Logger) Service {
	return &service{
		repo:     repo,
		gateway:  gateway,
		currency: strings.ToLower(currency),
		logger:   logger,
	}
}

var hundred = decimal.NewFromInt(100)

func validateOrderIDs(ids []int) error {
	if len(ids) == 0 {
		return fmt.Errorf("%w: order_ids must not be empty", ErrInvalidRequest)
	}
	seen := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		if id <= 0 {
			return fmt.Errorf("%w: order_ids must be positive integers", ErrInvalidRequest)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: order_ids must not repeat", ErrInvalidRequest)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// splitCommission returns the platform commission on amount minor units,
// rounded half up, and the remainder owed to the vendor.
func splitCommission(amount int64, rate decimal.Decimal) (commission, payout int64) {
	commission = decimal.NewFromInt(amount).Mul(rate).Round(0).IntPart()
	return commission, amount - commission
}

func (s *service) CreateIntent(ctx context.Context, buyerID int, orderIDs []int) (*api.PaymentIntent, error) {
	if err := validateOrderIDs(orderIDs); err != nil {
		return nil, err
	}

	orders, err := s.repo.GetPayableOrders(ctx, orderIDs)
	if err != nil {
		return nil, err
	}
	if len(orders) != len(orderIDs) {
		return nil, ErrOrdersNotFound
	}

	total := decimal.Zero
	for _, o := range orders {
		if o.BuyerID != buyerID {
			return nil, ErrOrdersNotFound
		}
		if o.Status != api.OrderPending {
			return nil, ErrOrdersNotPayable
		}
		if o.VendorID != orders[0].VendorID {
			return nil, ErrMixedVendors
		}
		total = total.Add(o.TotalPrice).Add(o.DeliveryFee)
	}

	amount := total.Mul(hundred).Round(0).IntPart()
	if amount <= 0 {
		return nil, fmt.Errorf("%w: order total must be greater than zero", ErrInvalidRequest)
	}
	commission, payout := splitCommission(amount, orders[0].CommissionRate)

	pi, err := s.gateway.CreateIntent(ctx, amount, s.currency)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}

	ids := slices.Clone(orderIDs)
	slices.Sort(ids)
	in := &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		BuyerID:      buyerID,
		VendorID:     orders[0].VendorID,
		Amount:       amount,
		Currency:     s.currency,
		Commission:   commission,
		VendorPayout: payout,
		Status:       NormaliseStatus(pi.Status),
		OrderIDs:     ids,
	}
	if err := s.repo.CreateIntent(ctx, in); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "payment intent created",
		"intent_id", in.ID,
		"buyer_id", buyerID,
		"vendor_id", in.VendorID,
		"amount", amount,
		"orders", len(ids),
	)

	out := &api.PaymentIntent{
		ClientSecret: in.ClientSecret,
		IntentID:     in.ID,
		Amount:       amount,
		Currency:     in.Currency,
		Vendor:       api.VendorSummary{ID: in.VendorID, BusinessName: orders[0].VendorName},
		Orders:       make([]api.IntentOrder, 0, len(orders)),
		Commission:   commission,
		VendorPayout: payout,
	}
	for _, o := range orders {
		out.Orders = append(out.Orders, api.IntentOrder{
			ID:              o.ID,
			ReferenceNumber: o.ReferenceNumber,
			TotalPrice:      o.TotalPrice.StringFixed(2),
		})
	}
	return out, nil
}

// ownedIntent loads an intent, hiding intents of other buyers.
func (s *service) ownedIntent(ctx context.Context, buyerID int, intentID string) (*Intent, error) {
	if strings.TrimSpace(intentID) == "" {
		return nil, fmt.Errorf("%w: payment_intent_id is required", ErrInvalidRequest)
	}
	in, err := s.repo.GetIntent(ctx, intentID)
	if err != nil {
		return nil, err
	}
	if in.BuyerID != buyerID {
		return nil, ErrNotFound
	}
	return in, nil
}

func (s *service) ConfirmPayment(ctx context.Context, buyerID int, intentID string, orderIDs []int) (*api.PaymentConfirmation, error) {
	in, err := s.ownedIntent(ctx, buyerID, intentID)
	if err != nil {
		return nil, err
	}
	if err := validateOrderIDs(orderIDs); err != nil {
		return nil, err
	}
	for _, id := range orderIDs {
		if !slices.Contains(in.OrderIDs, id) {
			return nil, ErrOrderNotInIntent
		}
	}

	pi, err := s.gateway.Retrieve(ctx, in.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}
	status := NormaliseStatus(pi.Status)
	if status != api.PaymentSucceeded {
		s.recordStatus(ctx, in, status)
		return nil, ErrPaymentNotSucceeded
	}

	res, err := s.repo.MarkOrdersPaid(ctx, in.ID, orderIDs)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "payment confirmed",
		"intent_id", in.ID,
		"orders_updated", res.Updated,
		"orders_already_paid", res.AlreadyPaid,
	)

	msg := fmt.Sprintf("Payment confirmed, %d order(s) marked as paid", res.Updated)
	if res.Updated == 0 {
		msg = "Payment already confirmed"
	}
	return &api.PaymentConfirmation{
		Status:            api.PaymentSucceeded,
		Message:           msg,
		OrdersUpdated:     res.Updated,
		OrdersAlreadyPaid: res.AlreadyPaid,
	}, nil
}

func (s *service) GetStatus(ctx context.Context, buyerID int, intentID string) (*api.PaymentStatus, error) {
	in, err := s.ownedIntent(ctx, buyerID, intentID)
	if err != nil {
		return nil, err
	}

	status := in.Status
	if status != api.PaymentSucceeded && status != api.PaymentCanceled {
		pi, err := s.gateway.Retrieve(ctx, in.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrGateway, err)
		}
		status = NormaliseStatus(pi.Status)
		s.recordStatus(ctx, in, status)
	}

	orders, err := s.repo.GetPayableOrders(ctx, in.OrderIDs)
	if err != nil {
		return nil, err
	}
	out := &api.PaymentStatus{
		IntentID: in.ID,
		Status:   status,
		Amount:   in.Amount,
		Currency: in.Currency,
		Orders:   make([]api.OrderState, 0, len(orders)),
	}
	for _, o := range orders {
		out.Orders = append(out.Orders, api.OrderState{ID: o.ID, Status: o.Status})
	}
	return out, nil
}

// recordStatus stores a changed provider status. Failure is logged, the
// caller still reports the fresh status.
func (s *service) recordStatus(ctx context.Context, in *Intent, status string) {
	if status == in.Status {
		return
	}
	if err := s.repo.UpdateIntentStatus(ctx, in.ID, status); err != nil {
		s.logger.WarnContext(ctx, "failed to record payment status",
			"intent_id", in.ID, "status", status, "error", err)
		return
	}
	in.Status = status
}
