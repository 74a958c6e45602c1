package order

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/georgemunganga/localmarket/internal/api"
)

// Service defines the order management business logic.
type Service interface {
	// PlaceOrder prices the product, reserves stock and persists a pending order.
	PlaceOrder(ctx context.Context, buyerID int, req api.CreateOrderRequest) (*Order, error)

	// GetOrder returns an order visible to userID as buyer or vendor.
	GetOrder(ctx context.Context, userID, id int) (*Order, error)

	// ListBuyerOrders returns one page of the buyer's orders.
	ListBuyerOrders(ctx context.Context, buyerID int, status string, limit, offset int) ([]*Order, int, error)

	// ListVendorOrders returns one page of the orders received by the caller's shop.
	ListVendorOrders(ctx context.Context, vendorUserID int, status string, limit, offset int) ([]*Order, int, error)

	// UpdateStatus advances a vendor's order through fulfilment.
	UpdateStatus(ctx context.Context, vendorUserID, id int, status string) (*Order, error)

	// CancelOrder cancels one of the buyer's pending orders.
	CancelOrder(ctx context.Context, buyerID, id int) (*Order, error)

	// ListAddresses returns the user's saved addresses.
	ListAddresses(ctx context.Context, userID int) ([]*Address, error)
}

type service struct {
	repo        Repository
	deliveryFee decimal.Decimal
	now         func() time.Time
}

// NewService creates a new order service. deliveryFee applies to home delivery.
func NewService(repo Repository, deliveryFee decimal.Decimal) Service {
	return &service{repo: repo, deliveryFee: deliveryFee, now: time.Now}
}

// validTransitions is the fulfilment lifecycle a vendor may drive. pending to
// paid happens only through payment confirmation.
var validTransitions = map[string][]string{
	api.OrderPending:   {api.OrderCancelled},
	api.OrderPaid:      {api.OrderConfirmed, api.OrderCancelled},
	api.OrderConfirmed: {api.OrderReady},
	api.OrderReady:     {api.OrderDelivered},
	api.OrderDelivered: {},
	api.OrderCancelled: {},
}

func (s *service) PlaceOrder(ctx context.Context, buyerID int, req api.CreateOrderRequest) (*Order, error) {
	if req.Product <= 0 {
		return nil, fmt.Errorf("%w: product is required", ErrInvalidOrder)
	}
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be greater than 0", ErrInvalidOrder)
	}

	method := strings.ToLower(strings.TrimSpace(req.DeliveryMethod))
	if method == "" {
		method = api.DeliveryCollection
	}
	if method != api.DeliveryCollection && method != api.DeliveryHome {
		return nil, fmt.Errorf("%w: delivery_method must be collection or delivery", ErrInvalidOrder)
	}

	pp, err := s.repo.GetProductPrice(ctx, req.Product)
	if err != nil {
		return nil, err
	}
	if !pp.Available || pp.Stock < req.Quantity {
		return nil, ErrProductUnavailable
	}

	o := &Order{
		ReferenceNumber: generateReferenceNumber(s.now()),
		BuyerID:         buyerID,
		VendorID:        pp.VendorID,
		ProductID:       req.Product,
		Quantity:        req.Quantity,
		UnitPrice:       pp.Price,
		TotalPrice:      pp.Price.Mul(decimal.NewFromInt(int64(req.Quantity))).Round(2),
		DeliveryFee:     decimal.Zero,
		Status:          api.OrderPending,
		DeliveryMethod:  method,
	}

	if method == api.DeliveryHome {
		if req.DeliveryAddress <= 0 {
			return nil, fmt.Errorf("%w: delivery_address is required for delivery", ErrInvalidOrder)
		}
		addr, err := s.repo.GetAddress(ctx, buyerID, req.DeliveryAddress)
		if err != nil {
			return nil, err
		}
		o.DeliveryAddress = addr
		o.DeliveryFee = s.deliveryFee
	}

	if err := s.repo.CreateOrder(ctx, o); err != nil {
		return nil, err
	}
	return s.repo.GetOrderByID(ctx, o.ID)
}

func (s *service) GetOrder(ctx context.Context, userID, id int) (*Order, error) {
	o, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.BuyerID != userID && o.VendorUserID != userID {
		return nil, ErrNotFound
	}
	return o, nil
}

func (s *service) ListBuyerOrders(ctx context.Context, buyerID int, status string, limit, offset int) ([]*Order, int, error) {
	status, err := normaliseStatusFilter(status)
	if err != nil {
		return nil, 0, err
	}
	return s.repo.ListOrdersByBuyer(ctx, buyerID, status, limit, offset)
}

func (s *service) ListVendorOrders(ctx context.Context, vendorUserID int, status string, limit, offset int) ([]*Order, int, error) {
	status, err := normaliseStatusFilter(status)
	if err != nil {
		return nil, 0, err
	}
	return s.repo.ListOrdersByVendorUser(ctx, vendorUserID, status, limit, offset)
}

func normaliseStatusFilter(status string) (string, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if _, ok := validTransitions[status]; status != "" && !ok {
		return "", fmt.Errorf("%w: unknown status %q", ErrInvalidOrder, status)
	}
	return status, nil
}

func (s *service) UpdateStatus(ctx context.Context, vendorUserID, id int, status string) (*Order, error) {
	o, err := s.GetOrder(ctx, vendorUserID, id)
	if err != nil {
		return nil, err
	}
	if o.VendorUserID != vendorUserID {
		return nil, ErrForbidden
	}
	return s.transition(ctx, o, strings.ToLower(strings.TrimSpace(status)))
}

func (s *service) CancelOrder(ctx context.Context, buyerID, id int) (*Order, error) {
	o, err := s.GetOrder(ctx, buyerID, id)
	if err != nil {
		return nil, err
	}
	if o.BuyerID != buyerID {
		return nil, ErrForbidden
	}
	if o.Status != api.OrderPending {
		return nil, fmt.Errorf("%w: only pending orders can be cancelled (current: %s)", ErrInvalidTransition, o.Status)
	}
	return s.transition(ctx, o, api.OrderCancelled)
}

func (s *service) transition(ctx context.Context, o *Order, to string) (*Order, error) {
	if !slices.Contains(validTransitions[o.Status], to) {
		return nil, fmt.Errorf("%w: cannot move order from %s to %s", ErrInvalidTransition, o.Status, to)
	}
	if err := s.repo.UpdateStatus(ctx, o.ID, o.Status, to); err != nil {
		return nil, err
	}
	o.Status = to
	return o, nil
}

func (s *service) ListAddresses(ctx context.Context, userID int) ([]*Address, error) {
	return s.repo.ListAddresses(ctx, userID)
}

// generateReferenceNumber creates a human-readable reference: LM-YYYYMMDD-XXXXXX
func generateReferenceNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("LM-%s-%s", now.UTC().Format("20060102"), suffix)
}
