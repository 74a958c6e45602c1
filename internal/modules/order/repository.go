package order

import "context"

// Repository defines data access for orders.
type Repository interface {
	// CreateOrder persists a new order and decrements product stock atomically.
	CreateOrder(ctx context.Context, o *Order) error

	// GetOrderByID retrieves an order with its delivery address.
	GetOrderByID(ctx context.Context, id int) (*Order, error)

	// ListOrdersByBuyer returns one page of a buyer's orders, newest first.
	ListOrdersByBuyer(ctx context.Context, buyerID int, status string, limit, offset int) ([]*Order, int, error)

	// ListOrdersByVendorUser returns one page of the orders received by the
	// vendor owned by vendorUserID, newest first.
	ListOrdersByVendorUser(ctx context.Context, vendorUserID int, status string, limit, offset int) ([]*Order, int, error)

	// UpdateStatus moves an order from one status to another. It returns
	// ErrInvalidTransition when the order is no longer in from. Moving to
	// cancelled returns the order's quantity to product stock.
	UpdateStatus(ctx context.Context, id int, from, to string) error

	// GetProductPrice fetches the current price and availability of a product.
	GetProductPrice(ctx context.Context, productID int) (*ProductPrice, error)

	// GetAddress returns an address owned by userID.
	GetAddress(ctx context.Context, userID, addressID int) (*Address, error)

	// ListAddresses returns the user's addresses, default first.
	ListAddresses(ctx context.Context, userID int) ([]*Address, error)
}
