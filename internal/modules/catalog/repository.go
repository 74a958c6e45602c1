package catalog

import "context"

// Repository defines the interface for product data storage.
type Repository interface {
	// List returns one page of active products, newest first, and the total match count.
	List(ctx context.Context, f Filter) ([]*Product, int, error)
	GetByID(ctx context.Context, id int) (*Product, error)
}
