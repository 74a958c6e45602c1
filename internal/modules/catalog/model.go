package catalog

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/georgemunganga/localmarket/internal/api"
)

// ErrNotFound is returned when no active product matches the lookup.
var ErrNotFound = errors.New("Product not found")

// Product is a vendor's listing.
type Product struct {
	ID            int
	VendorID      int
	VendorName    string
	Name          string
	Description   string
	Category      string
	Price         decimal.Decimal
	Unit          string
	StockQuantity int
	IsActive      bool
	ImageURL      string
	Images        []string
	Tags          []string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// ActiveBuyingGroups is only populated by GetByID.
	ActiveBuyingGroups int
}

// ToAPI returns the listing shape.
func (p *Product) ToAPI() api.Product {
	return api.Product{
		ID:            p.ID,
		Vendor:        p.VendorID,
		VendorName:    p.VendorName,
		Name:          p.Name,
		Description:   p.Description,
		Category:      p.Category,
		Price:         p.Price.StringFixed(2),
		Unit:          p.Unit,
		StockQuantity: p.StockQuantity,
		IsActive:      p.IsActive,
		ImageURL:      p.ImageURL,
		CreatedAt:     p.CreatedAt,
	}
}

// Filter narrows a product listing. Nil bounds are open.
type Filter struct {
	Category string
	Search   string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Limit    int
	Offset   int
}
