package order

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/georgemunganga/localmarket/internal/api"
)

var (
	// ErrNotFound is returned when the order does not exist or is not visible to the caller.
	ErrNotFound = errors.New("Order not found")
	// ErrProductUnavailable is returned when ordering an inactive or out-of-stock product.
	ErrProductUnavailable = errors.New("Product is currently unavailable")
	// ErrInvalidTransition is returned for a status change the lifecycle does not allow.
	ErrInvalidTransition = errors.New("Invalid status transition")
	// ErrForbidden is returned when the caller may not act on the order.
	ErrForbidden = errors.New("You do not have permission to modify this order")
	// ErrInvalidOrder wraps a rejected order request.
	ErrInvalidOrder = errors.New("invalid order")
)

// Order is one buyer's purchase of one product from one vendor.
type Order struct {
	ID              int
	ReferenceNumber string
	BuyerID         int
	VendorID        int
	VendorUserID    int
	VendorName      string
	ProductID       int
	ProductName     string
	Quantity        int
	UnitPrice       decimal.Decimal
	TotalPrice      decimal.Decimal
	DeliveryFee     decimal.Decimal
	Status          string
	DeliveryMethod  string
	DeliveryAddress *Address
	PaidAt          *time.Time
	CreatedAt       time.Time
}

// ToAPI converts the order to its wire shape.
func (o *Order) ToAPI() api.Order {
	out := api.Order{
		ID:              o.ID,
		ReferenceNumber: o.ReferenceNumber,
		Buyer:           o.BuyerID,
		Vendor:          o.VendorID,
		VendorName:      o.VendorName,
		Product:         o.ProductID,
		ProductName:     o.ProductName,
		Quantity:        o.Quantity,
		UnitPrice:       o.UnitPrice.StringFixed(2),
		TotalPrice:      o.TotalPrice.StringFixed(2),
		DeliveryFee:     o.DeliveryFee.StringFixed(2),
		Status:          o.Status,
		DeliveryMethod:  o.DeliveryMethod,
		PaidAt:          o.PaidAt,
		CreatedAt:       o.CreatedAt,
	}
	if o.DeliveryAddress != nil {
		a := o.DeliveryAddress.ToAPI()
		out.DeliveryAddress = &a
	}
	return out
}

// Address is a saved delivery address.
type Address struct {
	ID           int
	UserID       int
	AddressLine1 string
	AddressLine2 string
	City         string
	Postcode     string
	Country      string
	IsDefault    bool
}

// ToAPI converts the address to its wire shape.
func (a *Address) ToAPI() api.Address {
	return api.Address{
		ID:           a.ID,
		AddressLine1: a.AddressLine1,
		AddressLine2: a.AddressLine2,
		City:         a.City,
		Postcode:     a.Postcode,
		Country:      a.Country,
		IsDefault:    a.IsDefault,
	}
}

// ProductPrice is the purchasable state of a product at order time.
type ProductPrice struct {
	VendorID  int
	Price     decimal.Decimal
	Stock     int
	Available bool
}
