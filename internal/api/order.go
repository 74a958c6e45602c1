package api

import "time"

// Order statuses.
const (
	OrderPending   = "pending"
	OrderPaid      = "paid"
	OrderConfirmed = "confirmed"
	OrderReady     = "ready"
	OrderDelivered = "delivered"
	OrderCancelled = "cancelled"
)

// Delivery methods.
const (
	DeliveryCollection = "collection"
	DeliveryHome       = "delivery"
)

// Address is a saved delivery address.
type Address struct {
	ID           int    `json:"id"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2,omitempty"`
	City         string `json:"city"`
	Postcode     string `json:"postcode"`
	Country      string `json:"country"`
	IsDefault    bool   `json:"is_default"`
}

// Order is a single buyer order with one vendor.
type Order struct {
	ID              int        `json:"id"`
	ReferenceNumber string     `json:"reference_number"`
	Buyer           int        `json:"buyer"`
	Vendor          int        `json:"vendor"`
	VendorName      string     `json:"vendor_name"`
	Product         int        `json:"product"`
	ProductName     string     `json:"product_name"`
	Quantity        int        `json:"quantity"`
	UnitPrice       string     `json:"unit_price"`
	TotalPrice      string     `json:"total_price"`
	DeliveryFee     string     `json:"delivery_fee"`
	Status          string     `json:"status"`
	DeliveryMethod  string     `json:"delivery_method"`
	DeliveryAddress *Address   `json:"delivery_address,omitempty"`
	PaidAt          *time.Time `json:"paid_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// CreateOrderRequest is the payload for POST /orders/.
type CreateOrderRequest struct {
	Product         int    `json:"product"`
	Quantity        int    `json:"quantity"`
	DeliveryMethod  string `json:"delivery_method,omitempty"`
	DeliveryAddress int    `json:"delivery_address,omitempty"`
}

// UpdateOrderStatusRequest is the payload for PATCH /orders/{id}/status/.
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}
