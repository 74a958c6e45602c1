package payment

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned when the intent does not exist or belongs to someone else.
	ErrNotFound = errors.New("Payment intent not found")
	// ErrInvalidRequest wraps a malformed create or confirm request.
	ErrInvalidRequest = errors.New("invalid payment request")
	// ErrOrdersNotFound is returned when an order id is unknown or not the caller's.
	ErrOrdersNotFound = errors.New("One or more orders were not found")
	// ErrOrdersNotPayable is returned when an order is not awaiting payment.
	ErrOrdersNotPayable = errors.New("All orders must be pending payment")
	// ErrMixedVendors is returned when one intent would pay several vendors.
	ErrMixedVendors = errors.New("All orders must be from the same vendor")
	// ErrOrderNotInIntent is returned when confirming orders the intent does not cover.
	ErrOrderNotInIntent = errors.New("Orders do not match this payment intent")
	// ErrPaymentNotSucceeded is returned by confirm while the provider has not captured funds.
	ErrPaymentNotSucceeded = errors.New("Payment has not succeeded")
	// ErrGateway wraps a payment provider failure.
	ErrGateway = errors.New("Payment provider unavailable")
)

// Intent is a local record of a provider payment intent covering one or
// more orders from a single vendor. Money fields are minor units.
type Intent struct {
	ID           string
	ClientSecret string
	BuyerID      int
	VendorID     int
	Amount       int64
	Currency     string
	Commission   int64
	VendorPayout int64
	Status       string
	OrderIDs     []int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PayableOrder is the slice of an order needed to price a payment.
type PayableOrder struct {
	ID              int
	ReferenceNumber string
	BuyerID         int
	VendorID        int
	VendorName      string
	CommissionRate  decimal.Decimal
	Status          string
	TotalPrice      decimal.Decimal
	DeliveryFee     decimal.Decimal
}

// ConfirmResult counts how a confirmation affected the orders.
type ConfirmResult struct {
	Updated     int
	AlreadyPaid int
}

// ProviderIntent is what a Gateway reports about an intent.
type ProviderIntent struct {
	ID           string
	ClientSecret string
	Status       string
}
