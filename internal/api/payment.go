package api

// Payment intent statuses as reported by the payment provider.
const (
	PaymentRequiresPaymentMethod = "requires_payment_method"
	PaymentRequiresAction        = "requires_action"
	PaymentProcessing            = "processing"
	PaymentSucceeded             = "succeeded"
	PaymentCanceled              = "canceled"
)

// IsTerminalPaymentStatus reports whether polling can stop.
func IsTerminalPaymentStatus(status string) bool {
	switch status {
	case PaymentSucceeded, PaymentCanceled, PaymentRequiresPaymentMethod:
		return true
	}
	return false
}

// CreateIntentRequest is the payload for POST /payments/create-intent/.
type CreateIntentRequest struct {
	OrderIDs []int `json:"order_ids"`
}

// ConfirmPaymentRequest is the payload for POST /payments/confirm-payment/.
type ConfirmPaymentRequest struct {
	PaymentIntentID string `json:"payment_intent_id"`
	OrderIDs        []int  `json:"order_ids"`
}

// VendorSummary is the vendor side of a payment intent.
type VendorSummary struct {
	ID           int    `json:"id"`
	BusinessName string `json:"business_name"`
}

// IntentOrder is one order covered by a payment intent.
type IntentOrder struct {
	ID              int    `json:"id"`
	ReferenceNumber string `json:"reference_number"`
	TotalPrice      string `json:"total_price"`
}

// PaymentIntent describes one checkout attempt. Amount, Commission and
// VendorPayout are minor currency units computed by the server.
type PaymentIntent struct {
	ClientSecret string        `json:"client_secret"`
	IntentID     string        `json:"intent_id"`
	Amount       int64         `json:"amount"`
	Currency     string        `json:"currency"`
	Vendor       VendorSummary `json:"vendor"`
	Orders       []IntentOrder `json:"orders"`
	Commission   int64         `json:"commission"`
	VendorPayout int64         `json:"vendor_payout"`
}

// PaymentConfirmation reports how many orders this call marked paid and how
// many had already been paid by an earlier confirmation.
type PaymentConfirmation struct {
	Status            string `json:"status"`
	Message           string `json:"message,omitempty"`
	OrdersUpdated     int    `json:"orders_updated"`
	OrdersAlreadyPaid int    `json:"orders_already_paid"`
}

// OrderState is an order id with its current status.
type OrderState struct {
	ID     int    `json:"id"`
	Status string `json:"status"`
}

// PaymentStatus is a snapshot of a payment intent.
type PaymentStatus struct {
	IntentID string       `json:"intent_id"`
	Status   string       `json:"status"`
	Amount   int64        `json:"amount"`
	Currency string       `json:"currency"`
	Orders   []OrderState `json:"orders"`
}
