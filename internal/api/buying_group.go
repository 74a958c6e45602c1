package api

import "time"

// Buying group statuses.
const (
	GroupOpen      = "open"
	GroupCompleted = "completed"
	GroupExpired   = "expired"
	GroupCancelled = "cancelled"
)

// BuyingGroup pools demand for a product within a radius of a postcode.
type BuyingGroup struct {
	ID              int       `json:"id"`
	Product         int       `json:"product"`
	ProductName     string    `json:"product_name"`
	VendorName      string    `json:"vendor_name"`
	Postcode        string    `json:"postcode"`
	RadiusKM        int       `json:"radius_km"`
	TargetQuantity  int       `json:"target_quantity"`
	CurrentQuantity int       `json:"current_quantity"`
	MinQuantity     int       `json:"min_quantity"`
	DiscountPercent string    `json:"discount_percent"`
	Status          string    `json:"status"`
	ExpiresAt       time.Time `json:"expires_at"`
	CreatedAt       time.Time `json:"created_at"`
}

// ProgressPercent is how close the group is to its target, capped at 100.
func (g BuyingGroup) ProgressPercent() int {
	if g.TargetQuantity <= 0 {
		return 0
	}
	p := g.CurrentQuantity * 100 / g.TargetQuantity
	if p > 100 {
		return 100
	}
	return p
}

// BuyingGroupDetail has every BuyingGroup field plus the detail-page extras.
type BuyingGroupDetail struct {
	BuyingGroup
	ProductDetails       Product `json:"product_details"`
	ParticipantsCount    int     `json:"participants_count"`
	TimeRemainingSeconds int64   `json:"time_remaining_seconds"`
	HasJoined            bool    `json:"has_joined"`
}
