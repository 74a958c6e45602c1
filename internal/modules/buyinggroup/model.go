package buyinggroup

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/georgemunganga/localmarket/internal/api"
)

// ErrNotFound is returned when no buying group matches the lookup.
var ErrNotFound = errors.New("Buying group not found")

// Group pools buyer demand for one product near a postcode.
type Group struct {
	ID              int
	ProductID       int
	ProductName     string
	ProductPrice    decimal.Decimal
	ProductCategory string
	VendorID        int
	VendorName      string
	Postcode        string
	RadiusKM        int
	TargetQuantity  int
	CurrentQuantity int
	MinQuantity     int
	DiscountPercent decimal.Decimal
	Status          string
	ExpiresAt       time.Time
	CreatedAt       time.Time

	// Populated by GetByID only.
	ParticipantsCount int
	HasJoined         bool
}

// ToAPI returns the listing shape.
func (g *Group) ToAPI() api.BuyingGroup {
	return api.BuyingGroup{
		ID:              g.ID,
		Product:         g.ProductID,
		ProductName:     g.ProductName,
		VendorName:      g.VendorName,
		Postcode:        g.Postcode,
		RadiusKM:        g.RadiusKM,
		TargetQuantity:  g.TargetQuantity,
		CurrentQuantity: g.CurrentQuantity,
		MinQuantity:     g.MinQuantity,
		DiscountPercent: g.DiscountPercent.StringFixed(2),
		Status:          g.Status,
		ExpiresAt:       g.ExpiresAt,
		CreatedAt:       g.CreatedAt,
	}
}

// Detail returns the detail shape with the countdown measured from now.
func (g *Group) Detail(now time.Time) api.BuyingGroupDetail {
	remaining := int64(g.ExpiresAt.Sub(now) / time.Second)
	if remaining < 0 || g.Status != api.GroupOpen {
		remaining = 0
	}
	return api.BuyingGroupDetail{
		BuyingGroup: g.ToAPI(),
		ProductDetails: api.Product{
			ID:         g.ProductID,
			Vendor:     g.VendorID,
			VendorName: g.VendorName,
			Name:       g.ProductName,
			Category:   g.ProductCategory,
			Price:      g.ProductPrice.StringFixed(2),
			IsActive:   true,
		},
		ParticipantsCount:    g.ParticipantsCount,
		TimeRemainingSeconds: remaining,
		HasJoined:            g.HasJoined,
	}
}

// Filter narrows a group listing.
type Filter struct {
	Status   string
	Postcode string
	Limit    int
	Offset   int
}
