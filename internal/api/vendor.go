package api

import "time"

// Vendor is a seller on the marketplace.
type Vendor struct {
	ID             int       `json:"id"`
	User           int       `json:"user"`
	BusinessName   string    `json:"business_name"`
	Description    string    `json:"description,omitempty"`
	Postcode       string    `json:"postcode"`
	Phone          string    `json:"phone,omitempty"`
	LogoURL        string    `json:"logo_url,omitempty"`
	IsVerified     bool      `json:"is_verified"`
	CommissionRate string    `json:"commission_rate"`
	CreatedAt      time.Time `json:"created_at"`
}

// VendorStats feeds the vendor dashboard. Money and rate fields are decimal strings.
type VendorStats struct {
	TotalProducts      int    `json:"total_products"`
	ActiveProducts     int    `json:"active_products"`
	ActiveBuyingGroups int    `json:"active_buying_groups"`
	PendingOrders      int    `json:"pending_orders"`
	TodayOrders        int    `json:"today_orders"`
	TodayRevenue       string `json:"today_revenue"`
	WeekRevenue        string `json:"week_revenue"`
	MonthRevenue       string `json:"month_revenue"`
	TotalRevenue       string `json:"total_revenue"`
	CommissionRate     string `json:"commission_rate"`
}
