package api

import "time"

// Product is the summary shape used in listings.
type Product struct {
	ID            int       `json:"id"`
	Vendor        int       `json:"vendor"`
	VendorName    string    `json:"vendor_name"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Category      string    `json:"category"`
	Price         string    `json:"price"`
	Unit          string    `json:"unit"`
	StockQuantity int       `json:"stock_quantity"`
	IsActive      bool      `json:"is_active"`
	ImageURL      string    `json:"image_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// ProductDetail has every Product field plus the detail-page extras.
type ProductDetail struct {
	Product
	VendorDetails      Vendor    `json:"vendor_details"`
	Images             []string  `json:"images"`
	Tags               []string  `json:"tags"`
	ActiveBuyingGroups int       `json:"active_buying_groups"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// ProductQuery filters GET /products/.
type ProductQuery struct {
	Page     int
	PageSize int
	Category string
	Search   string
	MinPrice string
	MaxPrice string
}
