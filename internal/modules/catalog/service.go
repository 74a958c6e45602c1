package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/georgemunganga/localmarket/internal/api"
	"github.com/georgemunganga/localmarket/internal/modules/vendor"
)

// ErrInvalidFilter wraps a rejected query parameter.
var ErrInvalidFilter = errors.New("invalid filter")

// Service defines catalog business logic.
type Service interface {
	ListProducts(ctx context.Context, q Query) ([]*Product, int, error)
	GetProduct(ctx context.Context, id int) (*api.ProductDetail, error)
}

// Query is the raw listing request as received over HTTP.
type Query struct {
	Category string
	Search   string
	MinPrice string
	MaxPrice string
	Limit    int
	Offset   int
}

type service struct {
	repo    Repository
	vendors vendor.Repository
}

func NewService(repo Repository, vendors vendor.Repository) Service {
	return &service{repo: repo, vendors: vendors}
}

func (s *service) ListProducts(ctx context.Context, q Query) ([]*Product, int, error) {
	f := Filter{
		Category: strings.TrimSpace(q.Category),
		Search:   strings.TrimSpace(q.Search),
		Limit:    q.Limit,
		Offset:   q.Offset,
	}

	var err error
	if f.MinPrice, err = parsePrice("min_price", q.MinPrice); err != nil {
		return nil, 0, err
	}
	if f.MaxPrice, err = parsePrice("max_price", q.MaxPrice); err != nil {
		return nil, 0, err
	}
	if f.MinPrice != nil && f.MaxPrice != nil && f.MinPrice.GreaterThan(*f.MaxPrice) {
		return nil, 0, fmt.Errorf("%w: min_price must not exceed max_price", ErrInvalidFilter)
	}

	return s.repo.List(ctx, f)
}

// GetProduct returns the detail view with the vendor profile attached.
func (s *service) GetProduct(ctx context.Context, id int) (*api.ProductDetail, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	v, err := s.vendors.GetVendorByID(ctx, p.VendorID)
	if err != nil {
		return nil, fmt.Errorf("load vendor %d: %w", p.VendorID, err)
	}

	images := p.Images
	if images == nil {
		images = []string{}
	}
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return &api.ProductDetail{
		Product:            p.ToAPI(),
		VendorDetails:      v.ToAPI(),
		Images:             images,
		Tags:               tags,
		ActiveBuyingGroups: p.ActiveBuyingGroups,
		UpdatedAt:          p.UpdatedAt,
	}, nil
}

func parsePrice(name, raw string) (*decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		return nil, fmt.Errorf("%w: %s must be a non-negative number", ErrInvalidFilter, name)
	}
	return &d, nil
}
