package buyinggroup

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/georgemunganga/localmarket/internal/api"
)

// ErrInvalidStatus is returned for an unknown status filter.
var ErrInvalidStatus = errors.New("Invalid status filter")

// Service defines buying group business logic.
type Service interface {
	List(ctx context.Context, f Filter) ([]*Group, int, error)
	Get(ctx context.Context, id, viewerID int) (*api.BuyingGroupDetail, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) Service {
	return &service{repo: repo, now: time.Now}
}

// List defaults to open groups. "all" lists every status.
func (s *service) List(ctx context.Context, f Filter) ([]*Group, int, error) {
	f.Status = strings.ToLower(strings.TrimSpace(f.Status))
	f.Postcode = strings.TrimSpace(f.Postcode)
	switch f.Status {
	case "":
		f.Status = api.GroupOpen
	case "all":
		f.Status = ""
	case api.GroupOpen, api.GroupCompleted, api.GroupExpired, api.GroupCancelled:
	default:
		return nil, 0, ErrInvalidStatus
	}
	return s.repo.List(ctx, f)
}

func (s *service) Get(ctx context.Context, id, viewerID int) (*api.BuyingGroupDetail, error) {
	g, err := s.repo.GetByID(ctx, id, viewerID)
	if err != nil {
		return nil, fmt.Errorf("buying group %d: %w", id, err)
	}
	d := g.Detail(s.now())
	return &d, nil
}
