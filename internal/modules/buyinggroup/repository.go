package buyinggroup

import "context"

// Repository is the persistence boundary for buying groups.
type Repository interface {
	List(ctx context.Context, f Filter) ([]*Group, int, error)
	// GetByID loads one group. viewerID, when positive, sets HasJoined.
	GetByID(ctx context.Context, id, viewerID int) (*Group, error)
}
