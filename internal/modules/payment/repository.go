package payment

import "context"

// Repository defines data access for payment intents.
type Repository interface {
	// GetPayableOrders loads the orders with the given ids. Unknown ids are
	// left out of the result.
	GetPayableOrders(ctx context.Context, ids []int) ([]*PayableOrder, error)

	// CreateIntent persists an intent and its order links in one transaction.
	CreateIntent(ctx context.Context, in *Intent) error

	// GetIntent loads an intent with the ids of the orders it covers.
	GetIntent(ctx context.Context, id string) (*Intent, error)

	// UpdateIntentStatus records the latest provider status.
	UpdateIntentStatus(ctx context.Context, id, status string) error

	// MarkOrdersPaid moves every pending order in ids to paid and marks the
	// intent succeeded. Orders already past pending are counted, not
	// touched. A cancelled order aborts the whole call with ErrOrdersNotPayable.
	MarkOrdersPaid(ctx context.Context, intentID string, ids []int) (ConfirmResult, error)
}
