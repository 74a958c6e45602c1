package user

import "context"

// Repository is the persistence boundary for users.
type Repository interface {
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id int) (*User, error)
	// DeleteUser removes the user. Vendor profile, products, orders,
	// addresses and payment intents go with it via ON DELETE CASCADE.
	DeleteUser(ctx context.Context, id int) error
}
