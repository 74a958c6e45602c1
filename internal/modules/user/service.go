package user

import "context"

// Service defines the interface for user-related business logic.
type Service interface {
	GetUser(ctx context.Context, id int) (*User, error)
	DeleteAccount(ctx context.Context, id int, password string) error
}
