package auth

import (
	"context"
	"errors"

	"github.com/georgemunganga/localmarket/internal/api"
)

var (
	// ErrInvalidCredentials is returned for an unknown email or a wrong password.
	ErrInvalidCredentials = errors.New("Invalid email or password")
	// ErrInvalidToken is returned for a bearer token that fails verification.
	ErrInvalidToken = errors.New("Invalid or expired token")
)

// Service defines the interface for authentication-related business logic.
type Service interface {
	Login(ctx context.Context, email, password string) (*api.LoginResult, error)
	Me(ctx context.Context, userID int) (*api.User, error)
}
