package user

import (
	"errors"
	"time"

	"github.com/georgemunganga/localmarket/internal/api"
)

var (
	// ErrNotFound is returned when no user matches the lookup.
	ErrNotFound = errors.New("user not found")
	// ErrPasswordRequired is returned when a password-confirmed action gets an empty password.
	ErrPasswordRequired = errors.New("Password is required")
	// ErrInvalidPassword is returned when the password does not match.
	ErrInvalidPassword = errors.New("Invalid password")
)

// User represents a marketplace account.
type User struct {
	ID           int
	Email        string
	Username     string
	PasswordHash string
	FirstName    string
	LastName     string
	Phone        string
	IsVendor     bool
	DateJoined   time.Time
}

// ToAPI converts the user to its wire shape. The password hash never leaves the server.
func (u *User) ToAPI() api.User {
	return api.User{
		ID:         u.ID,
		Email:      u.Email,
		Username:   u.Username,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Phone:      u.Phone,
		DateJoined: u.DateJoined,
		IsVendor:   u.IsVendor,
	}
}
