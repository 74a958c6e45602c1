package api

import (
	"strings"
	"time"
)

// User is the identity record of the signed-in account.
type User struct {
	ID         int       `json:"id"`
	Email      string    `json:"email"`
	Username   string    `json:"username"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Phone      string    `json:"phone,omitempty"`
	DateJoined time.Time `json:"date_joined"`
	IsVendor   bool      `json:"is_vendor"`
}

// FullName joins the name parts, falling back to the username.
func (u User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

// LoginRequest is the payload for POST /auth/login/.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult carries the access token issued for a session.
type LoginResult struct {
	Access string `json:"access"`
	User   User   `json:"user"`
}

// DeleteAccountRequest is the payload for POST /auth/delete-account/.
type DeleteAccountRequest struct {
	Password string `json:"password"`
}
