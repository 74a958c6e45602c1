package client

import (
	"context"
	"net/http"
	"strings"

	"github.com/georgemunganga/localmarket/internal/api"
)

// AuthService wraps the /auth endpoints.
type AuthService struct{ c *Client }

// Login exchanges credentials for an access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (api.Response[api.LoginResult], error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return api.Response[api.LoginResult]{}, validationError("email and password are required")
	}
	return call[api.LoginResult](ctx, s.c, http.MethodPost, "/auth/login/", nil,
		api.LoginRequest{Email: strings.TrimSpace(email), Password: password})
}

// Me returns the signed-in user.
func (s *AuthService) Me(ctx context.Context) (api.Response[api.User], error) {
	return call[api.User](ctx, s.c, http.MethodGet, "/auth/me/", nil, nil)
}

// DeleteAccount irreversibly deletes the signed-in account. The reply carries
// no payload beyond the envelope message.
func (s *AuthService) DeleteAccount(ctx context.Context, password string) (api.Response[struct{}], error) {
	if password == "" {
		return api.Response[struct{}]{}, validationError("password is required")
	}
	resp, err := call[api.MessageBody](ctx, s.c, http.MethodPost, "/auth/delete-account/", nil,
		api.DeleteAccountRequest{Password: password})
	if err != nil {
		return api.Response[struct{}]{}, err
	}
	return api.Response[struct{}]{Message: resp.Data.Message}, nil
}
