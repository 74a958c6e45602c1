package auth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/georgemunganga/localmarket/internal/api"
	"github.com/georgemunganga/localmarket/internal/modules/user"
)

type service struct {
	userRepo user.Repository
	tokens   *TokenManager
}

// NewService creates a new auth service.
func NewService(userRepo user.Repository, tokens *TokenManager) Service {
	return &service{userRepo: userRepo, tokens: tokens}
}

func (s *service) Login(ctx context.Context, email, password string) (*api.LoginResult, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	u, err := s.userRepo.GetUserByEmail(ctx, email)
	if errors.Is(err, user.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, err
	}
	return &api.LoginResult{Access: token, User: u.ToAPI()}, nil
}

func (s *service) Me(ctx context.Context, userID int) (*api.User, error) {
	u, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := u.ToAPI()
	return &out, nil
}
