package user

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

type service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new user service.
func NewService(repo Repository, logger *slog.Logger) Service {
	return &service{repo: repo, logger: logger}
}

func (s *service) GetUser(ctx context.Context, id int) (*User, error) {
	return s.repo.GetUserByID(ctx, id)
}

// DeleteAccount verifies password against the stored hash and deletes the
// account. A missing user reports ErrInvalidPassword so the response does not
// reveal whether the account exists.
func (s *service) DeleteAccount(ctx context.Context, id int, password string) error {
	if password == "" {
		return ErrPasswordRequired
	}

	u, err := s.repo.GetUserByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return ErrInvalidPassword
	}
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return ErrInvalidPassword
	}

	if err := s.repo.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrInvalidPassword
		}
		return err
	}

	s.logger.InfoContext(ctx, "account deleted", "user_id", id)
	return nil
}
