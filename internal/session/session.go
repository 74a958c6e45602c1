// Package session models the signed-in session as an explicit handle.
//
// A Session is created by Manager.Login and torn down by Manager.Logout.
// Nothing here is global: callers pass the handle (or a Terminator bound to
// it) to whatever needs to read or end the session.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/georgemunganga/localmarket/internal/api"
)

// ErrNotFound is returned when a session does not exist or has expired.
var ErrNotFound = errors.New("session not found")

// Session is one signed-in user and the bearer token issued for them.
type Session struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	User      api.User  `json:"user"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Store persists sessions.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

// Authenticator exchanges credentials for a token. *client.AuthService satisfies it.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (api.Response[api.LoginResult], error)
}

// Terminator ends one session.
type Terminator interface {
	Logout(ctx context.Context) error
}

// Manager owns the session lifecycle.
type Manager struct {
	store Store
	auth  Authenticator
	ttl   time.Duration
	now   func() time.Time
}

// NewManager creates a Manager. A zero ttl means sessions never expire.
func NewManager(store Store, auth Authenticator, ttl time.Duration) *Manager {
	return &Manager{store: store, auth: auth, ttl: ttl, now: time.Now}
}

// Login authenticates and stores a new session.
func (m *Manager) Login(ctx context.Context, email, password string) (*Session, error) {
	resp, err := m.auth.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	now := m.now().UTC()
	s := &Session{
		ID:        uuid.NewString(),
		Token:     resp.Data.Access,
		User:      resp.Data.User,
		CreatedAt: now,
	}
	if m.ttl > 0 {
		s.ExpiresAt = now.Add(m.ttl)
	}
	if err := m.store.Save(ctx, s, m.ttl); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return s, nil
}

// Get loads a live session.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	s, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.Expired(m.now()) {
		_ = m.store.Delete(ctx, id)
		return nil, ErrNotFound
	}
	return s, nil
}

// Logout deletes the session. Deleting an unknown session is not an error.
func (m *Manager) Logout(ctx context.Context, id string) error {
	if err := m.store.Delete(ctx, id); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Bind returns a Terminator for one session. Hooks run after the session is
// deleted, in order, before Logout returns.
func (m *Manager) Bind(s *Session, hooks ...func(context.Context)) Terminator {
	return &bound{m: m, id: s.ID, hooks: hooks}
}

type bound struct {
	m     *Manager
	id    string
	hooks []func(context.Context)
}

func (b *bound) Logout(ctx context.Context) error {
	if err := b.m.Logout(ctx, b.id); err != nil {
		return err
	}
	for _, h := range b.hooks {
		h(ctx)
	}
	return nil
}
