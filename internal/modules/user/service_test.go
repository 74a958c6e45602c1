package user

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/georgemunganga/localmarket/internal/middleware"
)

type memRepo struct {
	mu      sync.Mutex
	users   map[int]*User
	deletes int
	failErr error
}

func newMemRepo(t *testing.T, id int, password string) *memRepo {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &memRepo{users: map[int]*User{
		id: {ID: id, Email: "ann@example.com", Username: "ann", PasswordHash: string(hash)},
	}}
}

func (m *memRepo) GetUserByEmail(_ context.Context, email string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memRepo) GetUserByID(_ context.Context, id int) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, ErrNotFound
}

func (m *memRepo) DeleteUser(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	if _, ok := m.users[id]; !ok {
		return ErrNotFound
	}
	delete(m.users, id)
	m.deletes++
	return nil
}

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestDeleteAccount(t *testing.T) {
	tests := []struct {
		name     string
		userID   int
		password string
		wantErr  error
		deleted  bool
	}{
		{name: "correct password", userID: 7, password: "s3cret-pass", deleted: true},
		{name: "wrong password", userID: 7, password: "nope", wantErr: ErrInvalidPassword},
		{name: "empty password", userID: 7, password: "", wantErr: ErrPasswordRequired},
		{name: "unknown user", userID: 99, password: "s3cret-pass", wantErr: ErrInvalidPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMemRepo(t, 7, "s3cret-pass")
			svc := NewService(repo, quietLogger())

			err := svc.DeleteAccount(context.Background(), tt.userID, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.deleted, repo.deletes == 1)
		})
	}
}

func TestDeleteAccount_RepositoryFailure(t *testing.T) {
	repo := newMemRepo(t, 7, "s3cret-pass")
	repo.failErr = errors.New("connection reset")

	err := NewService(repo, quietLogger()).DeleteAccount(context.Background(), 7, "s3cret-pass")
	assert.EqualError(t, err, "connection reset")
}

func serveDelete(t *testing.T, repo Repository, body string) *httptest.ResponseRecorder {
	t.Helper()
	router := chi.NewRouter()
	asUser7 := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.WithUserID(r.Context(), 7)))
		})
	}
	NewHandler(NewService(repo, quietLogger()), quietLogger()).RegisterRoutes(router, asUser7)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/delete-account/", strings.NewReader(body)))
	return rec
}

func TestHandler_DeleteAccount(t *testing.T) {
	t.Run("wrong password", func(t *testing.T) {
		rec := serveDelete(t, newMemRepo(t, 7, "s3cret-pass"), `{"password":"wrong"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"Invalid password"}`, rec.Body.String())
	})

	t.Run("success", func(t *testing.T) {
		repo := newMemRepo(t, 7, "s3cret-pass")
		rec := serveDelete(t, repo, `{"password":"s3cret-pass"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"message":"Account deleted"}`, rec.Body.String())
		assert.Empty(t, repo.users)
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := serveDelete(t, newMemRepo(t, 7, "s3cret-pass"), `{`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"Invalid JSON body"}`, rec.Body.String())
	})

	t.Run("storage failure hides detail", func(t *testing.T) {
		repo := newMemRepo(t, 7, "s3cret-pass")
		repo.failErr = errors.New("pq: deadlock detected")
		rec := serveDelete(t, repo, `{"password":"s3cret-pass"}`)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "deadlock")
	})
}
