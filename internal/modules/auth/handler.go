package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/localmarket/internal/api"
	"github.com/georgemunganga/localmarket/internal/httpx"
	"github.com/georgemunganga/localmarket/internal/middleware"
	"github.com/georgemunganga/localmarket/internal/modules/user"
)

type Handler struct {
	service Service
	logger  *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) RegisterRoutes(r chi.Router, requireUser func(http.Handler) http.Handler) {
	r.Post("/auth/login/", h.login)
	r.With(requireUser).Get("/auth/me/", h.me)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.service.Login(r.Context(), req.Email, req.Password)
	switch {
	case err == nil:
		httpx.Respond(w, http.StatusOK, res)
	case errors.Is(err, ErrInvalidCredentials):
		httpx.Error(w, http.StatusUnauthorized, err.Error())
	default:
		h.logger.ErrorContext(r.Context(), "login failed", "error", err)
		httpx.Error(w, http.StatusInternalServerError, "Login failed")
	}
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	u, err := h.service.Me(r.Context(), userID)
	switch {
	case err == nil:
		httpx.Respond(w, http.StatusOK, u)
	case errors.Is(err, user.ErrNotFound):
		httpx.Error(w, http.StatusUnauthorized, "User no longer exists")
	default:
		h.logger.ErrorContext(r.Context(), "load current user failed", "user_id", userID, "error", err)
		httpx.Error(w, http.StatusInternalServerError, "Could not load user")
	}
}
