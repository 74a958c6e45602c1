package user

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/localmarket/internal/api"
	"github.com/georgemunganga/localmarket/internal/httpx"
	"github.com/georgemunganga/localmarket/internal/middleware"
)

type Handler struct {
	service Service
	logger  *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) RegisterRoutes(r chi.Router, requireUser func(http.Handler) http.Handler) {
	r.With(requireUser).Post("/auth/delete-account/", h.deleteAccount)
}

func (h *Handler) deleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	var req api.DeleteAccountRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	err := h.service.DeleteAccount(r.Context(), userID, req.Password)
	switch {
	case err == nil:
		httpx.Respond(w, http.StatusOK, api.MessageBody{Message: "Account deleted"})
	case errors.Is(err, ErrPasswordRequired), errors.Is(err, ErrInvalidPassword):
		httpx.Error(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.ErrorContext(r.Context(), "delete account failed", "user_id", userID, "error", err)
		httpx.Error(w, http.StatusInternalServerError, "Failed to delete account")
	}
}
