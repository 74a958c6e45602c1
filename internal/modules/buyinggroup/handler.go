package buyinggroup

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

// RegisterRoutes mounts the listing endpoints. identify should attach the
// caller when a token is present without requiring one.
func (h *Handler) RegisterRoutes(r chi.Router, identify func(http.Handler) http.Handler) {
	r.Get("/buying-groups/", h.list)
	r.With(identify).Get("/buying-groups/{id}/", h.get)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page := httpx.ParsePage(r)
	groups, total, err := h.service.List(r.Context(), Filter{
		Status:   r.URL.Query().Get("status"),
		Postcode: r.URL.Query().Get("postcode"),
		Limit:    page.Size,
		Offset:   page.Offset(),
	})
	if errors.Is(err, ErrInvalidStatus) {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.logger.ErrorContext(r.Context(), "list buying groups failed", "error", err)
		httpx.Error(w, http.StatusInternalServerError, "Could not load buying groups")
		return
	}

	items := make([]api.BuyingGroup, 0, len(groups))
	for _, g := range groups {
		items = append(items, g.ToAPI())
	}
	httpx.Respond(w, http.StatusOK, httpx.Paginate(r, page, total, items))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IntParam(r, "id")
	if err != nil {
		httpx.Error(w, http.StatusNotFound, ErrNotFound.Error())
		return
	}
	viewerID, _ := middleware.UserID(r.Context())

	detail, err := h.service.Get(r.Context(), id, viewerID)
	switch {
	case err == nil:
		httpx.Respond(w, http.StatusOK, detail)
	case errors.Is(err, ErrNotFound):
		httpx.Error(w, http.StatusNotFound, ErrNotFound.Error())
	default:
		h.logger.ErrorContext(r.Context(), "get buying group failed", "group_id", id, "error", err)
		httpx.Error(w, http.StatusInternalServerError, "Could not load buying group")
	}
}
