package catalog

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/localmarket/internal/api"
	"github.com/georgemunganga/localmarket/internal/httpx"
)

type Handler struct {
	service Service
	logger  *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes mounts the public product endpoints.
func (h *Handler) RegisterRoutes(r chi.Router, _ func(http.Handler) http.Handler) {
	r.Get("/products/", h.listProducts)
	r.Get("/products/{id}/", h.getProduct)
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	page := httpx.ParsePage(r)
	q := r.URL.Query()

	products, total, err := h.service.ListProducts(r.Context(), Query{
		Category: q.Get("category"),
		Search:   q.Get("search"),
		MinPrice: q.Get("min_price"),
		MaxPrice: q.Get("max_price"),
		Limit:    page.Size,
		Offset:   page.Offset(),
	})
	if errors.Is(err, ErrInvalidFilter) {
		httpx.Error(w, http.StatusBadRequest, strings.TrimPrefix(err.Error(), ErrInvalidFilter.Error()+": "))
		return
	}
	if err != nil {
		h.logger.ErrorContext(r.Context(), "list products failed", "error", err)
		httpx.Error(w, http.StatusInternalServerError, "Could not load products")
		return
	}

	items := make([]api.Product, 0, len(products))
	for _, p := range products {
		items = append(items, p.ToAPI())
	}
	httpx.Respond(w, http.StatusOK, httpx.Paginate(r, page, total, items))
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IntParam(r, "id")
	if err != nil {
		httpx.Error(w, http.StatusNotFound, ErrNotFound.Error())
		return
	}

	detail, err := h.service.GetProduct(r.Context(), id)
	switch {
	case err == nil:
		httpx.Respond(w, http.StatusOK, detail)
	case errors.Is(err, ErrNotFound):
		httpx.Error(w, http.StatusNotFound, err.Error())
	default:
		h.logger.ErrorContext(r.Context(), "get product failed", "product_id", id, "error", err)
		httpx.Error(w, http.StatusInternalServerError, "Could not load product")
	}
}
