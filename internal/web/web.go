// Package web serves the storefront: server-rendered pages that talk to the
// marketplace API through the typed client on behalf of a signed-in session.
package web

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"

	"github.com/georgemunganga/localmarket/internal/api"
	"github.com/georgemunganga/localmarket/internal/client"
	"github.com/georgemunganga/localmarket/internal/httpx"
	"github.com/georgemunganga/localmarket/internal/middleware"
	"github.com/georgemunganga/localmarket/internal/session"
	"github.com/georgemunganga/localmarket/internal/ui"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	// CookieName is the session cookie.
	CookieName = "lm_session"

	deleteLockTTL = 30 * time.Second
)

// Locker takes short exclusive locks. *session.RedisStore satisfies it.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (release func(context.Context) error, ok bool, err error)
}

// Pinger reports backing store health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options configures a Handler.
type Options struct {
	CookieSecure  bool
	SessionTTL    time.Duration
	IsDevelopment bool
	// Health is checked by /healthz when set.
	Health Pinger
}

// Handler serves the storefront pages.
type Handler struct {
	api      *client.Client
	sessions *session.Manager
	locker   Locker
	logger   *slog.Logger
	opts     Options
	pages    map[string]*template.Template
}

// New parses the embedded templates and returns a Handler.
func New(apiClient *client.Client, sessions *session.Manager, locker Locker, logger *slog.Logger, opts Options) (*Handler, error) {
	h := &Handler{
		api:      apiClient,
		sessions: sessions,
		locker:   locker,
		logger:   logger,
		opts:     opts,
		pages:    map[string]*template.Template{},
	}

	funcs := template.FuncMap{
		"currency": ui.FormatCurrency,
		"percent":  ui.FormatPercent,
		"minor":    formatMinor,
		"subtract": func(a, b float64) float64 { return a - b },
	}
	for _, name := range []string{"login", "dashboard", "account", "products", "orders", "checkout", "error"} {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS,
			"templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		h.pages[name] = t
	}
	return h, nil
}

// Routes returns the storefront router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(h.logger))
	r.Use(middleware.Recoverer(h.logger))
	r.Use(middleware.Security(h.opts.IsDevelopment, true))
	r.Use(middleware.MaxBodySize(1 << 20))

	r.Get("/healthz", h.healthz)

	r.Group(func(r chi.Router) {
		r.Use(h.loadSession)

		r.Get("/", h.products)
		r.Get("/products", h.products)
		r.Get("/login", h.loginForm)
		r.Post("/login", h.login)

		r.Group(func(r chi.Router) {
			r.Use(h.requireSession)
			r.Post("/logout", h.logout)
			r.Get("/dashboard", h.dashboard)
			r.Get("/orders", h.orders)
			r.Get("/account", h.account)
			r.Post("/account/delete", h.deleteAccount)
			r.Post("/checkout/intent", h.checkoutIntent)
			r.Post("/checkout/confirm", h.checkoutConfirm)
			r.Get("/checkout/status/{intentID}", h.checkoutStatus)
		})
	})
	return r
}

// view is what every template receives.
type view struct {
	Title string
	User  *api.User
	Flash string
	Error string
	Data  any
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page string, v view) {
	if s := sessionFrom(r.Context()); s != nil && v.User == nil {
		v.User = &s.User
	}
	if v.Flash == "" {
		v.Flash = r.URL.Query().Get("flash")
	}

	var buf bytes.Buffer
	if err := h.pages[page].ExecuteTemplate(&buf, "layout", v); err != nil {
		h.logger.ErrorContext(r.Context(), "render template failed", "page", page, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// apiFailure renders an error page for a failed API call. An expired token
// ends the session and sends the user back to sign in.
func (h *Handler) apiFailure(w http.ResponseWriter, r *http.Request, op string, err error) {
	if client.IsStatus(err, http.StatusUnauthorized) {
		if s := sessionFrom(r.Context()); s != nil {
			_ = h.sessions.Logout(r.Context(), s.ID)
		}
		h.clearCookie(w)
		redirect(w, r, "/login", "Your session has expired. Please sign in again.")
		return
	}

	status := http.StatusBadGateway
	var apiErr *client.APIError
	switch {
	case errors.As(err, &apiErr) && apiErr.StatusCode < 500:
		status = apiErr.StatusCode
	case errors.Is(err, client.ErrValidation):
		status = http.StatusBadRequest
	default:
		h.logger.ErrorContext(r.Context(), op+" failed", "error", err)
	}
	h.render(w, r, status, "error", view{Title: "Something went wrong", Error: errorMessage(err)})
}

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	if h.opts.Health != nil {
		if err := h.opts.Health.Ping(r.Context()); err != nil {
			httpx.Error(w, http.StatusServiceUnavailable, "session store unavailable")
			return
		}
	}
	httpx.Respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

// errorMessage is the text shown for a failed API call.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, client.ErrTransport):
		return ui.MsgUnreachable
	case errors.Is(err, client.ErrValidation):
		return strings.TrimPrefix(err.Error(), client.ErrValidation.Error()+": ")
	}
	if msg := client.Message(err); msg != "" {
		return msg
	}
	return "Something went wrong. Please try again."
}

// redirect sends a 303 to path with an optional flash message.
func redirect(w http.ResponseWriter, r *http.Request, path, flash string) {
	if flash != "" {
		path += "?" + url.Values{"flash": {flash}}.Encode()
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// formatMinor renders minor currency units as pounds.
func formatMinor(amount int64) string {
	return ui.FormatCurrency(decimal.New(amount, -2).String())
}
