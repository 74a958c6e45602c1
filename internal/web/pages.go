package web

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/georgemunganga/localmarket/internal/api"
	"github.com/georgemunganga/localmarket/internal/client"
	"github.com/georgemunganga/localmarket/internal/ui"
)

type loginData struct {
	Email string
	Next  string
}

// safeNext keeps post-login redirects on this site.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}
	return next
}

func (h *Handler) loginForm(w http.ResponseWriter, r *http.Request) {
	if sessionFrom(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.render(w, r, http.StatusOK, "login", view{
		Title: "Sign in",
		Data:  loginData{Next: safeNext(r.URL.Query().Get("next"))},
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.PostFormValue("email"))
	next := safeNext(r.PostFormValue("next"))

	s, err := h.sessions.Login(r.Context(), email, r.PostFormValue("password"))
	if err != nil {
		status := http.StatusUnauthorized
		switch {
		case errors.Is(err, client.ErrValidation):
			status = http.StatusBadRequest
		case errors.Is(err, client.ErrTransport):
			status = http.StatusBadGateway
		}
		h.render(w, r, status, "login", view{
			Title: "Sign in",
			Error: errorMessage(err),
			Data:  loginData{Email: email, Next: next},
		})
		return
	}

	h.logger.InfoContext(r.Context(), "user signed in", "user_id", s.User.ID)
	h.setCookie(w, s)
	switch {
	case next != "":
		http.Redirect(w, r, next, http.StatusSeeOther)
	case s.User.IsVendor:
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	default:
		http.Redirect(w, r, "/products", http.StatusSeeOther)
	}
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(r.Context(), sessionFrom(r.Context()).ID); err != nil {
		h.logger.ErrorContext(r.Context(), "logout failed", "error", err)
	}
	h.clearCookie(w)
	redirect(w, r, "/login", "You have been signed out.")
}

type dashboardData struct {
	Stats  ui.VendorStatsView
	Orders []api.Order
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	if !sessionFrom(r.Context()).User.IsVendor {
		h.render(w, r, http.StatusForbidden, "error", view{
			Title: "Vendor dashboard",
			Error: "You are not registered as a vendor",
		})
		return
	}

	var (
		stats  api.VendorStats
		orders []api.Order
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		resp, err := h.api.Vendors.Stats(ctx)
		stats = resp.Data
		return err
	})
	g.Go(func() error {
		resp, err := h.api.Orders.ListVendor(ctx, 1)
		orders = resp.Data.Results
		return err
	})
	if err := g.Wait(); err != nil {
		h.apiFailure(w, r, "load dashboard", err)
		return
	}

	h.render(w, r, http.StatusOK, "dashboard", view{
		Title: "Vendor dashboard",
		Data:  dashboardData{Stats: ui.NewVendorStatsView(stats), Orders: orders},
	})
}

// deleteModal is the render state of the delete-account dialog.
type deleteModal struct {
	Open              bool
	Message           string
	ShowPasswordField bool
	CanSubmit         bool
	CanCancel         bool
}

func modalFrom(f *ui.DeleteAccountFlow) deleteModal {
	return deleteModal{
		Open:              true,
		Message:           f.Message(),
		ShowPasswordField: f.ShowPasswordField(),
		CanSubmit:         f.CanSubmit(),
		CanCancel:         f.CanCancel(),
	}
}

func (h *Handler) account(w http.ResponseWriter, r *http.Request) {
	modal := deleteModal{ShowPasswordField: true, CanSubmit: true, CanCancel: true}
	modal.Open = r.URL.Query().Get("delete") == "1"
	h.render(w, r, http.StatusOK, "account", view{Title: "Your account", Data: modal})
}

func (h *Handler) deleteAccount(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r.Context())
	closed := deleteModal{Open: true, ShowPasswordField: true, CanSubmit: true, CanCancel: true}

	release, ok, err := h.locker.TryLock(r.Context(), "delete-account:"+s.ID, deleteLockTTL)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "delete lock failed", "error", err)
		closed.Message = ui.MsgDeleteFailed
		h.render(w, r, http.StatusServiceUnavailable, "account", view{Title: "Your account", Data: closed})
		return
	}
	if !ok {
		closed.Message = "A delete request is already in progress."
		h.render(w, r, http.StatusConflict, "account", view{Title: "Your account", Data: closed})
		return
	}
	defer func() {
		if err := release(context.WithoutCancel(r.Context())); err != nil {
			h.logger.WarnContext(r.Context(), "release delete lock failed", "error", err)
		}
	}()

	var target, flash string
	nav := ui.NavigatorFunc(func(_ context.Context, path, message string) { target, flash = path, message })
	term := h.sessions.Bind(s, func(context.Context) { h.clearCookie(w) })
	flow := ui.NewDeleteAccountFlow(h.api.Auth, term, nav)

	err = flow.Submit(r.Context(), r.PostFormValue("password"))
	if target != "" {
		if err != nil {
			h.logger.WarnContext(r.Context(), "account deleted with errors", "error", err)
		}
		h.logger.InfoContext(r.Context(), "account deleted", "user_id", s.User.ID)
		redirect(w, r, target, flash)
		return
	}
	if !errors.Is(err, ui.ErrPasswordRequired) && client.Message(err) == "" {
		h.logger.WarnContext(r.Context(), "delete account failed", "error", err)
	}
	h.render(w, r, http.StatusUnprocessableEntity, "account", view{Title: "Your account", Data: modalFrom(flow)})
}

type productsData struct {
	Query    api.ProductQuery
	Slider   ui.Slider
	Page     api.Paginated[api.Product]
	PageNum  int
	PrevPage int
	NextPage int
}

const sliderMax = 100

func (h *Handler) products(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := api.ProductQuery{
		Category: strings.TrimSpace(q.Get("category")),
		Search:   strings.TrimSpace(q.Get("search")),
		MinPrice: strings.TrimSpace(q.Get("min_price")),
		MaxPrice: strings.TrimSpace(q.Get("max_price")),
		Page:     1,
	}
	if n, err := strconv.Atoi(q.Get("page")); err == nil && n > 0 {
		query.Page = n
	}

	resp, err := h.api.Catalog.ListProducts(r.Context(), query)
	if err != nil {
		h.apiFailure(w, r, "list products", err)
		return
	}

	data := productsData{
		Query:   query,
		Slider:  priceSlider(query.MinPrice, query.MaxPrice),
		Page:    resp.Data,
		PageNum: query.Page,
	}
	if resp.Data.Previous != nil {
		data.PrevPage = query.Page - 1
	}
	if resp.Data.Next != nil {
		data.NextPage = query.Page + 1
	}
	h.render(w, r, http.StatusOK, "products", view{Title: "Local produce", Data: data})
}

// priceSlider builds the two-thumb price filter. A missing bound falls back
// to the end of the range.
func priceSlider(minPrice, maxPrice string) ui.Slider {
	props := ui.SliderProps{
		Name:         "price",
		Min:          0,
		Max:          sliderMax,
		Step:         0.5,
		DefaultValue: []float64{0, sliderMax},
	}
	lo, loErr := strconv.ParseFloat(minPrice, 64)
	hi, hiErr := strconv.ParseFloat(maxPrice, 64)
	if loErr != nil && hiErr != nil {
		return ui.NewSlider(props)
	}
	if loErr != nil {
		lo = 0
	}
	if hiErr != nil {
		hi = sliderMax
	}
	props.Max = max(float64(sliderMax), hi)
	props.Value = []float64{lo, hi}
	return ui.NewSlider(props)
}

func (h *Handler) orders(w http.ResponseWriter, r *http.Request) {
	page := 1
	if n, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && n > 0 {
		page = n
	}
	resp, err := h.api.Orders.List(r.Context(), page)
	if err != nil {
		h.apiFailure(w, r, "list orders", err)
		return
	}
	h.render(w, r, http.StatusOK, "orders", view{Title: "Your orders", Data: resp.Data})
}
