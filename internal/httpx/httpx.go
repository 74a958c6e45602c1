// Package httpx holds the JSON request and response helpers used by the API handlers.
package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/localmarket/internal/api"
)

// Respond writes body as JSON with status.
func Respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// Error writes {"error": msg}.
func Error(w http.ResponseWriter, status int, msg string) {
	Respond(w, status, api.ErrorBody{Error: msg})
}

// Decode reads a JSON request body into dst.
func Decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return errors.New("Request body is required")
		case errors.As(err, &maxErr):
			return errors.New("Request body too large")
		default:
			return errors.New("Invalid JSON body")
		}
	}
	return nil
}

// IntParam reads a positive integer chi URL parameter.
func IntParam(r *http.Request, name string) (int, error) {
	v, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("Invalid %s", name)
	}
	return v, nil
}

// Pagination limits.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page is a 1-based page request.
type Page struct {
	Number int
	Size   int
}

// Offset is the SQL OFFSET for the page.
func (p Page) Offset() int { return (p.Number - 1) * p.Size }

// ParsePage reads page and page_size, clamping both to sane values.
func ParsePage(r *http.Request) Page {
	q := r.URL.Query()
	p := Page{Number: 1, Size: DefaultPageSize}
	if n, err := strconv.Atoi(q.Get("page")); err == nil && n > 0 {
		p.Number = n
	}
	if n, err := strconv.Atoi(q.Get("page_size")); err == nil && n > 0 {
		p.Size = min(n, MaxPageSize)
	}
	return p
}

// Paginate wraps items with next/previous links derived from r.
func Paginate[T any](r *http.Request, p Page, total int, items []T) api.Paginated[T] {
	if items == nil {
		items = []T{}
	}
	out := api.Paginated[T]{Count: total, Results: items}
	if p.Number*p.Size < total {
		out.Next = pageURL(r, p.Number+1)
	}
	if p.Number > 1 {
		out.Previous = pageURL(r, p.Number-1)
	}
	return out
}

func pageURL(r *http.Request, page int) *string {
	u := url.URL{Path: r.URL.Path}
	q := r.URL.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	s := u.String()
	return &s
}
