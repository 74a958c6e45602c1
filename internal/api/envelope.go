// Package api holds the JSON contracts shared by the marketplace API client,
// the storefront and the reference API server.
package api

// Response wraps a successful payload. Data is always set on success.
type Response[T any] struct {
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

// Paginated is a page of results. Results keep the order the server sent them in.
type Paginated[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// HasNext reports whether the server advertised another page.
func (p Paginated[T]) HasNext() bool { return p.Next != nil && *p.Next != "" }

// ErrorBody is the error payload returned by the API for any non-2xx response.
type ErrorBody struct {
	Error string `json:"error"`
}

// MessageBody is a bare acknowledgement.
type MessageBody struct {
	Message string `json:"message"`
}
