// Package dto defines HTTP request and response bodies for API v1.
// Domain entities carry their own JSON tags and are returned directly;
// this package holds the inbound shapes and small response envelopes.
package dto

// IDResponse is the standard create response.
type IDResponse struct {
	ID string `json:"id"`
}

// SuccessResponse is the standard acknowledgement response.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ListResponse wraps a collection with paging echo.
type ListResponse[T any] struct {
	Items  []T `json:"items"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// NewListResponse builds a ListResponse, normalizing a nil slice to empty.
func NewListResponse[T any](items []T, limit, offset int) ListResponse[T] {
	if items == nil {
		items = make([]T, 0)
	}
	return ListResponse[T]{Items: items, Limit: limit, Offset: offset}
}
