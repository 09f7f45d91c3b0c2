// Package question fetches paginated question listings from the remote API.
package question

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrUpstream is wrapped by every UpstreamError.
	ErrUpstream = errors.New("question list upstream error")
	// ErrMalformedListing reports a 2xx body missing a required field.
	ErrMalformedListing = errors.New("missing listing field")
)

// UpstreamError reports a non-2xx response from the listing endpoint.
type UpstreamError struct {
	Status     int
	StatusText string
}

func (e *UpstreamError) Error() string {
	if e == nil {
		return ErrUpstream.Error()
	}
	return fmt.Sprintf("question list upstream error (status=%d %s)", e.Status, e.StatusText)
}

// Unwrap enables errors.Is(err, ErrUpstream).
func (e *UpstreamError) Unwrap() error {
	return ErrUpstream
}

// ListingPage is one page of questions as returned by the listing endpoint.
type ListingPage struct {
	CurrentPage int           `json:"currentPage"`
	PageSize    int           `json:"pageSize"`
	TotalPages  int           `json:"totalPages"`
	TotalItems  int           `json:"totalItems"`
	Items       []ListingItem `json:"items"`
}

// ListingItem is one question in a ListingPage. Fields are display values
// and are rendered exactly as the API sent them.
type ListingItem struct {
	ID         Value `json:"id"`
	CreateDate Value `json:"createDate"`
	ModifyDate Value `json:"modifyDate"`
	Author     Value `json:"author"`
	Subject    Value `json:"subject"`
	Published  Value `json:"published"`
	Listed     Value `json:"listed"`
}

// Service fetches question listings.
type Service interface {
	ListQuestions(ctx context.Context) (*ListingPage, error)
}
