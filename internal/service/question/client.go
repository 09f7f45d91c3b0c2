package question

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
)

const (
	defaultBaseURL   = "http://localhost:8080"
	defaultUserAgent = "question-list"
	listPath         = "/api/v1/question_list"
)

// Client implements Service against the listing REST endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets the scheme and host of the listing API.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithUserAgent overrides the User-Agent header sent upstream.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient creates a listing client. A nil httpClient uses http.DefaultClient.
func NewClient(httpClient *http.Client, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	c := &Client{
		httpClient: httpClient,
		baseURL:    defaultBaseURL,
		userAgent:  defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListQuestions performs a single GET against the listing endpoint. A non-2xx
// response yields an *UpstreamError and its body is left unread.
func (c *Client) ListQuestions(ctx context.Context) (*ListingPage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+listPath, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching question list: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{
			Status:     resp.StatusCode,
			StatusText: statusText(resp),
		}
	}

	page, err := decodeListingPage(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decoding question list: %w", err)
	}
	return page, nil
}

// listingPageWire mirrors ListingPage with pointers so absent fields can be
// told apart from zero values.
type listingPageWire struct {
	CurrentPage *int           `json:"currentPage"`
	PageSize    *int           `json:"pageSize"`
	TotalPages  *int           `json:"totalPages"`
	TotalItems  *int           `json:"totalItems"`
	Items       *[]ListingItem `json:"items"`
}

// decodeListingPage decodes a listing body and rejects bodies lacking the
// pagination fields or the items array. A null field counts as missing.
func decodeListingPage(r io.Reader) (*ListingPage, error) {
	var wire listingPageWire
	if err := json.NewDecoder(r).Decode(&wire); err != nil {
		return nil, err
	}

	required := []struct {
		name    string
		present bool
	}{
		{"currentPage", wire.CurrentPage != nil},
		{"pageSize", wire.PageSize != nil},
		{"totalPages", wire.TotalPages != nil},
		{"totalItems", wire.TotalItems != nil},
		{"items", wire.Items != nil},
	}
	for _, field := range required {
		if !field.present {
			return nil, fmt.Errorf("%w: %s", ErrMalformedListing, field.name)
		}
	}

	return &ListingPage{
		CurrentPage: *wire.CurrentPage,
		PageSize:    *wire.PageSize,
		TotalPages:  *wire.TotalPages,
		TotalItems:  *wire.TotalItems,
		Items:       *wire.Items,
	}, nil
}

// statusText returns the reason phrase of the response status line, falling
// back to the standard text for the code.
func statusText(resp *http.Response) string {
	code := strconv.Itoa(resp.StatusCode)
	if reason, ok := strings.CutPrefix(resp.Status, code+" "); ok && reason != "" {
		return reason
	}
	return http.StatusText(resp.StatusCode)
}

var _ Service = (*Client)(nil)
