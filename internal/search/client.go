package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rccc/rccc-search/internal/models"
)

// Path is the backend query endpoint.
const Path = "/search"

// StatusError is returned when the backend answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("search backend returned status %d: %s", e.StatusCode, e.Body)
}

// Client is a Fetcher that calls a remote search backend over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Client for the backend at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Fetch implements Fetcher. An empty query returns an empty set without a
// request.
func (c *Client) Fetch(ctx context.Context, query string) (models.ResultSet, error) {
	if query == "" {
		return models.ResultSet{}, nil
	}

	params := url.Values{}
	params.Set("s", query)
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, Path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var results models.ResultSet
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}
	if results == nil {
		results = models.ResultSet{}
	}
	return results, nil
}
