package matspar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

const (
	// DefaultBaseURL is the matspar.se internal API base URL.
	DefaultBaseURL = "https://api.matspar.se"

	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) " +
		"Chrome/120.0.0.0 Safari/537.36"
)

// StatusError captures non-2xx HTTP responses from the matspar API.
type StatusError struct {
	Operation  string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Body == "" {
		return fmt.Sprintf("%s request failed: status %d", e.Operation, e.StatusCode)
	}
	return fmt.Sprintf("%s request failed: status %d: %s", e.Operation, e.StatusCode, e.Body)
}

// Client calls the unauthenticated matspar.se API. The endpoints are
// undocumented and may change shape; decoding stays tolerant for that
// reason.
type Client struct {
	baseURL    string
	httpClient *retryablehttp.Client
}

// NewClient creates a matspar API client.
func NewClient(baseURL string) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.HTTPClient.Timeout = 15 * time.Second
	rc.Logger = nil

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: rc,
	}
}

// Suppliers fetches the supplier (store chain) table.
func (c *Client) Suppliers(ctx context.Context) (map[string]Supplier, error) {
	raw, err := c.get(ctx, "suppliers")
	if err != nil {
		return nil, err
	}
	suppliers, err := ParseSuppliers(raw)
	if err != nil {
		return nil, fmt.Errorf("parse suppliers response: %w", err)
	}
	return suppliers, nil
}

// CategoryPage fetches one category page via the POST /slug endpoint.
func (c *Client) CategoryPage(ctx context.Context, slug string) (*CategoryPage, error) {
	body, err := json.Marshal(map[string]string{"slug": "/" + strings.TrimPrefix(slug, "/")})
	if err != nil {
		return nil, fmt.Errorf("encode slug request: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/slug", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build slug request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.applyHeaders(req)

	slog.InfoContext(ctx, "fetching matspar category page", "slug", slug)

	raw, err := c.do(req, "slug")
	if err != nil {
		return nil, err
	}
	page, err := ParseCategoryPage(raw)
	if err != nil {
		return nil, fmt.Errorf("parse slug response for %q: %w", slug, err)
	}
	return page, nil
}

func (c *Client) get(ctx context.Context, endpoint string) (json.RawMessage, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", endpoint, err)
	}
	c.applyHeaders(req)
	return c.do(req, endpoint)
}

func (c *Client) do(req *retryablehttp.Request, operation string) (json.RawMessage, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", operation, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8*1024*1024))
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", operation, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &StatusError{
			Operation:  operation,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%s request succeeded but response was not valid JSON", operation)
	}
	return body, nil
}

func (c *Client) applyHeaders(req *retryablehttp.Request) {
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", "sv-SE,sv;q=0.9,en;q=0.8")
}
