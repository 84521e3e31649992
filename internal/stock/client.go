package stock

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
)

const (
	stockAction    = "stock"
	statusSuffix   = "Status"
	defaultTimeout = 10 * time.Second

	responseBodyReadLimit int64 = 1024
)

// Report is the decoded body of the stock endpoint.
type Report map[string]any

// Status returns the reported label for the given stock key. Missing or
// non-string values report false.
func (r Report) Status(key string) (string, bool) {
	raw, ok := r[key+statusSuffix]
	if !ok {
		return "", false
	}
	label, ok := raw.(string)
	return label, ok
}

func (r Report) successful() bool {
	flag, ok := r["success"].(bool)
	return ok && flag
}

// Client queries the external stock-reporting endpoint.
type Client struct {
	httpClient *http.Client
	endpoint   string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the request timeout on the client's HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// NewClient builds a stock client for the given endpoint.
func NewClient(endpoint string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(endpoint)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock endpoint is required")
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "parse stock endpoint")
	}
	query := parsed.Query()
	query.Set("action", stockAction)
	parsed.RawQuery = query.Encode()

	client := &Client{
		endpoint:   parsed.String(),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// Fetch requests the current availability report.
func (c *Client) Fetch(ctx context.Context) (Report, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeIntegration, "stock client not configured")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeTransport, err, "build stock request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeTransport, err, "execute stock request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeTransport, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "stock request failed")
	}

	var report Report
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeTransport, err, "decode stock response")
	}
	if !report.successful() {
		return nil, pkgerrors.New(pkgerrors.CodeIntegration, "stock endpoint reported failure")
	}
	return report, nil
}
