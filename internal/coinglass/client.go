package coinglass

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// IndicatorFetcher defines the interface for polling the indicator endpoint.
// This interface is implemented by *Client and can be used for testing.
type IndicatorFetcher interface {
	Fetch(ctx context.Context, apiKey string) (Reading, error)
}

// Ensure Client implements IndicatorFetcher at compile time.
var _ IndicatorFetcher = (*Client)(nil)

// ErrMissingKey is returned when Fetch is called without an API key
// configured. No request is issued in that case.
var ErrMissingKey = errors.New("coinglass api key not set")

// Client talks to the CoinGlass open API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultBaseURL   = "https://open-api-v4.coinglass.com"
	indicatorPath    = "/api/bull-market-peak-indicator"
	apiKeyHeader     = "CG-API-KEY"
	defaultUserAgent = "PeakHODLer/1.0"
	requestTimeout   = 15 * time.Second
)

// NewClient builds a Client. An empty baseURL selects the production
// CoinGlass endpoint; tests pass an httptest server URL.
func NewClient(baseURL string) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// Fetch performs one authenticated poll of the indicator endpoint. The
// returned Reading always has Status and FetchedAt populated; err carries
// detail for logging and is non-nil exactly when Status is not StatusOK.
// Fetch never retries.
func (c *Client) Fetch(ctx context.Context, apiKey string) (Reading, error) {
	now := time.Now()

	key := strings.TrimSpace(apiKey)
	if key == "" {
		return failure(StatusMissingKey, now, "API key not set"), ErrMissingKey
	}

	reqURL := c.baseURL.ResolveReference(&url.URL{Path: indicatorPath})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return failure(StatusUnknown, now, err.Error()), fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(apiKeyHeader, key)

	resp, err := c.http.Do(req)
	if err != nil {
		return failure(StatusNetworkError, now, err.Error()), fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return failure(StatusUnauthorized, now, resp.Status), fmt.Errorf("api rejected key: %s", resp.Status)
	case http.StatusTooManyRequests:
		return failure(StatusRateLimited, now, resp.Status), fmt.Errorf("api rate limited: %s", resp.Status)
	default:
		return failure(StatusUnknown, now, resp.Status), fmt.Errorf("api returned status %d", resp.StatusCode)
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return failure(StatusUnknown, now, "malformed response"), fmt.Errorf("decode response: %w", err)
	}
	if code := payload.Code.String(); code != "200" {
		detail := strings.TrimSpace(payload.Msg)
		if detail == "" {
			detail = "api code " + code
		}
		return failure(StatusUnknown, now, detail), fmt.Errorf("api code %s: %s", code, payload.Msg)
	}

	return summarize(payload.Data, now), nil
}

func failure(status Status, now time.Time, detail string) Reading {
	return Reading{Status: status, FetchedAt: now, Detail: detail}
}

func parseBaseURL(baseURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", baseURL, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
