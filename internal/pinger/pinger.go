// Package pinger sends signed health checks to a managed site, the way the
// platform's monitors do.
package pinger

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/caffeinatedprojects/networkr-companion/internal/config"
	"github.com/caffeinatedprojects/networkr-companion/internal/signature"
)

// Report is the decoded body of a health response, successful or not.
type Report struct {
	OK        bool   `json:"ok"`
	WebsiteID int64  `json:"website_id,omitempty"`
	Version   string `json:"version,omitempty"`
	Go        string `json:"go,omitempty"`
	Time      string `json:"time,omitempty"`
	Error     string `json:"error,omitempty"`

	StatusCode int    `json:"-"`
	RequestID  string `json:"-"`
}

// StatusError is returned when the site answers with a non-200 status.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("health check failed: status %d", e.StatusCode)
	}
	return fmt.Sprintf("health check failed: status %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL string
	site    config.Site
	http    *http.Client
	now     func() time.Time
}

type Option func(*Client)

// WithHTTPClient replaces the default client (10s timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithClock replaces time.Now when signing.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// New returns a client for the health namespace at baseURL, e.g.
// "https://example.com/wp-json/pressillion/v1".
func New(baseURL string, site config.Site, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		site:    site,
		http:    &http.Client{Timeout: 10 * time.Second},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SignNow returns a timestamp and signature for the current clock.
func (c *Client) SignNow() (ts, sig string) {
	ts = strconv.FormatInt(c.now().Unix(), 10)
	return ts, signature.Sign(ts, c.site.WebsiteID, c.site.Secret)
}

// URL returns the signed health URL for the current clock.
func (c *Client) URL() string {
	ts, sig := c.SignNow()
	q := url.Values{}
	q.Set("ts", ts)
	q.Set("sig", sig)
	return c.baseURL + "/health?" + q.Encode()
}

// Check sends one signed ping. A non-200 answer returns the decoded report
// together with a *StatusError.
func (c *Client) Check(ctx context.Context) (*Report, error) {
	if !c.site.Configured() {
		return nil, signature.ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-Id", requestID)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req) // #nosec G704 -- operator-supplied URL
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	report := &Report{StatusCode: resp.StatusCode, RequestID: requestID}
	if err := json.Unmarshal(body, report); err != nil {
		if resp.StatusCode != http.StatusOK {
			return report, &StatusError{StatusCode: resp.StatusCode}
		}
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return report, &StatusError{StatusCode: resp.StatusCode, Message: report.Error}
	}
	if !report.OK {
		return report, fmt.Errorf("health check failed: ok=false")
	}
	return report, nil
}
