package appservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"sitewright/internal/retry"
)

// APIError carries the status and body of a failed management-API call so
// callers can surface whatever context the service provided.
type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("management api: %s: %s", e.Status, e.Body)
	}
	return fmt.Sprintf("management api: %s", e.Status)
}

// Client implements Service over the management REST API.
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
}

// NewClient creates a client for the management API at baseURL,
// authenticating with a bearer token.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		httpc:   &http.Client{Timeout: 60 * time.Second},
	}
}

var _ Service = (*Client)(nil)

// GetSite implements Service.
func (c *Client) GetSite(ctx context.Context, name string) (*Site, error) {
	var site Site
	if err := c.do(ctx, http.MethodGet, "/sites/"+url.PathEscape(name), nil, &site); err != nil {
		return nil, fmt.Errorf("get site %q: %w", name, err)
	}
	return &site, nil
}

// ListLocations implements Service.
func (c *Client) ListLocations(ctx context.Context) ([]Location, error) {
	var out []Location
	if err := c.do(ctx, http.MethodGet, "/locations", nil, &out); err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	return out, nil
}

// ListRuntimes implements Service.
func (c *Client) ListRuntimes(ctx context.Context) ([]Runtime, error) {
	var out []Runtime
	if err := c.do(ctx, http.MethodGet, "/runtimes", nil, &out); err != nil {
		return nil, fmt.Errorf("list runtimes: %w", err)
	}
	return out, nil
}

// CreateResourceGroup implements Service.
func (c *Client) CreateResourceGroup(ctx context.Context, name, location string) error {
	body := map[string]string{"name": name, "location": location}
	if err := c.do(ctx, http.MethodPut, "/resourcegroups/"+url.PathEscape(name), body, nil); err != nil {
		return fmt.Errorf("create resource group %q: %w", name, err)
	}
	return nil
}

// CreatePlan implements Service.
func (c *Client) CreatePlan(ctx context.Context, spec PlanSpec) (*Plan, error) {
	var plan Plan
	if err := c.do(ctx, http.MethodPut, "/plans/"+url.PathEscape(spec.Name), spec, &plan); err != nil {
		return nil, fmt.Errorf("create plan %q: %w", spec.Name, err)
	}
	return &plan, nil
}

// CreateSite implements Service.
func (c *Client) CreateSite(ctx context.Context, spec SiteSpec) (*Site, error) {
	var site Site
	if err := c.do(ctx, http.MethodPut, "/sites/"+url.PathEscape(spec.Name), spec, &site); err != nil {
		return nil, fmt.Errorf("create site %q: %w", spec.Name, err)
	}
	return &site, nil
}

// ListSlots implements Service.
func (c *Client) ListSlots(ctx context.Context, site string) ([]Slot, error) {
	var out []Slot
	if err := c.do(ctx, http.MethodGet, "/sites/"+url.PathEscape(site)+"/slots", nil, &out); err != nil {
		return nil, fmt.Errorf("list slots of %q: %w", site, err)
	}
	return out, nil
}

// SwapSlots implements Service.
func (c *Client) SwapSlots(ctx context.Context, site, source, target string) error {
	body := map[string]string{"source": source, "target": target}
	if err := c.do(ctx, http.MethodPost, "/sites/"+url.PathEscape(site)+"/slots/swap", body, nil); err != nil {
		return fmt.Errorf("swap slots of %q: %w", site, err)
	}
	return nil
}

// GetConfig implements Service.
func (c *Client) GetConfig(ctx context.Context, site string) (*SiteConfig, error) {
	var cfg SiteConfig
	if err := c.do(ctx, http.MethodGet, "/sites/"+url.PathEscape(site)+"/config", nil, &cfg); err != nil {
		return nil, fmt.Errorf("get config of %q: %w", site, err)
	}
	return &cfg, nil
}

// SetRemoteDebugFlag implements Service.
func (c *Client) SetRemoteDebugFlag(ctx context.Context, site string, enabled bool) (*SiteConfig, error) {
	body := map[string]bool{"remoteDebuggingEnabled": enabled}
	var cfg SiteConfig
	if err := c.do(ctx, http.MethodPatch, "/sites/"+url.PathEscape(site)+"/config", body, &cfg); err != nil {
		return nil, fmt.Errorf("set remote debugging of %q: %w", site, err)
	}
	return &cfg, nil
}

// ListPublishingCredentials implements Service.
func (c *Client) ListPublishingCredentials(ctx context.Context, site string) (*PublishingCredentials, error) {
	var creds PublishingCredentials
	if err := c.do(ctx, http.MethodPost, "/sites/"+url.PathEscape(site)+"/publishingcredentials/list", nil, &creds); err != nil {
		return nil, fmt.Errorf("list publishing credentials of %q: %w", site, err)
	}
	return &creds, nil
}

// do performs one JSON round trip against the API. Transient failures (5xx,
// 429, transport errors) are retried with backoff; client errors are not.
// Non-idempotent calls get a single attempt, so a slot swap can never run
// twice on the service's behalf.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var payload []byte
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		payload = data
	}

	opts := []retry.Option{retry.WithInitialDelay(250 * time.Millisecond)}
	if method == http.MethodPost && !strings.HasSuffix(path, "/list") {
		opts = append(opts, retry.WithAttempts(1))
	}

	return retry.Do(ctx, func() error {
		return c.roundTrip(ctx, method, path, payload, out)
	}, opts...)
}

func (c *Client) roundTrip(ctx context.Context, method, path string, payload []byte, out any) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return retry.Fatal(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(data)),
		}
		if retryableStatus(resp.StatusCode) {
			return apiErr
		}
		return retry.Fatal(apiErr)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return retry.Fatal(fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func retryableStatus(code int) bool {
	return code >= 500 || code == http.StatusTooManyRequests || code == http.StatusRequestTimeout
}
