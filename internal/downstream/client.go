package downstream

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"gateway/internal/api"
	"gateway/pkg/config"
)

// Client talks to one downstream domain service. Every request carries the
// service's fixed x-functions-key credential. Calls are at-most-once: no
// retries, bounded by the client timeout.
type Client struct {
	Name       string
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

func NewClient(name string, sc config.ServiceConfig) *Client {
	return &Client{
		Name:       name,
		BaseURL:    strings.TrimSuffix(sc.BaseURL, "/"),
		APIKey:     sc.APIKey,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) Get(ctx context.Context, path string) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodGet, path, nil, nil, nil)
}

func (c *Client) GetQuery(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodGet, path, query, nil, nil)
}

func (c *Client) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodPost, path, nil, body, nil)
}

func (c *Client) Put(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodPut, path, nil, body, nil)
}

// PutIfMatch writes a full document conditionally on its version. The
// downstream answers 412 when the document changed underneath us; that
// surfaces as a 409 to the caller.
func (c *Client) PutIfMatch(ctx context.Context, path string, body any, etag string) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodPut, path, nil, body, http.Header{"If-Match": {etag}})
}

func (c *Client) Patch(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodPatch, path, nil, body, nil)
}

func (c *Client) Delete(ctx context.Context, path string) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodDelete, path, nil, nil, nil)
}

func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body any, extra http.Header) (json.RawMessage, error) {
	if c.BaseURL == "" {
		return nil, api.Internal(c.Name + " service is not configured")
	}

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, api.Internal("encode request body failed")
		}
	}

	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, &buf)
	if err != nil {
		return nil, api.Internal("build downstream request failed")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-functions-key", c.APIKey)
	for k, vv := range extra {
		for _, v := range vv {
			req.Header.Set(k, v)
		}
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		// Connection failures are a distinct class, never a silent nil.
		return nil, api.UpstreamUnavailable(c.Name + " service is unreachable")
	}
	defer resp.Body.Close()

	b, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return nil, api.UpstreamUnavailable(c.Name + " service response could not be read")
	}

	switch {
	case resp.StatusCode == http.StatusPreconditionFailed:
		return nil, api.Conflict(c.Name + " document was modified concurrently")
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, api.FromStatus(resp.StatusCode, b)
	}

	return b, nil
}

// GetDoc fetches a JSON document into a map. An empty 2xx body where a
// document is required is treated as an upstream failure.
func (c *Client) GetDoc(ctx context.Context, path string) (map[string]any, error) {
	raw, err := c.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	return DecodeDoc(c.Name, raw)
}

func DecodeDoc(name string, raw json.RawMessage) (map[string]any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, api.UpstreamUnavailable(name + " service returned an empty document")
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, api.UpstreamUnavailable(name + " service returned a malformed document")
	}
	return doc, nil
}
