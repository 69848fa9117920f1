// Package monitoring is a REST client for the monitoring platform APIs
// the pipelines touch: audit-log search, monitor metadata, the team
// directory, and restriction policies.
package monitoring

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"
)

const defaultTimeout = 15 * time.Second

// Client calls the platform's HTTP APIs. One Client is built per
// invocation and shared by every pipeline stage.
type Client struct {
	APIKey     string
	AppKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient returns a client for the given site (e.g. "eu.observer.example");
// requests go to https://api.<site>.
func NewClient(site, apiKey, appKey string) *Client {
	return &Client{
		APIKey:     apiKey,
		AppKey:     appKey,
		BaseURL:    "https://api." + site,
		HTTPClient: &http.Client{Timeout: defaultTimeout},
	}
}

// do sends one request with the credential headers set and returns the
// response with its drained body. in (when non-nil) is marshaled to JSON.
// Status interpretation is left to the caller.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in any) (*http.Response, []byte, error) {
	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return nil, nil, err
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("X-API-Key", c.APIKey)
	req.Header.Set("X-Application-Key", c.AppKey)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, err
	}
	return resp, body, nil
}
