package monitoring

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Monitor is the subset of monitor metadata the pipelines read.
type Monitor struct {
	ID   int64    `json:"id"`
	Name string   `json:"name,omitempty"`
	Tags []string `json:"tags"`
}

// GetMonitor fetches one monitor by id. Returns (nil, nil) when no such
// monitor exists, e.g. deleted between its creation event and this call.
func (c *Client) GetMonitor(ctx context.Context, id int64) (*Monitor, error) {
	path := fmt.Sprintf("/api/v1/monitor/%d", id)
	resp, body, err := c.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("monitoring: get monitor %d failed status=%d body=%s", id, resp.StatusCode, string(body))
	}
	var out Monitor
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("monitoring: decode monitor %d: %w", id, err)
	}
	return &out, nil
}
