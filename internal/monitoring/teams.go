package monitoring

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Team is a directory entry from the team APIs.
type Team struct {
	ID     string
	Name   string
	Handle string
}

type teamData struct {
	ID         string `json:"id"`
	Attributes struct {
		Name   string `json:"name,omitempty"`
		Handle string `json:"handle,omitempty"`
	} `json:"attributes"`
}

type teamListResponse struct {
	Data []teamData `json:"data"`
}

func teamsFrom(data []teamData) []Team {
	out := make([]Team, 0, len(data))
	for _, d := range data {
		out = append(out, Team{ID: d.ID, Name: d.Attributes.Name, Handle: d.Attributes.Handle})
	}
	return out
}

// ListTeams searches the team directory by keyword, in directory order.
// An empty keyword lists every team the credentials can see.
func (c *Client) ListTeams(ctx context.Context, keyword string) ([]Team, error) {
	q := url.Values{}
	if keyword != "" {
		q.Set("filter[keyword]", keyword)
	}
	resp, body, err := c.do(ctx, http.MethodGet, "/api/v2/team", q, nil)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("monitoring: list teams failed status=%d body=%s", resp.StatusCode, string(body))
	}
	var out teamListResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("monitoring: decode team list: %w", err)
	}
	return teamsFrom(out.Data), nil
}

// GetUserMemberships returns the teams the user belongs to, in
// directory order.
func (c *Client) GetUserMemberships(ctx context.Context, userID string) ([]Team, error) {
	path := "/api/v2/users/" + url.PathEscape(userID) + "/memberships"
	resp, body, err := c.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("monitoring: get memberships for user %s failed status=%d body=%s", userID, resp.StatusCode, string(body))
	}
	var out teamListResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("monitoring: decode memberships for user %s: %w", userID, err)
	}
	return teamsFrom(out.Data), nil
}
