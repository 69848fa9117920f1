package monitoring

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Relations a restriction policy can bind principals to.
const (
	RelationEditor = "editor"
	RelationViewer = "viewer"
)

// RestrictionPolicy is the full access policy for one resource, keyed
// "<kind>:<resource-id>". Writing it replaces any existing policy on
// that resource; there is no merge.
type RestrictionPolicy struct {
	ID       string
	Bindings []PolicyBinding
}

// PolicyBinding grants one relation to a set of principal references
// ("team:<uuid>", "role:<uuid>", "org:<uuid>").
type PolicyBinding struct {
	Relation   string   `json:"relation"`
	Principals []string `json:"principals"`
}

type restrictionPolicyData struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Attributes struct {
		Bindings []PolicyBinding `json:"bindings"`
	} `json:"attributes"`
}

type restrictionPolicyRequest struct {
	Data restrictionPolicyData `json:"data"`
}

// UpdateRestrictionPolicy upserts the policy for resourceID. The call is
// idempotent: repeating it with the same policy leaves the same state.
func (c *Client) UpdateRestrictionPolicy(ctx context.Context, resourceID string, policy RestrictionPolicy) error {
	var req restrictionPolicyRequest
	req.Data.ID = policy.ID
	req.Data.Type = "restriction_policy"
	req.Data.Attributes.Bindings = policy.Bindings

	path := "/api/v2/restriction_policy/" + url.PathEscape(resourceID)
	resp, body, err := c.do(ctx, http.MethodPost, path, nil, req)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("monitoring: update restriction policy %s failed status=%d body=%s", resourceID, resp.StatusCode, string(body))
	}
	return nil
}
