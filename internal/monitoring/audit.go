package monitoring

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// SortTimestampAscending orders audit search results oldest first.
const SortTimestampAscending = "timestamp"

// AuditSearchRequest is the body of POST /api/v2/audit/events/search.
type AuditSearchRequest struct {
	Filter  AuditFilter   `json:"filter"`
	Options *AuditOptions `json:"options,omitempty"`
	Page    *AuditPage    `json:"page,omitempty"`
	Sort    string        `json:"sort,omitempty"`
}

// AuditFilter narrows a search to a time range and query. From and To
// accept the service's relative expressions (e.g. "now-1m", "now").
type AuditFilter struct {
	From  string `json:"from,omitempty"`
	To    string `json:"to,omitempty"`
	Query string `json:"query,omitempty"`
}

type AuditOptions struct {
	TimeOffset int    `json:"time_offset"`
	Timezone   string `json:"timezone,omitempty"`
}

type AuditPage struct {
	Limit  int    `json:"limit,omitempty"`
	Cursor string `json:"cursor,omitempty"`
}

type AuditSearchResponse struct {
	Data []AuditEvent `json:"data"`
	Meta *AuditMeta   `json:"meta,omitempty"`
}

type AuditMeta struct {
	Page *AuditMetaPage `json:"page,omitempty"`
}

type AuditMetaPage struct {
	After string `json:"after,omitempty"`
}

// NextCursor returns the cursor for the following page, or "" on the
// last page.
func (r *AuditSearchResponse) NextCursor() string {
	if r == nil || r.Meta == nil || r.Meta.Page == nil {
		return ""
	}
	return r.Meta.Page.After
}

// AuditEvent is one audit-log record. Creation events carry the touched
// asset and the acting user inside the free-form attribute map.
type AuditEvent struct {
	ID         string               `json:"id"`
	Attributes AuditEventAttributes `json:"attributes"`
}

type AuditEventAttributes struct {
	Timestamp  time.Time                  `json:"timestamp"`
	Attributes map[string]json.RawMessage `json:"attributes"`
}

// flexID decodes an id that arrives as either a JSON string or a JSON
// number: dashboard ids are strings, monitor ids are numbers.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("monitoring: id is neither string nor number: %s", data)
	}
	*f = flexID(n.String())
	return nil
}

type auditRef struct {
	ID   flexID `json:"id"`
	Kind string `json:"kind,omitempty"`
}

func (e AuditEvent) ref(key string) auditRef {
	raw, ok := e.Attributes.Attributes[key]
	if !ok {
		return auditRef{}
	}
	var ref auditRef
	if err := json.Unmarshal(raw, &ref); err != nil {
		return auditRef{}
	}
	return ref
}

// AssetID returns the id of the asset the event is about, or "".
func (e AuditEvent) AssetID() string { return string(e.ref("asset").ID) }

// ActingUserID returns the id of the user who performed the action, or "".
func (e AuditEvent) ActingUserID() string { return string(e.ref("user").ID) }

// SearchAuditEvents runs one audit-log search and returns one page of
// results. Callers page by copying NextCursor into the next request.
func (c *Client) SearchAuditEvents(ctx context.Context, req AuditSearchRequest) (*AuditSearchResponse, error) {
	resp, body, err := c.do(ctx, http.MethodPost, "/api/v2/audit/events/search", nil, req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("monitoring: audit search failed status=%d body=%s", resp.StatusCode, string(body))
	}
	var out AuditSearchResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("monitoring: decode audit search response: %w", err)
	}
	return &out, nil
}
