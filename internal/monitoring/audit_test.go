package monitoring

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSearchAuditEvents_RequestBody(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %q, want %q", r.Method, http.MethodPost)
		}
		if r.URL.Path != "/api/v2/audit/events/search" {
			t.Errorf("path = %q, want /api/v2/audit/events/search", r.URL.Path)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", r.Header.Get("Content-Type"))
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	client := testClient(server.URL)
	req := AuditSearchRequest{
		Filter:  AuditFilter{From: "now-1m", To: "now", Query: "@evt.name:Dashboard AND @action:created"},
		Options: &AuditOptions{TimeOffset: 0, Timezone: "GMT"},
		Page:    &AuditPage{Limit: 10, Cursor: "abc"},
		Sort:    SortTimestampAscending,
	}
	if _, err := client.SearchAuditEvents(context.Background(), req); err != nil {
		t.Fatalf("SearchAuditEvents: %v", err)
	}

	filter, _ := received["filter"].(map[string]any)
	if filter["from"] != "now-1m" || filter["to"] != "now" {
		t.Errorf("filter window = %v/%v, want now-1m/now", filter["from"], filter["to"])
	}
	if filter["query"] != "@evt.name:Dashboard AND @action:created" {
		t.Errorf("filter query = %v", filter["query"])
	}
	options, _ := received["options"].(map[string]any)
	if options["timezone"] != "GMT" {
		t.Errorf("options timezone = %v, want GMT", options["timezone"])
	}
	if options["time_offset"] != float64(0) {
		t.Errorf("options time_offset = %v, want 0", options["time_offset"])
	}
	page, _ := received["page"].(map[string]any)
	if page["limit"] != float64(10) {
		t.Errorf("page limit = %v, want 10", page["limit"])
	}
	if page["cursor"] != "abc" {
		t.Errorf("page cursor = %v, want abc", page["cursor"])
	}
	if received["sort"] != "timestamp" {
		t.Errorf("sort = %v, want timestamp", received["sort"])
	}
}

func TestSearchAuditEvents_EventHelpers(t *testing.T) {
	body := `{
		"data": [
			{"id": "ev1", "attributes": {"timestamp": "2026-08-25T10:00:00Z", "attributes": {"asset": {"id": "abc-def-ghi", "kind": "dashboard"}, "user": {"id": "u-1"}}}},
			{"id": "ev2", "attributes": {"attributes": {"asset": {"id": 4242, "kind": "monitor"}}}},
			{"id": "ev3", "attributes": {"attributes": {}}}
		],
		"meta": {"page": {"after": "cursor-2"}}
	}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer server.Close()

	client := testClient(server.URL)
	resp, err := client.SearchAuditEvents(context.Background(), AuditSearchRequest{})
	if err != nil {
		t.Fatalf("SearchAuditEvents: %v", err)
	}
	if len(resp.Data) != 3 {
		t.Fatalf("len(Data) = %d, want 3", len(resp.Data))
	}
	if got := resp.Data[0].AssetID(); got != "abc-def-ghi" {
		t.Errorf("string AssetID = %q, want %q", got, "abc-def-ghi")
	}
	if got := resp.Data[0].ActingUserID(); got != "u-1" {
		t.Errorf("ActingUserID = %q, want %q", got, "u-1")
	}
	if got := resp.Data[1].AssetID(); got != "4242" {
		t.Errorf("numeric AssetID = %q, want %q", got, "4242")
	}
	if got := resp.Data[1].ActingUserID(); got != "" {
		t.Errorf("missing user id = %q, want empty", got)
	}
	if got := resp.Data[2].AssetID(); got != "" {
		t.Errorf("missing asset id = %q, want empty", got)
	}
	if got := resp.NextCursor(); got != "cursor-2" {
		t.Errorf("NextCursor = %q, want %q", got, "cursor-2")
	}
}

func TestSearchAuditEvents_NoCursorOnLastPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": []}`))
	}))
	defer server.Close()

	client := testClient(server.URL)
	resp, err := client.SearchAuditEvents(context.Background(), AuditSearchRequest{})
	if err != nil {
		t.Fatalf("SearchAuditEvents: %v", err)
	}
	if got := resp.NextCursor(); got != "" {
		t.Errorf("NextCursor = %q, want empty", got)
	}
}

func TestSearchAuditEvents_Non2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"errors":["forbidden"]}`))
	}))
	defer server.Close()

	client := testClient(server.URL)
	_, err := client.SearchAuditEvents(context.Background(), AuditSearchRequest{})
	if err == nil {
		t.Fatal("expected error for 403 status")
	}
	if !strings.Contains(err.Error(), "status=403") {
		t.Errorf("error = %q, want to contain 'status=403'", err.Error())
	}
	if !strings.Contains(err.Error(), "forbidden") {
		t.Errorf("error = %q, want to contain response body", err.Error())
	}
}

func TestFlexID_Invalid(t *testing.T) {
	var f flexID
	if err := json.Unmarshal([]byte(`{"nested":true}`), &f); err == nil {
		t.Fatal("expected error for object-valued id")
	}
}
