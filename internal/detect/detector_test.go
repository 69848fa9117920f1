package detect

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"team-policy-sync/internal/monitoring"
	"team-policy-sync/internal/resource"
)

// fakeSearcher serves canned pages keyed by the request cursor and
// records the cursors it was asked for, in order.
type fakeSearcher struct {
	pages   map[string]*monitoring.AuditSearchResponse
	cursors []string
	lastReq monitoring.AuditSearchRequest
	err     error
}

func (f *fakeSearcher) SearchAuditEvents(ctx context.Context, req monitoring.AuditSearchRequest) (*monitoring.AuditSearchResponse, error) {
	f.cursors = append(f.cursors, req.Page.Cursor)
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	resp, ok := f.pages[req.Page.Cursor]
	if !ok {
		return &monitoring.AuditSearchResponse{}, nil
	}
	return resp, nil
}

func creationEvent(assetID string) monitoring.AuditEvent {
	attrs := map[string]json.RawMessage{}
	if assetID != "" {
		attrs["asset"] = json.RawMessage(`{"id":"` + assetID + `"}`)
	}
	return monitoring.AuditEvent{ID: "evt-" + assetID, Attributes: monitoring.AuditEventAttributes{Attributes: attrs}}
}

func page(cursor string, assetIDs ...string) *monitoring.AuditSearchResponse {
	resp := &monitoring.AuditSearchResponse{}
	for _, id := range assetIDs {
		resp.Data = append(resp.Data, creationEvent(id))
	}
	if cursor != "" {
		resp.Meta = &monitoring.AuditMeta{Page: &monitoring.AuditMetaPage{After: cursor}}
	}
	return resp
}

func TestCreatedInWindow_RequestShape(t *testing.T) {
	tests := []struct {
		kind      resource.Kind
		wantQuery string
	}{
		{resource.Dashboard, "@evt.name:Dashboard AND @action:created"},
		{resource.Monitor, "@evt.name:Monitor AND @action:created"},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			fake := &fakeSearcher{pages: map[string]*monitoring.AuditSearchResponse{
				"": page("", "r1"),
			}}
			d := New(fake, zap.NewNop(), tt.kind)
			if _, err := d.CreatedInWindow(context.Background()); err != nil {
				t.Fatalf("CreatedInWindow: %v", err)
			}

			req := fake.lastReq
			if req.Filter.Query != tt.wantQuery {
				t.Errorf("query = %q, want %q", req.Filter.Query, tt.wantQuery)
			}
			if req.Filter.From != "now-1m" || req.Filter.To != "now" {
				t.Errorf("window = %q..%q, want now-1m..now", req.Filter.From, req.Filter.To)
			}
			if req.Options == nil || req.Options.Timezone != "GMT" || req.Options.TimeOffset != 0 {
				t.Errorf("options = %+v, want GMT with zero offset", req.Options)
			}
			if req.Page == nil || req.Page.Limit != 10 {
				t.Errorf("page = %+v, want limit 10", req.Page)
			}
			if req.Sort != monitoring.SortTimestampAscending {
				t.Errorf("sort = %q, want %q", req.Sort, monitoring.SortTimestampAscending)
			}
		})
	}
}

func TestCreatedInWindow_FollowsCursors(t *testing.T) {
	fake := &fakeSearcher{pages: map[string]*monitoring.AuditSearchResponse{
		"":   page("c1", "r1", "r2"),
		"c1": page("c2", "r3", "r4"),
		"c2": page("", "r5"),
	}}
	d := New(fake, zap.NewNop(), resource.Dashboard)

	ids, err := d.CreatedInWindow(context.Background())
	if err != nil {
		t.Fatalf("CreatedInWindow: %v", err)
	}

	want := []string{"r1", "r2", "r3", "r4", "r5"}
	if len(ids) != len(want) {
		t.Fatalf("got %d ids, want %d", len(ids), len(want))
	}
	for i, id := range want {
		if ids[i] != id {
			t.Errorf("ids[%d] = %q, want %q", i, ids[i], id)
		}
	}

	wantCursors := []string{"", "c1", "c2"}
	if len(fake.cursors) != len(wantCursors) {
		t.Fatalf("made %d requests, want %d", len(fake.cursors), len(wantCursors))
	}
	for i, want := range wantCursors {
		if fake.cursors[i] != want {
			t.Errorf("request %d cursor = %q, want %q", i, fake.cursors[i], want)
		}
	}
}

func TestCreatedInWindow_Empty(t *testing.T) {
	fake := &fakeSearcher{pages: map[string]*monitoring.AuditSearchResponse{
		"": page(""),
	}}
	d := New(fake, zap.NewNop(), resource.Monitor)

	ids, err := d.CreatedInWindow(context.Background())
	if err != nil {
		t.Fatalf("CreatedInWindow: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("got %d ids, want 0", len(ids))
	}
	if len(fake.cursors) != 1 {
		t.Errorf("made %d requests, want 1", len(fake.cursors))
	}
}

func TestCreatedInWindow_EventWithoutAssetSkipped(t *testing.T) {
	fake := &fakeSearcher{pages: map[string]*monitoring.AuditSearchResponse{
		"": page("", "r1", "", "r2"),
	}}
	d := New(fake, zap.NewNop(), resource.Dashboard)

	ids, err := d.CreatedInWindow(context.Background())
	if err != nil {
		t.Fatalf("CreatedInWindow: %v", err)
	}
	want := []string{"r1", "r2"}
	if len(ids) != len(want) || ids[0] != want[0] || ids[1] != want[1] {
		t.Errorf("ids = %v, want %v", ids, want)
	}
}

func TestCreatedInWindow_CursorRepeated(t *testing.T) {
	fake := &fakeSearcher{pages: map[string]*monitoring.AuditSearchResponse{
		"":     page("loop", "r1"),
		"loop": page("loop", "r2"),
	}}
	d := New(fake, zap.NewNop(), resource.Dashboard)

	_, err := d.CreatedInWindow(context.Background())
	if !errors.Is(err, ErrCursorRepeated) {
		t.Fatalf("err = %v, want ErrCursorRepeated", err)
	}
}

func TestCreatedInWindow_PaginatesOverHTTP(t *testing.T) {
	pages := map[string]string{
		"":   `{"data":[{"id":"evt-1","attributes":{"attributes":{"asset":{"id":101}}}},{"id":"evt-2","attributes":{"attributes":{"asset":{"id":102}}}}],"meta":{"page":{"after":"c1"}}}`,
		"c1": `{"data":[{"id":"evt-3","attributes":{"attributes":{"asset":{"id":103}}}}]}`,
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v2/audit/events/search" {
			t.Errorf("path = %q, want /api/v2/audit/events/search", r.URL.Path)
		}
		var req monitoring.AuditSearchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
			w.Write([]byte(`{"data":[]}`))
			return
		}
		body, ok := pages[req.Page.Cursor]
		if !ok {
			t.Errorf("unexpected cursor %q", req.Page.Cursor)
			w.Write([]byte(`{"data":[]}`))
			return
		}
		w.Write([]byte(body))
	}))
	defer server.Close()

	client := monitoring.NewClient("unit.test", "test-api-key", "test-app-key")
	client.BaseURL = server.URL
	d := New(client, zap.NewNop(), resource.Monitor)

	ids, err := d.CreatedInWindow(context.Background())
	if err != nil {
		t.Fatalf("CreatedInWindow: %v", err)
	}
	want := []string{"101", "102", "103"}
	if len(ids) != len(want) {
		t.Fatalf("got %d ids, want %d", len(ids), len(want))
	}
	for i, id := range want {
		if ids[i] != id {
			t.Errorf("ids[%d] = %q, want %q", i, ids[i], id)
		}
	}
}

func TestCreatedInWindow_SearchError(t *testing.T) {
	wantErr := errors.New("audit search failed status=500")
	fake := &fakeSearcher{err: wantErr}
	d := New(fake, zap.NewNop(), resource.Dashboard)

	_, err := d.CreatedInWindow(context.Background())
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
}
