// Package ownership resolves the team reference that should own a
// freshly created resource: the creating user for dashboards, the team
// tag for monitors. An empty owner means nothing could be resolved and
// the resource should be skipped.
package ownership

import (
	"context"
	"fmt"

	"team-policy-sync/internal/monitoring"
	"team-policy-sync/internal/resource"
)

// AuditSearcher is the slice of the monitoring client the creator
// resolver uses.
type AuditSearcher interface {
	SearchAuditEvents(ctx context.Context, req monitoring.AuditSearchRequest) (*monitoring.AuditSearchResponse, error)
}

// CreatorResolver finds the user who created a resource by re-querying
// the audit log for that resource's creation event.
type CreatorResolver struct {
	audit AuditSearcher
	kind  resource.Kind
}

func NewCreatorResolver(audit AuditSearcher, kind resource.Kind) *CreatorResolver {
	return &CreatorResolver{audit: audit, kind: kind}
}

// Owner returns the id of the user who created the resource, or "" when
// the audit log holds no creation event (or no acting user) for it.
func (r *CreatorResolver) Owner(ctx context.Context, resourceID string) (string, error) {
	req := monitoring.AuditSearchRequest{
		Filter: monitoring.AuditFilter{
			From:  "now-1m",
			To:    "now",
			Query: fmt.Sprintf("@evt.name:%s AND @action:created AND @asset.id:%s", r.kind.EventName(), resourceID),
		},
	}
	resp, err := r.audit.SearchAuditEvents(ctx, req)
	if err != nil {
		return "", err
	}
	if len(resp.Data) == 0 {
		return "", nil
	}
	return resp.Data[0].ActingUserID(), nil
}
