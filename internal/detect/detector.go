// Package detect finds resources created in the trailing scan window by
// searching the audit log.
package detect

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"team-policy-sync/internal/monitoring"
	"team-policy-sync/internal/resource"
)

// Scan window and page size for one detector run.
const (
	windowFrom = "now-1m"
	windowTo   = "now"
	pageLimit  = 10
)

// ErrCursorRepeated reports an audit search that returned a pagination
// cursor already consumed in the same scan.
var ErrCursorRepeated = errors.New("detect: pagination cursor repeated")

// AuditSearcher is the slice of the monitoring client the detector uses.
type AuditSearcher interface {
	SearchAuditEvents(ctx context.Context, req monitoring.AuditSearchRequest) (*monitoring.AuditSearchResponse, error)
}

// Detector lists resources of one kind created in the scan window.
type Detector struct {
	audit  AuditSearcher
	logger *zap.Logger
	kind   resource.Kind
}

func New(audit AuditSearcher, logger *zap.Logger, kind resource.Kind) *Detector {
	return &Detector{audit: audit, logger: logger, kind: kind}
}

// CreatedInWindow returns the id of every resource of the detector's
// kind created in the trailing one-minute window, oldest first. It
// follows pagination cursors until the service stops returning one, so
// each creation event contributes exactly once.
func (d *Detector) CreatedInWindow(ctx context.Context) ([]string, error) {
	req := monitoring.AuditSearchRequest{
		Filter: monitoring.AuditFilter{
			From:  windowFrom,
			To:    windowTo,
			Query: fmt.Sprintf("@evt.name:%s AND @action:created", d.kind.EventName()),
		},
		Options: &monitoring.AuditOptions{TimeOffset: 0, Timezone: "GMT"},
		Page:    &monitoring.AuditPage{Limit: pageLimit},
		Sort:    monitoring.SortTimestampAscending,
	}

	var ids []string
	seen := make(map[string]struct{})
	cursor := ""
	for {
		req.Page.Cursor = cursor
		resp, err := d.audit.SearchAuditEvents(ctx, req)
		if err != nil {
			return nil, err
		}
		for _, event := range resp.Data {
			id := event.AssetID()
			if id == "" {
				d.logger.Warn("creation event without asset id",
					zap.String("kind", d.kind.String()),
					zap.String("event_id", event.ID))
				continue
			}
			ids = append(ids, id)
		}

		next := resp.NextCursor()
		if next == "" {
			break
		}
		if _, ok := seen[next]; ok {
			return nil, fmt.Errorf("%w: %q", ErrCursorRepeated, next)
		}
		seen[next] = struct{}{}
		cursor = next
	}
	return ids, nil
}
