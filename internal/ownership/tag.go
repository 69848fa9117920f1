package ownership

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"team-policy-sync/internal/monitoring"
)

const teamTagKey = "team"

// MonitorFetcher is the slice of the monitoring client the tag resolver
// uses.
type MonitorFetcher interface {
	GetMonitor(ctx context.Context, id int64) (*monitoring.Monitor, error)
}

// TagResolver reads the owning team's name from a monitor's team tag.
type TagResolver struct {
	monitors MonitorFetcher
}

func NewTagResolver(monitors MonitorFetcher) *TagResolver {
	return &TagResolver{monitors: monitors}
}

// Owner returns the value of the monitor's "team" tag, or "" when the
// monitor no longer exists or carries no such tag. Tag values keep any
// colons after the key, so "team:acme:core" resolves to "acme:core".
func (r *TagResolver) Owner(ctx context.Context, resourceID string) (string, error) {
	id, err := strconv.ParseInt(resourceID, 10, 64)
	if err != nil {
		return "", fmt.Errorf("ownership: monitor id %q is not numeric: %w", resourceID, err)
	}
	monitor, err := r.monitors.GetMonitor(ctx, id)
	if err != nil {
		return "", err
	}
	if monitor == nil {
		return "", nil
	}
	for _, tag := range monitor.Tags {
		key, value, ok := strings.Cut(tag, ":")
		if !ok {
			continue
		}
		if key == teamTagKey {
			return value, nil
		}
	}
	return "", nil
}
