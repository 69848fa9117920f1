// Package resource defines the resource kinds the pipelines operate on.
package resource

// Kind identifies the kind of platform resource a pipeline processes.
type Kind string

const (
	Dashboard Kind = "dashboard"
	Monitor   Kind = "monitor"
)

func (k Kind) String() string { return string(k) }

// EventName is the audit event name recorded for creations of this kind.
func (k Kind) EventName() string {
	switch k {
	case Dashboard:
		return "Dashboard"
	case Monitor:
		return "Monitor"
	default:
		return string(k)
	}
}

// PolicyID is the restriction policy key for a single resource of this kind.
func (k Kind) PolicyID(resourceID string) string {
	return string(k) + ":" + resourceID
}
