// Package restriction grants an owning team editor access to a resource
// while keeping org-wide read access.
package restriction

import (
	"context"

	"team-policy-sync/internal/monitoring"
	"team-policy-sync/internal/resource"
)

// PolicyUpdater is the slice of the monitoring client the writer uses.
type PolicyUpdater interface {
	UpdateRestrictionPolicy(ctx context.Context, resourceID string, policy monitoring.RestrictionPolicy) error
}

// Writer builds and upserts restriction policies for one resource kind.
type Writer struct {
	policies     PolicyUpdater
	kind         resource.Kind
	editorRoleID string
	viewerOrgID  string
}

func NewWriter(policies PolicyUpdater, kind resource.Kind, editorRoleID, viewerOrgID string) *Writer {
	return &Writer{
		policies:     policies,
		kind:         kind,
		editorRoleID: editorRoleID,
		viewerOrgID:  viewerOrgID,
	}
}

// Policy returns the policy Apply writes for resourceID owned by teamID.
// It always holds exactly two bindings: editor for the team plus the
// platform role, viewer for the whole organization.
func (w *Writer) Policy(resourceID, teamID string) monitoring.RestrictionPolicy {
	return monitoring.RestrictionPolicy{
		ID: w.kind.PolicyID(resourceID),
		Bindings: []monitoring.PolicyBinding{
			{
				Relation:   monitoring.RelationEditor,
				Principals: []string{"team:" + teamID, "role:" + w.editorRoleID},
			},
			{
				Relation:   monitoring.RelationViewer,
				Principals: []string{"org:" + w.viewerOrgID},
			},
		},
	}
}

// Apply replaces the resource's policy with the two-binding policy for
// teamID. Repeating the call produces the same end state.
func (w *Writer) Apply(ctx context.Context, resourceID, teamID string) error {
	policy := w.Policy(resourceID, teamID)
	return w.policies.UpdateRestrictionPolicy(ctx, policy.ID, policy)
}
