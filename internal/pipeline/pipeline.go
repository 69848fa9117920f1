// Package pipeline runs one permission-sync pass for a single resource
// kind: scan the audit log for freshly created resources, resolve the
// owning team for each, and write its restriction policy.
package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"team-policy-sync/internal/resource"
	"team-policy-sync/internal/telemetry"
)

// Detector is the minimal change detector needed by the pipeline.
type Detector interface {
	CreatedInWindow(ctx context.Context) ([]string, error)
}

// OwnerResolver is the minimal owner lookup needed by the pipeline. An
// empty owner with a nil error means none could be resolved.
type OwnerResolver interface {
	Owner(ctx context.Context, resourceID string) (string, error)
}

// TeamLookup is the minimal directory lookup needed by the pipeline. An
// empty team id with a nil error means no team matched.
type TeamLookup interface {
	TeamID(ctx context.Context, owner string) (string, error)
}

// PolicyWriter is the minimal permission writer needed by the pipeline.
type PolicyWriter interface {
	Apply(ctx context.Context, resourceID, teamID string) error
}

// Pipeline wires the four stages for one resource kind. Resources are
// processed sequentially and independently: a failure on one is logged
// and the pass moves on to the next.
type Pipeline struct {
	kind     resource.Kind
	runID    string
	detector Detector
	owners   OwnerResolver
	teams    TeamLookup
	policies PolicyWriter
	logger   *zap.Logger
	metrics  *telemetry.Metrics
	emitter  telemetry.Emitter
}

// New returns a Pipeline with the given stages and instrumentation.
func New(
	kind resource.Kind,
	runID string,
	detector Detector,
	owners OwnerResolver,
	teams TeamLookup,
	policies PolicyWriter,
	logger *zap.Logger,
	metrics *telemetry.Metrics,
	emitter telemetry.Emitter,
) *Pipeline {
	return &Pipeline{
		kind:     kind,
		runID:    runID,
		detector: detector,
		owners:   owners,
		teams:    teams,
		policies: policies,
		logger:   logger.With(zap.String("kind", kind.String()), zap.String("run_id", runID)),
		metrics:  metrics,
		emitter:  emitter,
	}
}

// Run executes one pass. It never returns an error: a scan failure ends
// the pass, everything later is contained per resource, and all
// outcomes are reported through logs, counters, and telemetry events.
func (p *Pipeline) Run(ctx context.Context) {
	ids, err := p.detector.CreatedInWindow(ctx)
	if err != nil {
		p.logger.Error("audit scan failed", zap.Error(err))
		return
	}
	if len(ids) == 0 {
		p.logger.Info("no resources created in the last minute")
		return
	}

	p.metrics.AddDiscovered(ctx, p.kind.String(), int64(len(ids)))
	p.logger.Info("resources created in the last minute", zap.Int("count", len(ids)))

	for _, id := range ids {
		p.process(ctx, id)
	}
}

// process runs the three downstream stages for one resource. Failures
// stay inside this call so one resource cannot abort the others.
func (p *Pipeline) process(ctx context.Context, resourceID string) {
	logger := p.logger.With(zap.String("resource_id", resourceID))

	owner, err := p.owners.Owner(ctx, resourceID)
	if err != nil {
		logger.Error("failed to process resource", zap.Error(err))
		p.metrics.AddFailed(ctx, p.kind.String())
		p.emit(ctx, resourceID, "", "", telemetry.OutcomeFailed, err.Error())
		return
	}
	if owner == "" {
		logger.Warn("no owner resolved, skipping resource")
		p.metrics.AddSkipped(ctx, p.kind.String())
		p.emit(ctx, resourceID, "", "", telemetry.OutcomeSkipped, "no owner resolved")
		return
	}

	teamID, err := p.teams.TeamID(ctx, owner)
	if err != nil {
		logger.Error("failed to process resource", zap.String("owner", owner), zap.Error(err))
		p.metrics.AddFailed(ctx, p.kind.String())
		p.emit(ctx, resourceID, owner, "", telemetry.OutcomeFailed, err.Error())
		return
	}
	if teamID == "" {
		logger.Warn("no team found, skipping resource", zap.String("owner", owner))
		p.metrics.AddSkipped(ctx, p.kind.String())
		p.emit(ctx, resourceID, owner, "", telemetry.OutcomeSkipped, "no team found")
		return
	}

	if err := p.policies.Apply(ctx, resourceID, teamID); err != nil {
		logger.Error("failed to process resource",
			zap.String("owner", owner), zap.String("team_id", teamID), zap.Error(err))
		p.metrics.AddFailed(ctx, p.kind.String())
		p.emit(ctx, resourceID, owner, teamID, telemetry.OutcomeFailed, err.Error())
		return
	}

	logger.Info("restriction policy applied",
		zap.String("owner", owner), zap.String("team_id", teamID))
	p.metrics.AddApplied(ctx, p.kind.String())
	p.emit(ctx, resourceID, owner, teamID, telemetry.OutcomeApplied, "")
}

// emit sends one per-resource outcome event. Emission is best-effort.
func (p *Pipeline) emit(ctx context.Context, resourceID, owner, teamID, outcome, reason string) {
	if p.emitter == nil {
		return
	}
	event := &telemetry.Event{
		RunID:      p.runID,
		Kind:       p.kind.String(),
		ResourceID: resourceID,
		Owner:      owner,
		TeamID:     teamID,
		Outcome:    outcome,
		Reason:     reason,
		OccurredAt: time.Now().UTC(),
	}
	if err := p.emitter.Emit(ctx, event); err != nil {
		p.logger.Warn("failed to emit pipeline event", zap.Error(err))
	}
}
