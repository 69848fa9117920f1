package telemetry

import (
	"context"
	"time"

	otellog "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// Outcomes for one resource processed by a pipeline run.
const (
	OutcomeApplied = "applied"
	OutcomeSkipped = "skipped"
	OutcomeFailed  = "failed"
)

// Event records the outcome of one resource in one pipeline run.
type Event struct {
	RunID      string
	Kind       string
	ResourceID string
	Owner      string
	TeamID     string
	Outcome    string
	Reason     string
	OccurredAt time.Time
}

// Emitter emits pipeline events (e.g. to OTel Logs). Best-effort; callers log and ignore errors.
type Emitter interface {
	Emit(ctx context.Context, event *Event) error
}

// NewEmitter returns an Emitter that sends events as OTel log records via the given LoggerProvider.
// If provider is nil, returns a no-op emitter.
func NewEmitter(provider *sdklog.LoggerProvider) Emitter {
	if provider == nil {
		return noopEmitter{}
	}
	return &otelEmitter{logger: provider.Logger("team-policy-sync.telemetry")}
}

type noopEmitter struct{}

func (noopEmitter) Emit(context.Context, *Event) error { return nil }

// recordLogger is the part of otellog.Logger the emitter uses; split out
// so tests can capture emitted records.
type recordLogger interface {
	Emit(ctx context.Context, rec otellog.Record)
}

// NewEmitterWithLogger returns an Emitter writing records directly to l.
func NewEmitterWithLogger(l recordLogger) Emitter {
	return &otelEmitter{logger: l}
}

type otelEmitter struct {
	logger recordLogger
}

// Emit converts the event to an OTel log record and emits it.
func (e *otelEmitter) Emit(ctx context.Context, event *Event) error {
	if event == nil {
		return nil
	}
	rec := otellog.Record{}
	if !event.OccurredAt.IsZero() {
		rec.SetTimestamp(event.OccurredAt)
	} else {
		rec.SetTimestamp(time.Now().UTC())
	}
	if event.Outcome != "" {
		rec.SetBody(otellog.StringValue(event.Outcome))
		rec.AddAttributes(otellog.String("outcome", event.Outcome))
	}
	if event.RunID != "" {
		rec.AddAttributes(otellog.String("run_id", event.RunID))
	}
	if event.Kind != "" {
		rec.AddAttributes(otellog.String("kind", event.Kind))
	}
	if event.ResourceID != "" {
		rec.AddAttributes(otellog.String("resource_id", event.ResourceID))
	}
	if event.Owner != "" {
		rec.AddAttributes(otellog.String("owner", event.Owner))
	}
	if event.TeamID != "" {
		rec.AddAttributes(otellog.String("team_id", event.TeamID))
	}
	if event.Reason != "" {
		rec.AddAttributes(otellog.String("reason", event.Reason))
	}
	e.logger.Emit(ctx, rec)
	return nil
}
