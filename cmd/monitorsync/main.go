// Monitorsync finds monitors created in the last minute and grants the
// team named by their "team" tag editor access via a restriction policy.
// Set SITE, API_KEY, and APP_KEY; see internal/config for optional keys.
package main

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"team-policy-sync/internal/config"
	"team-policy-sync/internal/detect"
	"team-policy-sync/internal/logging"
	"team-policy-sync/internal/monitoring"
	"team-policy-sync/internal/ownership"
	"team-policy-sync/internal/pipeline"
	"team-policy-sync/internal/resource"
	"team-policy-sync/internal/restriction"
	"team-policy-sync/internal/teams"
	"team-policy-sync/internal/telemetry"
)

const serviceName = "monitorsync"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("%s: %v", serviceName, err)
		return
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Printf("%s: logger: %v", serviceName, err)
		return
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	providers, err := telemetry.NewProviders(ctx, cfg.OTELExporterOTLPEndpoint, serviceName, cfg.OTELExporterOTLPInsecure)
	if err != nil {
		logger.Warn("telemetry export disabled", zap.Error(err))
		// Cannot fail for an empty endpoint.
		providers, _ = telemetry.NewProviders(ctx, "", serviceName, false)
	}
	providers.SetGlobal()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			logger.Warn("telemetry shutdown failed", zap.Error(err))
		}
	}()

	metrics, err := telemetry.NewMetrics(providers.MeterProvider.Meter(serviceName))
	if err != nil {
		logger.Warn("metrics disabled", zap.Error(err))
	}
	emitter := telemetry.NewEmitter(providers.LoggerProvider)

	client := monitoring.NewClient(cfg.Site, cfg.APIKey, cfg.AppKey)
	runID := uuid.New().String()

	pipeline.New(
		resource.Monitor,
		runID,
		detect.New(client, logger, resource.Monitor),
		ownership.NewTagResolver(client),
		teams.NewByName(client, logger),
		restriction.NewWriter(client, resource.Monitor, cfg.EditorRoleID, cfg.ViewerOrgID),
		logger,
		metrics,
		emitter,
	).Run(ctx)
}
