// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"

	"github.com/spf13/viper"
)

// Default principals baked into every restriction policy. Both can be
// overridden per deployment via EDITOR_ROLE_ID / VIEWER_ORG_ID.
const (
	DefaultEditorRoleID = "e5091040-1d03-11ef-9dbc-da7ad0900005"
	DefaultViewerOrgID  = "e4f8bb8c-1d03-11ef-9b95-da7ad0900005"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// Site is the platform site/region (e.g. "eu.observer.example"); the API base URL becomes https://api.<Site>.
	Site string `mapstructure:"SITE"`
	// APIKey is the platform API key; sent as X-API-Key on every request.
	APIKey string `mapstructure:"API_KEY"`
	// AppKey is the platform application key; sent as X-Application-Key on every request.
	AppKey string `mapstructure:"APP_KEY"`
	// EditorRoleID is the role granted editor access alongside the owning team.
	EditorRoleID string `mapstructure:"EDITOR_ROLE_ID"`
	// ViewerOrgID is the organization principal granted viewer access.
	ViewerOrgID string `mapstructure:"VIEWER_ORG_ID"`
	// LogLevel is the zap level name (e.g. "info", "debug"); invalid names fall back to info.
	LogLevel string `mapstructure:"LOG_LEVEL"`
	// OTELExporterOTLPEndpoint is the OTLP gRPC collector endpoint (e.g. http://localhost:4317). Empty disables telemetry export.
	OTELExporterOTLPEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	// OTELExporterOTLPInsecure forces plaintext OTLP even for https endpoints (standard OTEL_EXPORTER_OTLP_INSECURE behavior).
	OTELExporterOTLPInsecure bool `mapstructure:"OTEL_EXPORTER_OTLP_INSECURE"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an error if required fields are invalid.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("SITE", "")
	v.SetDefault("API_KEY", "")
	v.SetDefault("APP_KEY", "")
	v.SetDefault("EDITOR_ROLE_ID", DefaultEditorRoleID)
	v.SetDefault("VIEWER_ORG_ID", DefaultViewerOrgID)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_INSECURE", false)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.Site == "" {
		return nil, errors.New("config: SITE must be set")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("config: API_KEY must be set")
	}
	if cfg.AppKey == "" {
		return nil, errors.New("config: APP_KEY must be set")
	}
	if cfg.EditorRoleID == "" {
		return nil, errors.New("config: EDITOR_ROLE_ID must be set")
	}
	if cfg.ViewerOrgID == "" {
		return nil, errors.New("config: VIEWER_ORG_ID must be set")
	}

	return &cfg, nil
}
