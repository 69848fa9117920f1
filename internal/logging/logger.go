// Package logging builds the zap logger the binaries log through.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a production JSON logger writing to stdout. level is a zap
// level name ("debug", "info", ...); unknown names fall back to info.
// The process reports through standard output only, so zap's internal
// errors go to stdout as well.
func New(level string) (*zap.Logger, error) {
	config := zap.NewProductionConfig()

	if level != "" {
		if l, err := zapcore.ParseLevel(level); err == nil {
			config.Level.SetLevel(l)
		}
	}

	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stdout"}

	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return config.Build()
}
