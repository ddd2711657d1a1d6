// Package logger constructs the zap logger used throughout a QFC node.
// The teacher's own foundation/logger package is not part of the
// retrieval pack this module was built from (only its call sites are),
// so this is a small from-scratch constructor wired directly to zap,
// matching the logger.New("NODE") call shape seen at those sites.
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New constructs a production-configured *zap.Logger tagged with
// service, the component name (e.g. "NODE", "CLI") shown on every line.
func New(service string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	log, err := cfg.Build(zap.Fields(zap.String("service", service)))
	if err != nil {
		return nil, fmt.Errorf("construct logger: %w", err)
	}

	return log, nil
}
