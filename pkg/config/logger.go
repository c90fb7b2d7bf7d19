package config

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the process logger. json output uses ISO8601 timestamps and lower-case
// levels for log shippers; console output is colored for local runs. Every entry carries
// the service name. Sampling, when enabled, thins out repeated per-event messages under load.
func NewLogger(cfg LoggingConfig, service string) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	var zc zap.Config
	switch cfg.Format {
	case "console":
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zc.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	default:
		zc = zap.NewProductionConfig()
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		zc.EncoderConfig.TimeKey = "ts"
		zc.EncoderConfig.EncodeDuration = zapcore.MillisDurationEncoder
	}

	zc.Level = zap.NewAtomicLevelAt(level)
	if !cfg.Sampling {
		zc.Sampling = nil
	} else if zc.Sampling == nil {
		zc.Sampling = &zap.SamplingConfig{Initial: 100, Thereafter: 100}
	}
	if out := cfg.OutputPath; out != "" && out != "stdout" {
		zc.OutputPaths = []string{out}
	}
	if service != "" {
		zc.InitialFields = map[string]any{"service": service}
	}

	logger, err := zc.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}
