// Package logging builds the zap logger shared by the CLI and the dashboard.
package logging

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds logger settings.
type Config struct {
	Level    string // debug, info, warn, error
	Encoding string // console or json

	// OutputPath defaults to stderr so logs never mix with command output.
	OutputPath string
}

// New builds a logger from cfg. An unknown level falls back to warn.
func New(cfg Config) (*zap.Logger, error) {
	level := zap.NewAtomicLevel()
	logLevel := strings.ToLower(strings.TrimSpace(cfg.Level))
	if logLevel == "" {
		logLevel = "warn"
	}
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: invalid log level %q, using warn\n", cfg.Level)
		level.SetLevel(zap.WarnLevel)
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	encoding := strings.ToLower(cfg.Encoding)
	switch encoding {
	case "json":
	case "console", "":
		encoding = "console"
		encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	default:
		fmt.Fprintf(os.Stderr, "Warning: invalid log encoding %q, using console\n", cfg.Encoding)
		encoding = "console"
		encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	outputPath := cfg.OutputPath
	if outputPath == "" {
		outputPath = "stderr"
	}

	zapConfig := zap.Config{
		Level:             level,
		DisableCaller:     true,
		DisableStacktrace: true,
		Encoding:          encoding,
		EncoderConfig:     encoderCfg,
		OutputPaths:       []string{outputPath},
		ErrorOutputPaths:  []string{"stderr"},
	}

	logger, err := zapConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}
