// Package logging builds the zap logger shared by the CLI and the engine.
package logging

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultLevel is used when no level is configured.
const DefaultLevel = "warn"

// New returns a console logger writing to w at the given level. An empty
// level means DefaultLevel.
func New(level string, w io.Writer) (*zap.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig()),
		zapcore.Lock(zapcore.AddSync(w)),
		lvl,
	)
	return zap.New(core, zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

// ParseLevel accepts the zap level names, case-insensitively, plus "trace"
// as an alias for debug.
func ParseLevel(level string) (zapcore.Level, error) {
	level = strings.ToLower(strings.TrimSpace(level))
	switch level {
	case "":
		level = DefaultLevel
	case "trace":
		level = "debug"
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("parsing log level %q: %w", level, err)
	}
	return lvl, nil
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = ""
	cfg.LevelKey = "L"
	cfg.NameKey = "N"
	cfg.MessageKey = "M"
	cfg.CallerKey = ""
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return cfg
}
