package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/azfin-hq/azfinnews/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger defines the logging surface the rest of the application relies on.
type Logger interface {
	InfoObj(msg, key string, obj interface{})
	DebugObj(msg, key string, obj interface{})
	WarnObj(msg, key string, obj interface{})
	ErrorObj(msg, key string, obj interface{})
}

// Package-level logger to be used across packages after Init.
var S *zap.SugaredLogger

// Init initializes a zap SugaredLogger using settings from config. Logs are
// written to the configured file so structured output never interleaves with
// the interactive screen.
func Init(cfg *config.Config) (Logger, error) {
	var level zapcore.Level
	switch cfg.LogLevel {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn", "warning":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	sink, err := openLogFile(cfg.LogFile)
	if err != nil {
		return nil, err
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.AddSync(zapcore.Lock(sink)),
		level,
	)

	logger := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	sugar := logger.Sugar()
	S = sugar
	return &zapAdapter{s: sugar}, nil
}

func openLogFile(path string) (*os.File, error) {
	if path == "" {
		return os.Stderr, nil
	}
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

// Close flushes any buffered loggers.
func Close() error {
	if S == nil {
		return nil
	}
	return S.Sync()
}

// zapAdapter exposes the shared SugaredLogger through the Logger interface.
type zapAdapter struct {
	s *zap.SugaredLogger
}

func (z *zapAdapter) InfoObj(msg, key string, obj interface{}) {
	z.s.Desugar().Info(msg, zap.Any(key, obj))
}

func (z *zapAdapter) DebugObj(msg, key string, obj interface{}) {
	z.s.Desugar().Debug(msg, zap.Any(key, obj))
}

func (z *zapAdapter) WarnObj(msg, key string, obj interface{}) {
	z.s.Desugar().Warn(msg, zap.Any(key, obj))
}

func (z *zapAdapter) ErrorObj(msg, key string, obj interface{}) {
	z.s.Desugar().Error(msg, zap.Any(key, obj))
}

// NopLogger discards all log output.
type NopLogger struct{}

func (NopLogger) InfoObj(string, string, interface{})  {}
func (NopLogger) DebugObj(string, string, interface{}) {}
func (NopLogger) WarnObj(string, string, interface{})  {}
func (NopLogger) ErrorObj(string, string, interface{}) {}

// Ensure returns a usable logger even when nil was injected.
func Ensure(log Logger) Logger {
	if log == nil {
		return NopLogger{}
	}
	return log
}
