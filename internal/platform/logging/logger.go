// Package logging provides the process-wide zap logger and request-scoped helpers.
package logging

import (
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/janisto/question-list/internal/platform/timeutil"
)

var (
	loggerOnce sync.Once
	baseLogger *zap.Logger
	loggerErr  error

	// level is shared by every logger built here, so SetLevel applies at runtime.
	level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

// severities holds the Cloud Logging name for each zap level.
var severities = map[zapcore.Level]string{
	zapcore.DebugLevel:  "DEBUG",
	zapcore.InfoLevel:   "INFO",
	zapcore.WarnLevel:   "WARNING",
	zapcore.ErrorLevel:  "ERROR",
	zapcore.DPanicLevel: "CRITICAL",
	zapcore.PanicLevel:  "ALERT",
	zapcore.FatalLevel:  "EMERGENCY",
}

func encodeSeverity(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	name, ok := severities[l]
	if !ok {
		name = "DEFAULT"
	}
	enc.AppendString(name)
}

func encodeTimeMicros(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(timeutil.FormatMicros(t))
}

// productionConfig is zap's production preset writing Cloud Logging
// structured JSON to stdout.
func productionConfig() zap.Config {
	cfg := zap.NewProductionConfig()
	cfg.Level = level
	cfg.OutputPaths = []string{"stdout"}
	cfg.ErrorOutputPaths = []string{"stdout"}

	enc := &cfg.EncoderConfig
	enc.TimeKey, enc.EncodeTime = "timestamp", encodeTimeMicros
	enc.LevelKey, enc.EncodeLevel = "severity", encodeSeverity
	enc.MessageKey = "message"
	enc.CallerKey = "caller"
	return cfg
}

func buildLogger() {
	baseLogger, loggerErr = productionConfig().Build(zap.AddCaller())
	if loggerErr != nil {
		baseLogger = zap.NewNop()
	}
}

// SetLevel changes the minimum enabled level of the shared logger.
// Accepts zap level names ("debug", "info", "warn", "error").
func SetLevel(name string) error {
	parsed, err := zapcore.ParseLevel(name)
	if err != nil {
		return err
	}
	level.SetLevel(parsed)
	return nil
}

// Logger returns the process-wide zap.Logger instance.
func Logger() *zap.Logger {
	loggerOnce.Do(buildLogger)
	return baseLogger
}

// Sync flushes buffered log entries. Call during shutdown.
func Sync() error {
	return Logger().Sync()
}

// Err reports initialization failure, if any.
func Err() error {
	loggerOnce.Do(buildLogger)
	return loggerErr
}
