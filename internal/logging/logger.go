package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// globalLogger is a no-op until Init runs, so packages can log from tests
// without any setup.
var globalLogger = zap.NewNop().Sugar()

func Init(appEnv string) error {
	var config zap.Config
	if appEnv == "production" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
	}
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.Encoding = "json"

	logger, err := config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	globalLogger = logger.Sugar()
	return nil
}

func GetLogger() *zap.SugaredLogger {
	return globalLogger
}

// SetLogger swaps the global logger, mostly for tests that want to inspect
// output.
func SetLogger(l *zap.SugaredLogger) {
	globalLogger = l
}

// Close flushes any buffered logs
func Close() error {
	return globalLogger.Sync()
}

// Info logs at info level with alternating key-value fields.
func Info(message string, fields ...any) {
	globalLogger.Infow(message, fields...)
}

// Debug logs at debug level; production builds drop it.
func Debug(message string, fields ...any) {
	globalLogger.Debugw(message, fields...)
}

// Warn logs a recoverable problem at warn level.
func Warn(message string, fields ...any) {
	globalLogger.Warnw(message, fields...)
}

// Error logs at error level with alternating key-value fields.
func Error(message string, fields ...any) {
	globalLogger.Errorw(message, fields...)
}

// Fatal logs at fatal level and exits the process.
func Fatal(message string, fields ...any) {
	globalLogger.Fatalw(message, fields...)
}

// WithRequest returns a logger carrying the request's identifying fields.
func WithRequest(requestID, method, path string) *zap.SugaredLogger {
	return globalLogger.With(
		"request_id", requestID,
		"method", method,
		"path", path,
	)
}
