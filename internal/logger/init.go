package logger

import (
	"os"

	"github.com/Backland-Labs/courier/internal/config"
)

// InitializeFromConfig sets up the global logger based on the settings.
// COURIER_LOG_LEVEL, when set, overrides the verbosity-derived level.
func InitializeFromConfig(settings *config.Settings) {
	cfg := ConfigFromEnv()

	switch settings.Verbosity {
	case config.VerbosityDebug:
		cfg.Level = DebugLevel
	case config.VerbosityVerbose:
		cfg.Level = InfoLevel
	default:
		cfg.Level = ErrorLevel
	}
	if levelStr := os.Getenv("COURIER_LOG_LEVEL"); levelStr != "" {
		cfg.Level = LevelFromString(levelStr)
	}

	if zapLogger, err := NewZapLogger(cfg); err == nil {
		SetLogger(&Logger{zap: zapLogger})
	} else {
		SetLogger(New(cfg.Level))
	}
}

// Package-level helpers log through the global logger
func Debug(msg string) { GetLogger().Debug(msg) }
func Info(msg string)  { GetLogger().Info(msg) }
func Warn(msg string)  { GetLogger().Warn(msg) }
func Error(msg string) { GetLogger().Error(msg) }

func Debugf(format string, args ...interface{}) { GetLogger().Debugf(format, args...) }
func Infof(format string, args ...interface{})  { GetLogger().Infof(format, args...) }
func Warnf(format string, args ...interface{})  { GetLogger().Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { GetLogger().Errorf(format, args...) }

// WithField returns the global logger with one field attached
func WithField(key string, value interface{}) *Logger {
	return GetLogger().WithField(key, value)
}

// WithFields returns the global logger with fields attached
func WithFields(fields map[string]interface{}) *Logger {
	return GetLogger().WithFields(fields)
}

// WithRun returns the global logger tagged with a run id
func WithRun(runID string) *Logger {
	return GetLogger().WithRun(runID)
}

// WithError returns the global logger with an error field
func WithError(err error) *Logger {
	return GetLogger().WithError(err)
}
