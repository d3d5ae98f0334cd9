package logger

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger wraps zap.Logger to provide our logging interface
type ZapLogger struct {
	*zap.Logger
}

func wrapZap(l *zap.Logger) *ZapLogger {
	return &ZapLogger{Logger: l}
}

// NewZapLogger creates a new ZapLogger from cfg
func NewZapLogger(cfg *Config) (*ZapLogger, error) {
	var zcfg zap.Config

	if cfg.IsDevelopment() {
		zcfg = zap.NewDevelopmentConfig()
		zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zcfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")
	} else {
		zcfg = zap.NewProductionConfig()
		zcfg.EncoderConfig.TimeKey = "timestamp"
		zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	switch cfg.Level {
	case DebugLevel:
		zcfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case InfoLevel:
		zcfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case ErrorLevel:
		zcfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	// Development config turns these on by default; they are opt-in here.
	zcfg.DisableCaller = !cfg.Caller
	zcfg.DisableStacktrace = true

	opts := []zap.Option{zap.AddCallerSkip(3)}
	if cfg.Stacktrace != "" {
		opts = append(opts, zap.AddStacktrace(stacktraceLevel(cfg.Stacktrace)))
	}

	l, err := zcfg.Build(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create zap logger: %w", err)
	}
	return wrapZap(l), nil
}

// NewZapLoggerFromEnv creates a logger configured from environment variables
func NewZapLoggerFromEnv() (*ZapLogger, error) {
	return NewZapLogger(ConfigFromEnv())
}

func stacktraceLevel(s string) zapcore.Level {
	switch strings.ToLower(s) {
	case "error":
		return zap.ErrorLevel
	case "panic":
		return zap.PanicLevel
	default:
		return zap.FatalLevel
	}
}

// WithHTTPRequest adds HTTP request context to the logger
func (l *ZapLogger) WithHTTPRequest(r *http.Request) *ZapLogger {
	fields := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("remote_addr", r.RemoteAddr),
		zap.String("user_agent", r.UserAgent()),
	}
	if r.URL.RawQuery != "" {
		fields = append(fields, zap.String("query", r.URL.RawQuery))
	}
	return wrapZap(l.With(fields...))
}

// WithDuration adds a duration field to the logger
func (l *ZapLogger) WithDuration(d time.Duration) *ZapLogger {
	return wrapZap(l.With(
		zap.Duration("duration", d),
		zap.Float64("duration_ms", float64(d.Nanoseconds())/1e6),
	))
}

// WithFields adds multiple fields to the logger context
func (l *ZapLogger) WithFields(fields map[string]interface{}) *Logger {
	zapFields := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		if err, ok := v.(error); ok {
			zapFields = append(zapFields, zap.NamedError(k, err))
			continue
		}
		zapFields = append(zapFields, zap.Any(k, v))
	}
	return &Logger{zap: wrapZap(l.With(zapFields...))}
}

func (l *ZapLogger) Debug(msg string) { l.Logger.Debug(msg) }
func (l *ZapLogger) Info(msg string)  { l.Logger.Info(msg) }
func (l *ZapLogger) Warn(msg string)  { l.Logger.Warn(msg) }
func (l *ZapLogger) Error(msg string) { l.Logger.Error(msg) }

// Sync flushes any buffered log entries
func (l *ZapLogger) Sync() error {
	return l.Logger.Sync()
}
