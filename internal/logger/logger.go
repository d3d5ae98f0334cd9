// Package logger provides structured logging for courier. A zap backend is
// used whenever it can be built; the plain writer backend exists for tests
// and for environments where zap fails to initialise.
package logger

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Level represents the logging level
type Level int

const (
	// DebugLevel logs everything
	DebugLevel Level = iota
	// InfoLevel logs info, warnings, and errors
	InfoLevel
	// ErrorLevel logs only errors
	ErrorLevel
)

// Logger provides structured logging with timestamps
type Logger struct {
	level  Level
	output io.Writer
	fields map[string]interface{}
	mu     sync.Mutex
	zap    *ZapLogger
}

var (
	globalLogger *Logger
	globalMu     sync.Mutex
)

func init() {
	if zapLogger, err := NewZapLoggerFromEnv(); err == nil {
		globalLogger = &Logger{zap: zapLogger}
	} else {
		globalLogger = New(InfoLevel)
	}
}

// New creates a new plain logger with the specified level writing to stderr
func New(level Level) *Logger {
	return &Logger{
		level:  level,
		output: os.Stderr,
		fields: make(map[string]interface{}),
	}
}

// SetOutput sets the output writer for the logger
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.output = w
}

// WithField adds a single field to the logger context
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return l.WithFields(map[string]interface{}{key: value})
}

// WithFields adds multiple fields to the logger context
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	if l.zap != nil {
		return l.zap.WithFields(fields)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	child := &Logger{
		level:  l.level,
		output: l.output,
		fields: make(map[string]interface{}, len(l.fields)+len(fields)),
	}
	for k, v := range l.fields {
		child.fields[k] = v
	}
	for k, v := range fields {
		child.fields[k] = v
	}
	return child
}

// WithRun scopes the logger to a workflow run
func (l *Logger) WithRun(runID string) *Logger {
	return l.WithField("run_id", runID)
}

// WithError attaches err to the logger context. A nil error is a no-op.
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l
	}
	return l.WithField("error", err.Error())
}

type severity int

const (
	sevDebug severity = iota
	sevInfo
	sevWarn
	sevError
)

// Warnings are written at InfoLevel by the plain backend
var severities = [...]struct {
	level Level
	tag   string
}{
	sevDebug: {DebugLevel, "[DEBUG]"},
	sevInfo:  {InfoLevel, "[INFO]"},
	sevWarn:  {InfoLevel, "[WARN]"},
	sevError: {ErrorLevel, "[ERROR]"},
}

func (l *Logger) emit(sev severity, msg string) {
	if l.zap != nil {
		switch sev {
		case sevDebug:
			l.zap.Debug(msg)
		case sevInfo:
			l.zap.Info(msg)
		case sevWarn:
			l.zap.Warn(msg)
		default:
			l.zap.Error(msg)
		}
		return
	}

	s := severities[sev]
	if s.level < l.level {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	var b strings.Builder
	b.WriteString(time.Now().Format("2006-01-02 15:04:05.000"))
	b.WriteString(" " + s.tag + " " + msg)

	keys := make([]string, 0, len(l.fields))
	for k := range l.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, l.fields[k])
	}

	_, _ = fmt.Fprintln(l.output, b.String())
}

func (l *Logger) Debug(msg string) { l.emit(sevDebug, msg) }
func (l *Logger) Info(msg string)  { l.emit(sevInfo, msg) }
func (l *Logger) Warn(msg string)  { l.emit(sevWarn, msg) }
func (l *Logger) Error(msg string) { l.emit(sevError, msg) }

func (l *Logger) Debugf(format string, args ...interface{}) { l.emit(sevDebug, fmt.Sprintf(format, args...)) }
func (l *Logger) Infof(format string, args ...interface{})  { l.emit(sevInfo, fmt.Sprintf(format, args...)) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.emit(sevWarn, fmt.Sprintf(format, args...)) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.emit(sevError, fmt.Sprintf(format, args...)) }

// Sync flushes buffered entries of the zap backend
func (l *Logger) Sync() error {
	if l.zap != nil {
		return l.zap.Sync()
	}
	return nil
}

// GetLogger returns the global logger instance
func GetLogger() *Logger {
	globalMu.Lock()
	defer globalMu.Unlock()
	return globalLogger
}

// SetLogger sets the global logger instance
func SetLogger(logger *Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalLogger = logger
}

// LevelFromString converts a string to a log level
func LevelFromString(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return DebugLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// NewTestLogger creates a plain debug logger writing to w
func NewTestLogger(w io.Writer) *Logger {
	l := New(DebugLevel)
	l.output = w
	return l
}
