// Package logger internal/infrastructure/logger/logger.go
package logger

import (
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Level represents the severity level of a log message
type Level string

const (
	// DebugLevel is used for development messages
	DebugLevel Level = "DEBUG"
	// InfoLevel is used for general operational information
	InfoLevel Level = "INFO"
	// WarnLevel is used for warnings and potential issues
	WarnLevel Level = "WARN"
	// ErrorLevel is used for errors and unexpected events
	ErrorLevel Level = "ERROR"
	// FatalLevel is used for critical errors that require termination
	FatalLevel Level = "FATAL"
)

// ParseLevel converts a configuration string into a Level, defaulting to InfoLevel
func ParseLevel(s string) Level {
	switch Level(strings.ToUpper(strings.TrimSpace(s))) {
	case DebugLevel:
		return DebugLevel
	case WarnLevel, "WARNING":
		return WarnLevel
	case ErrorLevel:
		return ErrorLevel
	case FatalLevel:
		return FatalLevel
	default:
		return InfoLevel
	}
}

func (l Level) logrusLevel() logrus.Level {
	switch l {
	case DebugLevel:
		return logrus.DebugLevel
	case WarnLevel:
		return logrus.WarnLevel
	case ErrorLevel:
		return logrus.ErrorLevel
	case FatalLevel:
		return logrus.FatalLevel
	default:
		return logrus.InfoLevel
	}
}

// Logger defines the interface for the application logger
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	Fatal(msg string, fields map[string]interface{})
	WithField(key string, value interface{}) Logger
	WithFields(fields map[string]interface{}) Logger
}

// JSONLogger is a logger that outputs structured JSON logs through logrus
type JSONLogger struct {
	entry *logrus.Entry
}

// NewJSONLogger creates a new JSON logger
func NewJSONLogger(output io.Writer, level Level) *JSONLogger {
	if output == nil {
		output = os.Stdout
	}

	base := &logrus.Logger{
		Out: output,
		Formatter: &logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		},
		Hooks:    make(logrus.LevelHooks),
		Level:    level.logrusLevel(),
		ExitFunc: os.Exit,
	}

	return &JSONLogger{entry: logrus.NewEntry(base)}
}

// WithField returns a new logger with the field added to the log context
func (l *JSONLogger) WithField(key string, value interface{}) Logger {
	return &JSONLogger{entry: l.entry.WithField(key, value)}
}

// WithFields returns a new logger with the fields added to the log context
func (l *JSONLogger) WithFields(fields map[string]interface{}) Logger {
	if len(fields) == 0 {
		return l
	}

	return &JSONLogger{entry: l.entry.WithFields(logrus.Fields(fields))}
}

// Debug logs a message at debug level
func (l *JSONLogger) Debug(msg string, fields map[string]interface{}) {
	l.log(methodCallerSkip, logrus.DebugLevel, msg, fields)
}

// Info logs a message at info level
func (l *JSONLogger) Info(msg string, fields map[string]interface{}) {
	l.log(methodCallerSkip, logrus.InfoLevel, msg, fields)
}

// Warn logs a message at warn level
func (l *JSONLogger) Warn(msg string, fields map[string]interface{}) {
	l.log(methodCallerSkip, logrus.WarnLevel, msg, fields)
}

// Error logs a message at error level
func (l *JSONLogger) Error(msg string, fields map[string]interface{}) {
	l.log(methodCallerSkip, logrus.ErrorLevel, msg, fields)
}

// Fatal logs a message at fatal level and then terminates the program
func (l *JSONLogger) Fatal(msg string, fields map[string]interface{}) {
	l.log(methodCallerSkip, logrus.FatalLevel, msg, fields)
	l.entry.Logger.Exit(1)
}

// Stack frames between log and the code that logged: the JSONLogger method, or
// the package-level function plus the method it would otherwise call
const (
	methodCallerSkip = 2
	globalCallerSkip = 3
)

// log writes the entry with the caller's file and line attached
func (l *JSONLogger) log(skip int, level logrus.Level, msg string, fields map[string]interface{}) {
	if !l.entry.Logger.IsLevelEnabled(level) {
		return
	}

	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		file = "unknown"
		line = 0
	}

	entry := l.entry.WithFields(logrus.Fields{
		"file": file,
		"line": line,
	})
	if len(fields) > 0 {
		entry = entry.WithFields(logrus.Fields(fields))
	}

	// Log never exits, even at FatalLevel
	entry.Log(level, msg)
}

// Default logger instances
var (
	defaultLogger Logger = NewJSONLogger(os.Stdout, InfoLevel)
)

// GetDefaultLogger returns the default logger
func GetDefaultLogger() Logger {
	return defaultLogger
}

// SetDefaultLogger sets the default logger
func SetDefaultLogger(logger Logger) {
	if logger != nil {
		defaultLogger = logger
	}
}

// Debug Global logger functions
func Debug(msg string, fields map[string]interface{}) {
	logDefault(logrus.DebugLevel, msg, fields)
}

func Info(msg string, fields map[string]interface{}) {
	logDefault(logrus.InfoLevel, msg, fields)
}

func Warn(msg string, fields map[string]interface{}) {
	logDefault(logrus.WarnLevel, msg, fields)
}

func Error(msg string, fields map[string]interface{}) {
	logDefault(logrus.ErrorLevel, msg, fields)
}

func Fatal(msg string, fields map[string]interface{}) {
	logDefault(logrus.FatalLevel, msg, fields)
	if l, ok := defaultLogger.(*JSONLogger); ok {
		l.entry.Logger.Exit(1)
	}
}

// logDefault keeps the caller of the package-level function as the reported call site
func logDefault(level logrus.Level, msg string, fields map[string]interface{}) {
	if l, ok := defaultLogger.(*JSONLogger); ok {
		l.log(globalCallerSkip, level, msg, fields)
		return
	}

	switch level {
	case logrus.DebugLevel:
		defaultLogger.Debug(msg, fields)
	case logrus.InfoLevel:
		defaultLogger.Info(msg, fields)
	case logrus.WarnLevel:
		defaultLogger.Warn(msg, fields)
	case logrus.ErrorLevel:
		defaultLogger.Error(msg, fields)
	default:
		defaultLogger.Fatal(msg, fields)
	}
}
