package logger

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	LevelInfo  LogLevel = "INFO"
	LevelWarn  LogLevel = "WARN"
	LevelError LogLevel = "ERROR"
	LevelDebug LogLevel = "DEBUG"
)

var levelPriority = map[LogLevel]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

// NewLogger creates a new logger with the specified maximum ring size
func NewLogger(maxSize int, minLevel LogLevel) *Logger {
	return &Logger{
		entries:  make([]LogEntry, 0),
		maxSize:  maxSize,
		minLevel: minLevel,
		zl:       zap.NewNop(),
	}
}

// NewStructuredLogger creates a logger that also emits JSON lines to the given
// file path ("" disables the sink). The ring buffer behaves identically.
func NewStructuredLogger(maxSize int, minLevel LogLevel, sinkPath string) (*Logger, error) {
	l := NewLogger(maxSize, minLevel)

	if sinkPath == "" {
		return l, nil
	}

	f, err := os.OpenFile(sinkPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log sink %s: %w", sinkPath, err)
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		MessageKey:     "msg",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
	}
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(f),
		zapLevel(minLevel),
	)
	l.zl = zap.New(core)
	return l, nil
}

// ParseLevel maps a config string to a LogLevel, defaulting to INFO
func ParseLevel(s string) LogLevel {
	switch s {
	case "debug":
		return LevelDebug
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func zapLevel(level LogLevel) zapcore.Level {
	switch level {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// log is the internal logging method
func (l *Logger) log(level LogLevel, format string, args ...interface{}) {
	if levelPriority[level] < levelPriority[l.minLevel] {
		return
	}
	l.mu.Lock()

	message := fmt.Sprintf(format, args...)
	entry := LogEntry{
		Timestamp: time.Now(),
		Level:     level,
		Message:   message,
	}

	l.entries = append(l.entries, entry)

	// Keep only the last maxSize entries
	if len(l.entries) > l.maxSize {
		l.entries = l.entries[len(l.entries)-l.maxSize:]
	}
	zl := l.zl
	l.mu.Unlock()

	switch level {
	case LevelDebug:
		zl.Debug(message)
	case LevelWarn:
		zl.Warn(message)
	case LevelError:
		zl.Error(message)
	default:
		zl.Info(message)
	}
}

// Info logs an informational message
func (l *Logger) Info(args ...interface{}) {
	l.log(LevelInfo, fmt.Sprint(args...))
}

// Infof logs an informational message with formatting
func (l *Logger) Infof(format string, args ...interface{}) {
	l.log(LevelInfo, format, args...)
}

// Error logs an error message
func (l *Logger) Error(args ...interface{}) {
	l.log(LevelError, fmt.Sprint(args...))
}

// Errorf logs an error message with formatting
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.log(LevelError, format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(args ...interface{}) {
	l.log(LevelWarn, fmt.Sprint(args...))
}

// Warnf logs a warning message with formatting
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.log(LevelWarn, format, args...)
}

// Debug logs a debug message
func (l *Logger) Debug(args ...interface{}) {
	l.log(LevelDebug, fmt.Sprint(args...))
}

// Debugf logs a debug message with formatting
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.log(LevelDebug, format, args...)
}

func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.minLevel = level
}

// GetEntries returns a copy of all log entries
func (l *Logger) GetEntries() []LogEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	// Return a copy
	entries := make([]LogEntry, len(l.entries))
	copy(entries, l.entries)
	return entries
}

// Clear removes all log entries
func (l *Logger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = make([]LogEntry, 0)
}

// Count returns the number of log entries
func (l *Logger) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// ExportToString returns all logs as a formatted string
func (l *Logger) ExportToString() string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var result string
	for _, entry := range l.entries {
		result += fmt.Sprintf("[%s] %-5s %s\n",
			entry.Timestamp.Format("2006-01-02 15:04:05"),
			entry.Level,
			entry.Message)
	}
	return result
}

// Sync flushes the structured sink, if any
func (l *Logger) Sync() {
	l.mu.RLock()
	zl := l.zl
	l.mu.RUnlock()
	_ = zl.Sync()
}
