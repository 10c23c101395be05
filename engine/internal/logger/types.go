package logger

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

//
// LOGGER
//

// LogLevel represents the severity of a log entry
type LogLevel string

// LogEntry represents a single log entry
type LogEntry struct {
	Timestamp time.Time
	Level     LogLevel
	Message   string
}

// Logger handles all logging throughout the application. Entries are kept in
// a capped ring buffer for the UI log view and mirrored to a zap logger for
// structured output.
type Logger struct {
	mu       sync.RWMutex
	entries  []LogEntry
	maxSize  int
	minLevel LogLevel
	zl       *zap.Logger
}
