package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// Level is the logging level.
type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

var levelNames = map[Level]string{
	Debug: "DEBUG",
	Info:  "INFO",
	Warn:  "WARN",
	Error: "ERROR",
}

// Logger writes leveled diagnostics to a single writer.
type Logger struct {
	level  Level
	logger *log.Logger
}

var globalLogger = &Logger{level: Warn, logger: log.New(os.Stderr, "", 0)}

// Init replaces the global logger. Diagnostics go to w, normally stderr.
func Init(levelStr string, w io.Writer) error {
	level, err := ParseLevel(levelStr)
	if err != nil {
		return err
	}
	globalLogger = &Logger{
		level:  level,
		logger: log.New(w, "", 0),
	}
	return nil
}

// ParseLevel maps a level name to a Level. An empty name means warn.
func ParseLevel(levelStr string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return Debug, nil
	case "info":
		return Info, nil
	case "", "warn", "warning":
		return Warn, nil
	case "error":
		return Error, nil
	default:
		return Warn, fmt.Errorf("unknown log level %q", levelStr)
	}
}

func (l *Logger) logf(level Level, format string, args ...interface{}) {
	if l == nil || l.level > level {
		return
	}
	l.logger.Printf("[%s] %s", levelNames[level], fmt.Sprintf(format, args...))
}

// Debugf logs a debug message.
func Debugf(format string, args ...interface{}) {
	globalLogger.logf(Debug, format, args...)
}

// Infof logs an info message.
func Infof(format string, args ...interface{}) {
	globalLogger.logf(Info, format, args...)
}

// Warnf logs a warning.
func Warnf(format string, args ...interface{}) {
	globalLogger.logf(Warn, format, args...)
}

// Errorf logs an error message.
func Errorf(format string, args ...interface{}) {
	globalLogger.logf(Error, format, args...)
}
