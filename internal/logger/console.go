// Package logger provides the leveled console logger used across prompt.
//
// Discovery and file reading only ever log diagnostics (malformed ignore
// files, unreadable directories probed for override files), so the logger
// writes to stderr and defaults to the warn level to keep normal runs quiet.
// Implementations are thread-safe.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Log level constants for filtering
const (
	levelDebug int = 0
	levelInfo  int = 1
	levelWarn  int = 2
	levelError int = 3
)

// Console logs messages to a writer with timestamps and thread safety.
// All output is prefixed with [HH:MM:SS] timestamps. It supports log level
// filtering to control verbosity, and colorizes the level tag when writing
// to a TTY.
type Console struct {
	writer      io.Writer
	level       string
	mutex       sync.Mutex
	colorOutput bool
}

// NewConsole creates a Console that writes to the provided io.Writer.
// If writer is nil, messages are silently discarded.
// level determines the minimum level for messages to be output; valid levels
// are debug, info, warn and error (case-insensitive). Empty or invalid levels
// default to "warn". Color output is enabled only when writing to os.Stdout
// or os.Stderr with TTY support.
func NewConsole(writer io.Writer, level string) *Console {
	return &Console{
		writer:      writer,
		level:       normalizeLevel(level),
		colorOutput: isTerminal(writer),
	}
}

// isTerminal checks if the writer is a terminal that supports colors.
func isTerminal(w io.Writer) bool {
	if w == nil {
		return false
	}
	if w == os.Stdout || w == os.Stderr {
		// fatih/color's detection also honors NO_COLOR
		return !color.NoColor
	}
	return false
}

// normalizeLevel lowercases and validates a level string, defaulting to
// "warn" for empty or unknown levels.
func normalizeLevel(level string) string {
	normalized := strings.ToLower(strings.TrimSpace(level))
	switch normalized {
	case "debug", "info", "warn", "error":
		return normalized
	}
	return "warn"
}

func levelToInt(level string) int {
	switch level {
	case "debug":
		return levelDebug
	case "info":
		return levelInfo
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelWarn
	}
}

// shouldLog reports whether a message at messageLevel passes the filter.
func (c *Console) shouldLog(messageLevel string) bool {
	return levelToInt(messageLevel) >= levelToInt(c.level)
}

// Debugf logs a formatted debug-level message.
// Format: "[HH:MM:SS] [DEBUG] <message>"
func (c *Console) Debugf(format string, args ...any) {
	c.logf("DEBUG", format, args...)
}

// Infof logs a formatted info-level message.
// Format: "[HH:MM:SS] [INFO] <message>"
func (c *Console) Infof(format string, args ...any) {
	c.logf("INFO", format, args...)
}

// Warnf logs a formatted warning-level message.
// Format: "[HH:MM:SS] [WARN] <message>"
func (c *Console) Warnf(format string, args ...any) {
	c.logf("WARN", format, args...)
}

// Errorf logs a formatted error-level message.
// Format: "[HH:MM:SS] [ERROR] <message>"
func (c *Console) Errorf(format string, args ...any) {
	c.logf("ERROR", format, args...)
}

func (c *Console) logf(level, format string, args ...any) {
	if c == nil || c.writer == nil {
		return
	}
	if !c.shouldLog(strings.ToLower(level)) {
		return
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	ts := time.Now().Format("15:04:05")
	tag := level
	if c.colorOutput {
		tag = colorizeLevel(level)
	}
	fmt.Fprintf(c.writer, "[%s] [%s] %s\n", ts, tag, fmt.Sprintf(format, args...))
}

// colorizeLevel wraps a level tag in its ANSI color.
func colorizeLevel(level string) string {
	switch level {
	case "DEBUG":
		return color.New(color.FgCyan).Sprint(level)
	case "INFO":
		return color.New(color.FgBlue).Sprint(level)
	case "WARN":
		return color.New(color.FgYellow).Sprint(level)
	case "ERROR":
		return color.New(color.FgRed).Sprint(level)
	default:
		return level
	}
}
