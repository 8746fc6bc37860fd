// Package logger implements a logging adapter using log/slog.
package logger

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/core/ports"
)

// LevelCritical is the slog level for failures a run cannot recover from.
// It sits one step above slog.LevelError, matching the spacing of the
// standard levels.
const LevelCritical = slog.Level(12)

// messager describes an error that can report its own message without the chain.
// This matches the Message() method provided by zerr.Error (go.trai.ch/zerr v0.3.0+).
// If zerr's API changes, errors will gracefully fall back to standard error handling.
type messager interface {
	Message() string
}

// Logger implements ports.Logger using log/slog.
type Logger struct {
	logger   *slog.Logger
	mu       sync.RWMutex
	level    *slog.LevelVar
	jsonMode bool
	output   io.Writer
}

// New creates a new Logger writing to stderr at info level.
func New() ports.Logger {
	level := &slog.LevelVar{}
	return &Logger{
		logger: slog.New(NewPrettyHandler(os.Stderr, &slog.HandlerOptions{Level: level})),
		level:  level,
		output: os.Stderr,
	}
}

// rebuild swaps the underlying handler after a mode or output change.
// Callers must hold the write lock.
func (l *Logger) rebuild() {
	w := l.output
	if w == nil {
		w = os.Stderr
	}
	if l.jsonMode {
		l.logger = slog.New(newJSONHandler(w, l.level))
		return
	}
	l.logger = slog.New(NewPrettyHandler(w, &slog.HandlerOptions{Level: l.level}))
}

// SetOutput updates the logger's output destination.
// It preserves the current JSON mode and level settings.
// If w is nil, os.Stderr is used as the default.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if w == nil {
		w = os.Stderr
	}
	l.output = w
	l.rebuild()
}

// SetJSON switches between JSON and pretty logging.
// The output destination and level are preserved.
func (l *Logger) SetJSON(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.jsonMode = enabled
	l.rebuild()
}

// SetLevel drops messages below the given severity. The domain levels share
// their numeric values with slog, so the conversion is direct.
func (l *Logger) SetLevel(level domain.LogLevel) {
	l.level.Set(slog.Level(level))
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Debug(msg)
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Info(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Warn(msg)
}

// Error logs an error together with its cause chain.
func (l *Logger) Error(err error) {
	l.log(slog.LevelError, err)
}

// Critical logs an error the run cannot recover from.
func (l *Logger) Critical(err error) {
	l.log(LevelCritical, err)
}

func (l *Logger) log(level slog.Level, err error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if err == nil {
		return
	}

	if l.jsonMode {
		l.logger.Log(context.Background(), level, "operation failed", "error", err)
		return
	}

	l.logger.Log(context.Background(), level, formatErrorEntries(collectErrorEntries(err)))
}

// collectErrorEntries walks the error chain and returns one message per
// cause. zerr errors contribute their raw message without the chain; the
// first standard error ends the walk with its full text.
func collectErrorEntries(err error) []string {
	var entries []string
	current := err
	for current != nil {
		if m, ok := current.(messager); ok {
			entries = append(entries, m.Message())
			current = errors.Unwrap(current)
		} else {
			entries = append(entries, current.Error())
			break
		}
	}
	return entries
}

// formatErrorEntries renders the collected messages hierarchically: the main
// error first, its causes indented below.
func formatErrorEntries(entries []string) string {
	var lines []string

	for i, entry := range entries {
		parts := strings.Split(entry, "\n")

		if i == 0 {
			lines = append(lines, "Error: "+parts[0])
			// Indent continuation lines to align with "Error: "
			for _, part := range parts[1:] {
				lines = append(lines, "       "+part)
			}
			continue
		}

		if i == 1 {
			lines = append(lines, "", "  Caused by:")
		}
		lines = append(lines, "    → "+parts[0])
		// Indent continuation lines to align with the arrow
		for _, part := range parts[1:] {
			lines = append(lines, "      "+part)
		}
	}

	return strings.Join(lines, "\n")
}
