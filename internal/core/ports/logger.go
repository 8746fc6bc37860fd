package ports

import (
	"io"

	"go.trai.ch/memo/internal/core/domain"
)

// Logger defines the interface for logging. Commands receive it explicitly
// through their invocation rather than through a global.
//
//go:generate mockgen -source=logger.go -destination=mocks/mock_logger.go -package=mocks
type Logger interface {
	Debug(msg string)
	Info(msg string)
	Warn(msg string)
	Error(err error)
	Critical(err error)

	// SetLevel drops messages below the given severity.
	SetLevel(level domain.LogLevel)
	// SetJSON switches between the human-readable and the JSON handler.
	SetJSON(enabled bool)
	// SetOutput redirects log output, mainly for tests.
	SetOutput(w io.Writer)
}
