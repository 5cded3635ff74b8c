package logging

import (
	"log/slog"
)

const (
	// ServiceKey is the attribute key used to tag child loggers with a component name.
	ServiceKey = "service"
	// ErrorKey is the attribute key used for error values.
	ErrorKey = "error"
)

// Child returns a new logger with the given service name added to the logger attrs.
func Child(logger *slog.Logger, serviceName string) *slog.Logger {
	return DefaultIfNil(logger).With(
		slog.String(ServiceKey, serviceName),
	)
}

// Error returns a slog attribute carrying the error message.
func Error(err error) slog.Attr {
	return slog.String(ErrorKey, err.Error())
}

// DefaultIfNil returns the default logger if the given logger is nil.
func DefaultIfNil(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// DiscardIfNil returns a logger that drops everything if the given logger is nil.
func DiscardIfNil(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return logger
}
