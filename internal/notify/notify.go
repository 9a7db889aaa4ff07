// Package notify is the sink for user-facing messages produced by the
// checkout engine. The engine fires messages and never consumes a
// return value; how they reach the operator is the caller's concern.
package notify

import "log/slog"

// Severity classifies a message for presentation.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Sink accepts user-facing messages. Implementations must be safe to
// call from the engine at any point; failures to present a message are
// swallowed, never propagated.
type Sink interface {
	Notify(message string, severity Severity)
}

// SlogSink forwards notifications to a structured logger.
type SlogSink struct {
	log *slog.Logger
}

// NewSlogSink creates a sink backed by the given logger.
func NewSlogSink(log *slog.Logger) *SlogSink {
	return &SlogSink{log: log}
}

func (s *SlogSink) Notify(message string, severity Severity) {
	switch severity {
	case SeverityError:
		s.log.Error("notification", "message", message, "severity", severity)
	case SeverityWarning:
		s.log.Warn("notification", "message", message, "severity", severity)
	default:
		s.log.Info("notification", "message", message, "severity", severity)
	}
}

// Discard is a Sink that drops every message.
type Discard struct{}

func (Discard) Notify(string, Severity) {}
