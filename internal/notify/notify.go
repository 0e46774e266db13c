// Package notify defines the sink for transient user-visible status messages.
// Components that need to report outcomes receive a Sink instead of reaching
// for a shared global, so tests can capture messages with a fake.
package notify

import (
	"github.com/rs/zerolog/log"
)

// Sink receives one-line status messages meant for the operator. Messages are
// transient: they describe the outcome of the last action, never fatal state.
type Sink interface {
	Info(msg string)
	Success(msg string)
	Error(msg string)
}

// LogSink routes status messages through the global logger.
type LogSink struct{}

func (LogSink) Info(msg string) { log.Info().Msg(msg) }

func (LogSink) Success(msg string) { log.Info().Str("status", "success").Msg(msg) }

func (LogSink) Error(msg string) { log.Error().Msg(msg) }
