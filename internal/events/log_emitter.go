package events

import (
	"airdrop-tracker/internal/logger"
)

// LogEmitter writes events to the structured log. It is the default
// emitter when no broker is configured.
type LogEmitter struct{}

func NewLogEmitter() *LogEmitter {
	return &LogEmitter{}
}

func (l *LogEmitter) Emit(event Event) error {
	logger.GetLogger().Info().
		Str("type", string(event.Type)).
		Str("recordId", event.RecordID).
		Int64("timestamp", event.Timestamp).
		Msg("Event emitted")
	return nil
}

func (l *LogEmitter) Close() error { return nil }

var _ Emitter = (*LogEmitter)(nil)
