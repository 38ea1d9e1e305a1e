package notify

import (
	"context"
	"errors"

	"github.com/mcdev12/countdown/go/internal/events"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Multi fans an event out to every publisher and joins their errors.
type Multi []events.Publisher

func (m Multi) Publish(ctx context.Context, event events.Event) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LogPublisher writes every event to the structured log. Poll syncs arrive
// every tick and are logged at debug.
type LogPublisher struct{}

func (LogPublisher) Publish(ctx context.Context, event events.Event) error {
	log.WithLevel(logLevelFor(event.Type)).
		Str("event_type", string(event.Type)).
		Str("timer_id", event.TimerID).
		Uint64("sequence", event.Sequence).
		RawJSON("data", event.Data).
		Msg("countdown event")
	return nil
}

func logLevelFor(eventType events.EventType) zerolog.Level {
	if eventType == events.EventTypeTimerSynced {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}

// NoOpPublisher drops events.
type NoOpPublisher struct{}

func (NoOpPublisher) Publish(ctx context.Context, event events.Event) error { return nil }
