package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventType represents the type of countdown event
type EventType string

const (
	EventTypeTimerStarted    EventType = "TimerStarted"
	EventTypeTimerPaused     EventType = "TimerPaused"
	EventTypeTimerResumed    EventType = "TimerResumed"
	EventTypeTimerStopped    EventType = "TimerStopped"
	EventTypeTimerFinished   EventType = "TimerFinished"
	EventTypeTimerReset      EventType = "TimerReset"
	EventTypeTimerSynced     EventType = "TimerSynced"
	EventTypeDurationChanged EventType = "DurationChanged"
)

// StatePayload is the controller view carried by every event
type StatePayload struct {
	TimerID      string    `json:"timer_id,omitempty"`
	Status       string    `json:"status"`
	Running      bool      `json:"running"`
	RemainingSec int       `json:"remaining_sec"`
	RequestedSec int       `json:"requested_sec"`
	Display      string    `json:"display"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Event is the envelope published to websocket clients and the message bus.
// Sequence increases with every transition of one controller; zero marks a
// snapshot that is not part of the stream, such as a connection greeting.
type Event struct {
	ID        string          `json:"id"`
	Type      EventType       `json:"type"`
	TimerID   string          `json:"timer_id,omitempty"`
	Sequence  uint64          `json:"sequence,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// NewEvent wraps a state payload into an envelope with a fresh id
func NewEvent(eventType EventType, state StatePayload, at time.Time) (Event, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return Event{}, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	return Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		TimerID:   state.TimerID,
		Timestamp: at.UTC(),
		Data:      data,
	}, nil
}

// State decodes the event payload
func (e Event) State() (StatePayload, error) {
	var payload StatePayload
	if err := json.Unmarshal(e.Data, &payload); err != nil {
		return StatePayload{}, fmt.Errorf("unmarshal %s payload: %w", e.Type, err)
	}
	return payload, nil
}
