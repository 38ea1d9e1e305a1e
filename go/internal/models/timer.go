package models

import (
	"errors"
	"fmt"
	"time"
)

// TimerStatus defines the status of a countdown timer.
type TimerStatus string

const (
	// TimerStatusIdle is local-only; the timer service never returns it.
	TimerStatusIdle     TimerStatus = "idle"
	TimerStatusRunning  TimerStatus = "running"
	TimerStatusPaused   TimerStatus = "paused"
	TimerStatusStopped  TimerStatus = "stopped"
	TimerStatusFinished TimerStatus = "finished"
)

// Terminal reports whether no further transition is possible for the identity.
func (s TimerStatus) Terminal() bool {
	return s == TimerStatusStopped || s == TimerStatusFinished
}

// Valid reports whether s is one of the known statuses.
func (s TimerStatus) Valid() bool {
	switch s {
	case TimerStatusIdle, TimerStatusRunning, TimerStatusPaused, TimerStatusStopped, TimerStatusFinished:
		return true
	}
	return false
}

// ErrInvalidTimer is returned when a snapshot is internally inconsistent.
var ErrInvalidTimer = errors.New("invalid timer snapshot")

// Timer is the server-owned countdown, mirrored locally.
type Timer struct {
	ID        string      `json:"id"`
	Duration  int         `json:"duration"` // whole minutes
	Status    TimerStatus `json:"status"`
	StartedAt time.Time   `json:"startedAt"`
	PausedAt  *time.Time  `json:"pausedAt,omitempty"`
}

// DurationSeconds returns the full length of the timer in seconds.
func (t Timer) DurationSeconds() int {
	return t.Duration * 60
}

// Normalize drops a zero pausedAt. The timer service encodes an unset pause
// instant as the zero time instead of omitting it.
func (t Timer) Normalize() Timer {
	if t.PausedAt != nil && t.PausedAt.IsZero() {
		t.PausedAt = nil
	}
	return t
}

// Validate checks a normalized snapshot for internal consistency.
func (t Timer) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidTimer)
	}
	if t.Duration <= 0 {
		return fmt.Errorf("%w: duration %d must be positive", ErrInvalidTimer, t.Duration)
	}
	if !t.Status.Valid() || t.Status == TimerStatusIdle {
		return fmt.Errorf("%w: unexpected status %q", ErrInvalidTimer, t.Status)
	}
	if (t.Status == TimerStatusPaused) != (t.PausedAt != nil) {
		return fmt.Errorf("%w: pausedAt must be set only while paused (status %q)", ErrInvalidTimer, t.Status)
	}
	if t.PausedAt != nil && t.PausedAt.Before(t.StartedAt) {
		return fmt.Errorf("%w: pausedAt %s before startedAt %s", ErrInvalidTimer,
			t.PausedAt.Format(time.RFC3339), t.StartedAt.Format(time.RFC3339))
	}
	return nil
}
