package countdown

import "errors"

var (
	// ErrCommandFailed is returned when the timer service rejected or never
	// answered a command. Local state is left untouched.
	ErrCommandFailed = errors.New("timer command failed")

	// ErrStaleResponse is returned when a response arrived for an identity or
	// transition that is no longer current. The response is dropped.
	ErrStaleResponse = errors.New("stale timer response")

	// ErrNoActiveTimer is returned by commands that need a timer identity while idle
	ErrNoActiveTimer = errors.New("no active timer")

	// ErrTimerTerminal is returned when the active timer is finished or stopped
	ErrTimerTerminal = errors.New("timer already finished or stopped")

	// ErrTimerActive is returned when the duration policy forbids changes mid-run
	ErrTimerActive = errors.New("timer is active")

	ErrInvalidDuration = errors.New("invalid duration")
	ErrClosed          = errors.New("controller closed")
)
