package countdown

import (
	"fmt"
	"time"

	"github.com/mcdev12/countdown/go/internal/models"
)

const (
	maxDialHours   = 12
	maxDialMinutes = 59
)

// Remaining returns the whole seconds left on timer at now. A paused timer is
// frozen at its pause instant. The result is never negative and never exceeds
// the timer's length, even if now is before startedAt.
func Remaining(timer models.Timer, now time.Time) int {
	reference := now
	if timer.Status == models.TimerStatusPaused && timer.PausedAt != nil {
		reference = *timer.PausedAt
	}

	elapsed := reference.Sub(timer.StartedAt)
	if elapsed < 0 {
		elapsed = 0
	}

	remaining := timer.DurationSeconds() - int(elapsed/time.Second)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// MinutesFor converts a requested length to whole minutes, rounding up. The
// service only deals in minutes, so anything under a minute reserves one.
func MinutesFor(seconds int) int {
	if seconds <= 0 {
		return 1
	}
	return (seconds + 59) / 60
}

// DurationFromDial converts the hours/minutes dials into seconds.
func DurationFromDial(hours, minutes int) (int, error) {
	if hours < 0 || hours > maxDialHours {
		return 0, fmt.Errorf("%w: hours %d outside 0..%d", ErrInvalidDuration, hours, maxDialHours)
	}
	if minutes < 0 || minutes > maxDialMinutes {
		return 0, fmt.Errorf("%w: minutes %d outside 0..%d", ErrInvalidDuration, minutes, maxDialMinutes)
	}
	return hours*3600 + minutes*60, nil
}

// FormatClock renders seconds as HH:MM:SS.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}
