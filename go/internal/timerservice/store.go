package timerservice

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/countdown/go/internal/models"
)

var (
	// ErrTimerNotFound is returned for an unknown timer id
	ErrTimerNotFound = errors.New("timer not found")
	// ErrInvalidDuration is returned when a start asks for less than one minute
	ErrInvalidDuration = errors.New("duration must be at least one minute")
	// ErrInvalidTransition is returned when the timer's status forbids the command
	ErrInvalidTransition = errors.New("invalid timer transition")
)

// Store keeps timers in memory and owns the authoritative clock.
type Store struct {
	clock  clockwork.Clock
	timers map[string]models.Timer
	mu     sync.Mutex
}

func NewStore(clock clockwork.Clock) *Store {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Store{
		clock:  clock,
		timers: make(map[string]models.Timer),
	}
}

// Start creates a running timer stamped with the current instant.
func (s *Store) Start(durationMinutes int) (models.Timer, error) {
	if durationMinutes < 1 {
		return models.Timer{}, fmt.Errorf("%w: got %d", ErrInvalidDuration, durationMinutes)
	}

	t := models.Timer{
		ID:        uuid.New().String(),
		Duration:  durationMinutes,
		Status:    models.TimerStatusRunning,
		StartedAt: s.clock.Now().UTC(),
	}

	s.mu.Lock()
	s.timers[t.ID] = t
	s.mu.Unlock()
	return t, nil
}

// Pause stamps pausedAt on a running timer.
func (s *Store) Pause(id string) (models.Timer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.current(id)
	if err != nil {
		return models.Timer{}, err
	}
	if t.Status != models.TimerStatusRunning {
		return models.Timer{}, fmt.Errorf("%w: cannot pause %s timer", ErrInvalidTransition, t.Status)
	}

	now := s.clock.Now().UTC()
	t.Status = models.TimerStatusPaused
	t.PausedAt = &now
	s.timers[id] = t
	return t, nil
}

// Resume shifts startedAt forward by the paused span so elapsed time excludes
// the pause, then clears pausedAt.
func (s *Store) Resume(id string) (models.Timer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.current(id)
	if err != nil {
		return models.Timer{}, err
	}
	if t.Status != models.TimerStatusPaused || t.PausedAt == nil {
		return models.Timer{}, fmt.Errorf("%w: cannot resume %s timer", ErrInvalidTransition, t.Status)
	}

	pausedFor := s.clock.Since(*t.PausedAt)
	t.StartedAt = t.StartedAt.Add(pausedFor)
	t.PausedAt = nil
	t.Status = models.TimerStatusRunning
	s.timers[id] = t
	return t, nil
}

// Stop ends a timer for good. Stopping a finished or stopped timer is a no-op.
func (s *Store) Stop(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.current(id)
	if err != nil {
		return err
	}
	if t.Status.Terminal() {
		return nil
	}
	t.Status = models.TimerStatusStopped
	t.PausedAt = nil
	s.timers[id] = t
	return nil
}

func (s *Store) Get(id string) (models.Timer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current(id)
}

// current returns the timer, marking it finished once its running time is
// used up. Caller holds mu.
func (s *Store) current(id string) (models.Timer, error) {
	t, ok := s.timers[id]
	if !ok {
		return models.Timer{}, fmt.Errorf("%w: %s", ErrTimerNotFound, id)
	}
	if t.Status == models.TimerStatusRunning && s.clock.Since(t.StartedAt) >= timeLimit(t) {
		t.Status = models.TimerStatusFinished
		s.timers[id] = t
	}
	return t, nil
}

func timeLimit(t models.Timer) time.Duration {
	return time.Duration(t.Duration) * time.Minute
}
