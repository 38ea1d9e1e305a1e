package countdown

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/countdown/go/internal/events"
	"github.com/mcdev12/countdown/go/internal/models"
	"github.com/rs/zerolog/log"
)

//go:generate mockgen -source=controller.go -destination=mock_timer_service_test.go -package=countdown

// TimerService is what the controller needs from the remote timer service.
type TimerService interface {
	StartTimer(ctx context.Context, durationMinutes int) (models.Timer, error)
	PauseTimer(ctx context.Context, id string) (models.Timer, error)
	ResumeTimer(ctx context.Context, id string) (models.Timer, error)
	StopTimer(ctx context.Context, id string) error
	GetTimer(ctx context.Context, id string) (models.Timer, error)
}

// DurationChangePolicy decides what a duration change does to an active timer.
type DurationChangePolicy int

const (
	// ResetOnDurationChange abandons any active timer and reinitializes the display.
	ResetOnDurationChange DurationChangePolicy = iota
	// RejectWhileActive refuses the change while a timer is running or paused.
	RejectWhileActive
)

// State is the locally displayed view of the countdown.
type State struct {
	TimerID          string             `json:"timer_id,omitempty"`
	Status           models.TimerStatus `json:"status"`
	Running          bool               `json:"running"`
	RemainingSeconds int                `json:"remaining_sec"`
	RequestedSeconds int                `json:"requested_sec"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

// Options configures a Controller. Zero values fall back to defaults.
type Options struct {
	Clock          clockwork.Clock
	PollInterval   time.Duration
	RequestTimeout time.Duration
	InitialSeconds int
	DurationPolicy DurationChangePolicy
	Publisher      events.Publisher
}

// Controller reconciles the local countdown with the remote timer service.
//
// Commands are serialized by cmdMu. State is guarded by mu, which is never
// held across a network call. Every local transition bumps generation; a
// command response is applied only if the generation and identity it was
// issued under are still current.
type Controller struct {
	service        TimerService
	clock          clockwork.Clock
	poller         *Poller
	publisher      events.Publisher
	policy         DurationChangePolicy
	requestTimeout time.Duration

	cmdMu sync.Mutex

	mu         sync.Mutex
	state      State
	confirmed  models.Timer
	generation uint64
	poll       *PollHandle
	closed     bool

	// outbox holds events in the order their transitions were applied.
	// drainEvents is the only goroutine that publishes them.
	outbox   []events.Event
	sequence uint64
	wake     chan struct{}
	quit     chan struct{}
}

func NewController(service TimerService, opts Options) *Controller {
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	initial := opts.InitialSeconds
	if initial < 0 {
		initial = 0
	}

	c := &Controller{
		service:        service,
		clock:          clock,
		poller:         NewPoller(clock, opts.PollInterval, opts.RequestTimeout),
		publisher:      opts.Publisher,
		policy:         opts.DurationPolicy,
		requestTimeout: opts.RequestTimeout,
		state: State{
			Status:           models.TimerStatusIdle,
			RemainingSeconds: initial,
			RequestedSeconds: initial,
			UpdatedAt:        clock.Now(),
		},
		wake: make(chan struct{}, 1),
		quit: make(chan struct{}),
	}
	if c.publisher != nil {
		go c.drainEvents()
	}
	return c
}

// State returns a copy of the current view.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Start asks the service for a new timer of requestedSeconds, rounded up to
// whole minutes. On success the new identity replaces any previous one.
func (c *Controller) Start(ctx context.Context, requestedSeconds int) error {
	c.cmdMu.Lock()
	defer c.cmdMu.Unlock()

	minutes := MinutesFor(requestedSeconds)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	gen := c.generation
	previous := c.state.TimerID
	c.disarmLocked()
	c.mu.Unlock()

	callCtx, cancel := c.commandContext(ctx)
	timer, err := c.service.StartTimer(callCtx, minutes)
	cancel()

	c.mu.Lock()
	if err != nil {
		c.armLocked()
		c.mu.Unlock()
		log.Warn().Err(err).Int("duration_min", minutes).Msg("start command failed")
		return fmt.Errorf("%w: start: %w", ErrCommandFailed, err)
	}
	if c.closed || c.generation != gen {
		c.mu.Unlock()
		log.Info().Str("timer_id", timer.ID).Msg("dropping stale start response")
		return fmt.Errorf("%w: start response for %s", ErrStaleResponse, timer.ID)
	}

	now := c.clock.Now()
	c.generation++
	c.confirmed = timer
	c.state = State{
		TimerID:          timer.ID,
		Status:           models.TimerStatusRunning,
		Running:          true,
		RemainingSeconds: timer.DurationSeconds(),
		RequestedSeconds: requestedSeconds,
		UpdatedAt:        now,
	}
	c.armLocked()
	c.enqueueLocked(events.EventTypeTimerStarted, c.state)
	c.mu.Unlock()

	log.Info().
		Str("timer_id", timer.ID).
		Str("previous_timer_id", previous).
		Int("duration_min", timer.Duration).
		Msg("timer started")
	return nil
}

// Pause freezes the active timer. Polling is cancelled before the command is sent.
func (c *Controller) Pause(ctx context.Context) error {
	return c.transition(ctx, "pause", c.service.PauseTimer)
}

// Resume restarts a paused timer and re-arms polling.
func (c *Controller) Resume(ctx context.Context) error {
	return c.transition(ctx, "resume", c.service.ResumeTimer)
}

// transition runs a pause or resume command and merges the returned snapshot.
func (c *Controller) transition(ctx context.Context, name string, call func(context.Context, string) (models.Timer, error)) error {
	c.cmdMu.Lock()
	defer c.cmdMu.Unlock()

	id, gen, err := c.beginCommand()
	if err != nil {
		return err
	}

	callCtx, cancel := c.commandContext(ctx)
	timer, err := call(callCtx, id)
	cancel()

	c.mu.Lock()
	if err != nil {
		c.armLocked()
		c.mu.Unlock()
		log.Warn().Err(err).Str("timer_id", id).Msgf("%s command failed", name)
		return fmt.Errorf("%w: %s: %w", ErrCommandFailed, name, err)
	}
	if c.staleLocked(gen, id) || timer.ID != id {
		c.mu.Unlock()
		log.Info().Str("timer_id", id).Msgf("dropping stale %s response", name)
		return fmt.Errorf("%w: %s response for %s", ErrStaleResponse, name, id)
	}

	prev := c.state
	c.generation++
	c.mergeLocked(timer, c.clock.Now())
	c.armLocked()
	st := c.state
	c.enqueueLocked(eventTypeFor(prev, st), st)
	c.mu.Unlock()

	log.Info().
		Str("timer_id", id).
		Str("status", string(st.Status)).
		Int("remaining_sec", st.RemainingSeconds).
		Msgf("%s applied", name)
	return nil
}

// Stop ends the active timer on the service. Stopped is terminal until Reset.
func (c *Controller) Stop(ctx context.Context) error {
	c.cmdMu.Lock()
	defer c.cmdMu.Unlock()

	id, gen, err := c.beginCommand()
	if err != nil {
		return err
	}

	callCtx, cancel := c.commandContext(ctx)
	err = c.service.StopTimer(callCtx, id)
	cancel()

	c.mu.Lock()
	if err != nil {
		c.armLocked()
		c.mu.Unlock()
		log.Warn().Err(err).Str("timer_id", id).Msg("stop command failed")
		return fmt.Errorf("%w: stop: %w", ErrCommandFailed, err)
	}
	if c.staleLocked(gen, id) {
		c.mu.Unlock()
		return fmt.Errorf("%w: stop response for %s", ErrStaleResponse, id)
	}

	c.generation++
	c.state.Status = models.TimerStatusStopped
	c.state.Running = false
	c.state.UpdatedAt = c.clock.Now()
	c.enqueueLocked(events.EventTypeTimerStopped, c.state)
	c.mu.Unlock()

	log.Info().Str("timer_id", id).Msg("timer stopped")
	return nil
}

// Reset discards the active identity without telling the service and shows
// seconds as the idle countdown. Calling it repeatedly has the same effect as
// calling it once, UpdatedAt included.
func (c *Controller) Reset(seconds int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.resetLocked(seconds) {
		c.enqueueLocked(events.EventTypeTimerReset, c.state)
	}
}

// ResetToLast resets to the most recently requested length.
func (c *Controller) ResetToLast() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.resetLocked(c.state.RequestedSeconds) {
		c.enqueueLocked(events.EventTypeTimerReset, c.state)
	}
}

// SetDuration is the configuration-changed transition. Under the default
// policy it abandons any in-progress timer, like Reset.
func (c *Controller) SetDuration(seconds int) error {
	if seconds < 0 {
		return fmt.Errorf("%w: %d seconds", ErrInvalidDuration, seconds)
	}

	c.mu.Lock()
	active := c.state.TimerID != "" && !c.state.Status.Terminal()
	if active && c.policy == RejectWhileActive {
		c.mu.Unlock()
		return ErrTimerActive
	}
	abandoned := c.state.TimerID
	if c.resetLocked(seconds) {
		c.enqueueLocked(events.EventTypeDurationChanged, c.state)
	}
	c.mu.Unlock()

	if active {
		log.Info().Str("timer_id", abandoned).Msg("duration changed, abandoning active timer")
	}
	return nil
}

// Close stops polling for good. Later commands return ErrClosed. Events
// already queued are still published.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.disarmLocked()
	close(c.quit)
}

// applySnapshot is the poll loop's ApplyFunc.
func (c *Controller) applySnapshot(h *PollHandle, snapshot models.Timer) bool {
	c.mu.Lock()
	if c.closed || c.poll != h || c.state.TimerID != h.TimerID() || snapshot.ID != h.TimerID() {
		c.poller.Disarm(h)
		c.mu.Unlock()
		log.Debug().Str("timer_id", h.TimerID()).Msg("dropping stale poll snapshot")
		return false
	}
	// The service only ever moves startedAt forward.
	if snapshot.StartedAt.Before(c.confirmed.StartedAt) {
		c.mu.Unlock()
		log.Debug().Str("timer_id", h.TimerID()).Msg("dropping out-of-date poll snapshot")
		return true
	}

	prev := c.state
	c.mergeLocked(snapshot, c.clock.Now())
	keep := c.state.Running
	if !keep {
		c.disarmLocked()
	}
	c.enqueueLocked(eventTypeFor(prev, c.state), c.state)
	c.mu.Unlock()
	return keep
}

// beginCommand validates that a command can be issued and cancels polling.
func (c *Controller) beginCommand() (string, uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return "", 0, ErrClosed
	}
	if c.state.TimerID == "" {
		return "", 0, ErrNoActiveTimer
	}
	if c.state.Status.Terminal() {
		return "", 0, fmt.Errorf("%w: %s", ErrTimerTerminal, c.state.Status)
	}
	c.disarmLocked()
	return c.state.TimerID, c.generation, nil
}

func (c *Controller) staleLocked(gen uint64, id string) bool {
	return c.closed || c.generation != gen || c.state.TimerID != id
}

// mergeLocked overwrites local state with an authoritative snapshot. A running
// timer with nothing left is finished.
func (c *Controller) mergeLocked(timer models.Timer, now time.Time) {
	remaining := Remaining(timer, now)
	status := timer.Status
	if status == models.TimerStatusRunning && remaining == 0 {
		status = models.TimerStatusFinished
	}
	c.confirmed = timer
	c.state.Status = status
	c.state.Running = status == models.TimerStatusRunning
	c.state.RemainingSeconds = remaining
	c.state.UpdatedAt = now
}

// resetLocked reports whether the visible state changed. The generation moves
// either way so in-flight responses are dropped.
func (c *Controller) resetLocked(seconds int) bool {
	if seconds < 0 {
		seconds = 0
	}
	c.disarmLocked()
	c.generation++
	c.confirmed = models.Timer{}

	if c.state.TimerID == "" && c.state.Status == models.TimerStatusIdle &&
		c.state.RemainingSeconds == seconds && c.state.RequestedSeconds == seconds {
		return false
	}
	c.state = State{
		Status:           models.TimerStatusIdle,
		RemainingSeconds: seconds,
		RequestedSeconds: seconds,
		UpdatedAt:        c.clock.Now(),
	}
	return true
}

// armLocked starts polling when running with an identity and no live loop.
func (c *Controller) armLocked() {
	if c.closed || !c.state.Running || c.state.TimerID == "" {
		return
	}
	if c.poll != nil && c.poll.live() && c.poll.TimerID() == c.state.TimerID {
		return
	}
	c.poll = c.poller.Arm(c.state.TimerID, c.service.GetTimer, c.applySnapshot)
}

func (c *Controller) disarmLocked() {
	if c.poll != nil {
		c.poller.Disarm(c.poll)
		c.poll = nil
	}
}

func (c *Controller) commandContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.requestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.requestTimeout)
}

// enqueueLocked queues the event for a transition. It is called in the same
// critical section that applied the transition, so queue order is state order.
func (c *Controller) enqueueLocked(eventType events.EventType, st State) {
	if c.publisher == nil || c.closed {
		return
	}
	event, err := events.NewEvent(eventType, PayloadFor(st), st.UpdatedAt)
	if err != nil {
		log.Error().Err(err).Msg("failed to build countdown event")
		return
	}
	c.sequence++
	event.Sequence = c.sequence
	c.outbox = append(c.outbox, event)

	select {
	case c.wake <- struct{}{}:
	default:
	}
}

func (c *Controller) drainEvents() {
	for {
		select {
		case <-c.wake:
			c.flushEvents()
		case <-c.quit:
			c.flushEvents()
			return
		}
	}
}

// flushEvents publishes queued events in order. mu is held only to take the
// batch, never while publishing.
func (c *Controller) flushEvents() {
	for {
		c.mu.Lock()
		batch := c.outbox
		c.outbox = nil
		c.mu.Unlock()

		if len(batch) == 0 {
			return
		}
		for _, event := range batch {
			if err := c.publisher.Publish(context.Background(), event); err != nil {
				log.Warn().Err(err).Str("event_type", string(event.Type)).Msg("failed to publish countdown event")
			}
		}
	}
}

// PayloadFor converts a controller view into the event payload.
func PayloadFor(st State) events.StatePayload {
	return events.StatePayload{
		TimerID:      st.TimerID,
		Status:       string(st.Status),
		Running:      st.Running,
		RemainingSec: st.RemainingSeconds,
		RequestedSec: st.RequestedSeconds,
		Display:      FormatClock(st.RemainingSeconds),
		UpdatedAt:    st.UpdatedAt,
	}
}

func eventTypeFor(prev, next State) events.EventType {
	if prev.Status == next.Status {
		return events.EventTypeTimerSynced
	}
	switch next.Status {
	case models.TimerStatusPaused:
		return events.EventTypeTimerPaused
	case models.TimerStatusRunning:
		return events.EventTypeTimerResumed
	case models.TimerStatusStopped:
		return events.EventTypeTimerStopped
	case models.TimerStatusFinished:
		return events.EventTypeTimerFinished
	}
	return events.EventTypeTimerSynced
}
