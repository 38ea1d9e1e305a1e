package countdown

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/countdown/go/internal/models"
	"github.com/rs/zerolog/log"
)

// FetchFunc loads the current snapshot of a timer from the service.
type FetchFunc func(ctx context.Context, id string) (models.Timer, error)

// ApplyFunc merges a snapshot into local state. Returning false ends the loop.
type ApplyFunc func(h *PollHandle, snapshot models.Timer) bool

// PollHandle is the cancellation token of one poll loop. It is returned by
// Arm and passed back to Disarm.
type PollHandle struct {
	timerID string
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
}

func (h *PollHandle) TimerID() string {
	return h.timerID
}

// Done is closed once the loop has exited and will issue no more requests.
func (h *PollHandle) Done() <-chan struct{} {
	return h.done
}

func (h *PollHandle) live() bool {
	return h.ctx.Err() == nil
}

// Poller runs at most one periodic snapshot loop at a time.
type Poller struct {
	clock          clockwork.Clock
	interval       time.Duration
	requestTimeout time.Duration

	active *PollHandle
	mu     sync.Mutex
}

func NewPoller(clock clockwork.Clock, interval, requestTimeout time.Duration) *Poller {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &Poller{
		clock:          clock,
		interval:       interval,
		requestTimeout: requestTimeout,
	}
}

// Arm starts polling timerID. A live loop for the same timer is returned as
// is; a loop for any other timer is cancelled first.
func (p *Poller) Arm(timerID string, fetch FetchFunc, apply ApplyFunc) *PollHandle {
	p.mu.Lock()
	defer p.mu.Unlock()

	if existing := p.active; existing != nil {
		if existing.timerID == timerID && existing.live() {
			return existing
		}
		existing.cancel()
		log.Debug().Str("timer_id", existing.timerID).Msg("replaced existing poll loop")
	}

	ctx, cancel := context.WithCancel(context.Background())
	h := &PollHandle{
		timerID: timerID,
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	// Created here rather than in the goroutine so the first tick is
	// scheduled by the time Arm returns.
	ticker := p.clock.NewTicker(p.interval)
	p.active = h

	go p.run(h, ticker, fetch, apply)

	log.Debug().
		Str("timer_id", timerID).
		Dur("interval", p.interval).
		Msg("armed poll loop")
	return h
}

// Disarm cancels h. Safe to call more than once and with nil.
func (p *Poller) Disarm(h *PollHandle) {
	if h == nil {
		return
	}
	h.cancel()
	p.release(h)
}

// Active returns the live handle, if any.
func (p *Poller) Active() *PollHandle {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.active != nil && p.active.live() {
		return p.active
	}
	return nil
}

func (p *Poller) release(h *PollHandle) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.active == h {
		p.active = nil
	}
}

func (p *Poller) run(h *PollHandle, ticker clockwork.Ticker, fetch FetchFunc, apply ApplyFunc) {
	defer func() {
		ticker.Stop()
		h.cancel()
		p.release(h)
		close(h.done)
		log.Debug().Str("timer_id", h.timerID).Msg("poll loop stopped")
	}()

	for {
		select {
		case <-h.ctx.Done():
			return
		case <-ticker.Chan():
		}

		// A tick and a cancel can be ready together; never poll after cancel.
		if !h.live() {
			return
		}

		snapshot, err := p.fetch(h, fetch)
		if err != nil {
			if !h.live() {
				return
			}
			log.Debug().Err(err).Str("timer_id", h.timerID).Msg("poll failed, skipping tick")
			continue
		}

		if !apply(h, snapshot) {
			return
		}
	}
}

func (p *Poller) fetch(h *PollHandle, fetch FetchFunc) (models.Timer, error) {
	ctx := h.ctx
	if p.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.requestTimeout)
		defer cancel()
	}
	return fetch(ctx, h.timerID)
}
