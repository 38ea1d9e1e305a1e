package countdown

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/countdown/go/internal/events"
	"github.com/mcdev12/countdown/go/internal/models"
	"github.com/mcdev12/countdown/go/internal/timerservice"
)

var (
	epoch          = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	errUnavailable = errors.New("service unavailable")
)

// fakeService fronts an in-memory store with failure injection.
type fakeService struct {
	store *timerservice.Store

	mu         sync.Mutex
	failStart  bool
	failPause  bool
	failResume bool
	failStop   bool
	failGet    bool
	getCalls   int
	pauseGate  chan struct{}
	pauseEnter chan struct{}
	gets       chan string
}

func newFakeService(clock clockwork.Clock) *fakeService {
	return &fakeService{
		store: timerservice.NewStore(clock),
		gets:  make(chan string, 256),
	}
}

func (f *fakeService) set(fn func(f *fakeService)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

func (f *fakeService) StartTimer(ctx context.Context, minutes int) (models.Timer, error) {
	f.mu.Lock()
	fail := f.failStart
	f.mu.Unlock()
	if fail {
		return models.Timer{}, errUnavailable
	}
	return f.store.Start(minutes)
}

func (f *fakeService) PauseTimer(ctx context.Context, id string) (models.Timer, error) {
	f.mu.Lock()
	fail, gate, enter := f.failPause, f.pauseGate, f.pauseEnter
	f.mu.Unlock()
	if enter != nil {
		close(enter)
	}
	if gate != nil {
		<-gate
	}
	if fail {
		return models.Timer{}, errUnavailable
	}
	return f.store.Pause(id)
}

func (f *fakeService) ResumeTimer(ctx context.Context, id string) (models.Timer, error) {
	f.mu.Lock()
	fail := f.failResume
	f.mu.Unlock()
	if fail {
		return models.Timer{}, errUnavailable
	}
	return f.store.Resume(id)
}

func (f *fakeService) StopTimer(ctx context.Context, id string) error {
	f.mu.Lock()
	fail := f.failStop
	f.mu.Unlock()
	if fail {
		return errUnavailable
	}
	return f.store.Stop(id)
}

func (f *fakeService) GetTimer(ctx context.Context, id string) (models.Timer, error) {
	f.mu.Lock()
	f.getCalls++
	fail := f.failGet
	f.mu.Unlock()
	defer func() { f.gets <- id }()
	if fail {
		return models.Timer{}, errUnavailable
	}
	return f.store.Get(id)
}

func (f *fakeService) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.getCalls
}

// recordingPublisher captures published events.
type recordingPublisher struct {
	ch chan events.Event
}

func newRecordingPublisher() *recordingPublisher {
	return &recordingPublisher{ch: make(chan events.Event, 256)}
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.ch <- event
	return nil
}

// waitFor drains events until match returns true.
func (p *recordingPublisher) waitFor(t *testing.T, match func(events.Event, events.StatePayload) bool) events.StatePayload {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case ev := <-p.ch:
			st, err := ev.State()
			if err != nil {
				t.Fatalf("bad event payload: %v", err)
			}
			if match(ev, st) {
				return st
			}
		case <-timeout:
			t.Fatalf("timed out waiting for event")
		}
	}
}

type harness struct {
	clock *clockwork.FakeClock
	svc   *fakeService
	pub   *recordingPublisher
	ctrl  *Controller
}

func newHarness(t *testing.T, pollInterval time.Duration) *harness {
	t.Helper()
	clock := clockwork.NewFakeClockAt(epoch)
	svc := newFakeService(clock)
	pub := newRecordingPublisher()
	ctrl := NewController(svc, Options{
		Clock:          clock,
		PollInterval:   pollInterval,
		RequestTimeout: time.Second,
		InitialSeconds: 60,
		Publisher:      pub,
	})
	t.Cleanup(ctrl.Close)
	return &harness{clock: clock, svc: svc, pub: pub, ctrl: ctrl}
}

func (h *harness) activePoll() *PollHandle {
	h.ctrl.mu.Lock()
	defer h.ctrl.mu.Unlock()
	return h.ctrl.poll
}

func waitDone(t *testing.T, h *PollHandle) {
	t.Helper()
	select {
	case <-h.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("poll loop for %s did not stop", h.TimerID())
	}
}
